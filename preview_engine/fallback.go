package preview_engine

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// renderFallbackPage builds the status page shown when the snapshot has no
// HTML entry: the preview surface is never blank.
func renderFallbackPage(index *FileIndex) string {
	paths := append([]string(nil), index.Paths()...)
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("<!doctype html>\n<html><head><meta charset=\"utf-8\">")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
	b.WriteString("<title>Preview pending</title><style>")
	b.WriteString("body{font-family:ui-monospace,monospace;background:#16181d;color:#c9d1d9;margin:0;padding:2.5rem}")
	b.WriteString("h1{font-size:1.1rem;color:#8be9fd}p{color:#6272a4}")
	b.WriteString("ul{list-style:none;padding:0}li{padding:.15rem 0;border-bottom:1px solid #22252c}")
	b.WriteString("</style></head><body>")
	b.WriteString("<h1>No HTML entry file yet</h1>")
	fmt.Fprintf(&b, "<p>%d files in %d folders. The preview will render once an HTML document is generated.</p>",
		index.Len(), index.FolderCount())
	b.WriteString("<ul>")
	for _, path := range paths {
		b.WriteString("<li>" + html.EscapeString(path) + "</li>")
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}
