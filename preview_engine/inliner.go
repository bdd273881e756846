package preview_engine

import (
	"encoding/base64"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/sketchrun/livepreview/utils"
)

var cssURLRe = regexp.MustCompile(`url\(\s*(['"]?)([^'")]+?)['"]?\s*\)`)

// inliner turns resolved files into data URLs, recursively chasing CSS
// url() arguments, JS import specifiers, and Worker scripts. The cache is
// scoped to one run; the in-progress set breaks reference cycles.
type inliner struct {
	index      *FileIndex
	resolver   *resolver
	svg        *svgStats
	cache      map[string]string
	inProgress map[string]bool
}

func newInliner(index *FileIndex, res *resolver, svg *svgStats) *inliner {
	return &inliner{
		index:      index,
		resolver:   res,
		svg:        svg,
		cache:      make(map[string]string),
		inProgress: make(map[string]bool),
	}
}

// ToDataURL builds (and memoizes) the data URL for a resolved snapshot
// path. When the path is already under construction — a reference cycle —
// it returns whatever cached value exists instead of recursing further.
func (il *inliner) ToDataURL(path string) (string, bool) {
	if cached, ok := il.cache[path]; ok {
		return cached, true
	}
	if il.inProgress[path] {
		return "", false
	}

	file, ok := il.index.Lookup(path)
	if !ok {
		return "", false
	}

	il.inProgress[path] = true
	defer delete(il.inProgress, path)

	content := file.Content
	switch utils.ExtensionOf(path) {
	case "css":
		content = il.rewriteCSSURLs(content, path)
	case "js", "mjs", "cjs", "jsx":
		content = rewriteScriptImports(content, func(ref string) (string, bool) {
			return il.InlineRef(path, ref)
		})
	case "svg":
		content = il.sanitizeSVGContent(content)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	dataURL := "data:" + utils.MimeTypeFromPath(path) + ";base64," + encoded
	il.cache[path] = dataURL
	return dataURL, true
}

// InlineRef resolves a raw reference relative to fromPath and inlines it.
func (il *inliner) InlineRef(fromPath string, ref string) (string, bool) {
	path, ok := il.resolver.Resolve(fromPath, ref)
	if !ok {
		return "", false
	}
	return il.ToDataURL(path)
}

// rewriteCSSURLs inlines every non-external url(...) argument in a
// stylesheet, leaving the surrounding CSS byte-identical.
func (il *inliner) rewriteCSSURLs(css string, fromPath string) string {
	return cssURLRe.ReplaceAllStringFunc(css, func(match string) string {
		parts := cssURLRe.FindStringSubmatch(match)
		if parts == nil {
			return match
		}
		ref := strings.TrimSpace(parts[2])
		if IsExternalRef(ref) {
			return match
		}
		if dataURL, ok := il.InlineRef(fromPath, ref); ok {
			return "url(" + dataURL + ")"
		}
		return match
	})
}

// sanitizeSVGContent runs the SVG sanitizer over a standalone .svg file
// before it is encoded.
func (il *inliner) sanitizeSVGContent(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}
	sanitizeSVGTree(doc, il.svg)

	svgs := findElements(doc, "svg")
	if len(svgs) == 0 {
		return content
	}
	var b strings.Builder
	if err := html.Render(&b, svgs[0]); err != nil {
		return content
	}
	return b.String()
}
