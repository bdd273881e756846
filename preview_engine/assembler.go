package preview_engine

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// emptyManifestDataURL is base64 for "{}": a manifest link that resolves to
// nothing still must not 404 inside the sandbox.
const emptyManifestDataURL = "data:application/json;base64,e30="

var urlishMetaRe = regexp.MustCompile(`(?i)(image|icon|url)`)

// assembler rewrites the chosen entry document into a self-contained
// preview: every project reference inlined, every external one normalized,
// every rewrite fault-isolated so one broken asset cannot abort the run.
type assembler struct {
	index            *FileIndex
	resolver         *resolver
	inliner          *inliner
	svg              *svgStats
	sanitizedScripts int
	entryPath        string
}

func newAssembler(index *FileIndex, res *resolver, il *inliner, svg *svgStats) *assembler {
	return &assembler{index: index, resolver: res, inliner: il, svg: svg}
}

// Assemble parses the entry file, rewrites its DOM, and serializes the
// final document.
func (a *assembler) Assemble(entryPath string) (string, error) {
	a.entryPath = entryPath
	file, _ := a.index.Lookup(entryPath)

	doc, err := html.Parse(strings.NewReader(file.Content))
	if err != nil {
		return "", err
	}

	a.ensureHeadDefaults(doc)

	a.safely(func() { a.rewriteImages(doc) })
	a.safely(func() { a.rewriteMediaSources(doc) })
	a.safely(func() { a.rewriteAnchors(doc) })
	a.safely(func() { a.rewriteScripts(doc) })
	a.safely(func() { a.rewriteLinks(doc) })
	a.safely(func() { a.rewriteSrcsets(doc) })
	a.safely(func() { a.rewriteInlineStyles(doc) })
	a.safely(func() { a.rewriteMetaContent(doc) })
	a.safely(func() { a.rewriteInlineScripts(doc) })

	sanitizeSVGTree(doc, a.svg)

	return serializeDocument(doc), nil
}

// safely isolates one rewrite pass; a malformed asset degrades only the
// pass that touched it.
func (a *assembler) safely(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}

// ensureHeadDefaults guarantees charset and viewport metas and a neutral
// base so any missed relative reference fails closed instead of resolving
// against the host page.
func (a *assembler) ensureHeadDefaults(doc *html.Node) {
	heads := findElements(doc, "head")
	if len(heads) == 0 {
		return
	}
	head := heads[0]

	hasCharset := false
	hasViewport := false
	for _, meta := range findElements(head, "meta") {
		if hasAttr(meta, "charset") {
			hasCharset = true
		}
		if strings.EqualFold(getAttr(meta, "name"), "viewport") {
			hasViewport = true
		}
	}

	if !hasCharset {
		meta := &html.Node{Type: html.ElementNode, Data: "meta",
			Attr: []html.Attribute{{Key: "charset", Val: "utf-8"}}}
		head.InsertBefore(meta, head.FirstChild)
	}
	if !hasViewport {
		meta := &html.Node{Type: html.ElementNode, Data: "meta", Attr: []html.Attribute{
			{Key: "name", Val: "viewport"},
			{Key: "content", Val: "width=device-width, initial-scale=1"},
		}}
		head.AppendChild(meta)
	}

	if len(findElements(head, "base")) == 0 {
		base := &html.Node{Type: html.ElementNode, Data: "base",
			Attr: []html.Attribute{{Key: "href", Val: "about:blank"}}}
		head.InsertBefore(base, head.FirstChild)
	}
}

// rewriteImages inlines img[src] and video[poster]; on failure the
// attribute is blanked but the element stays.
func (a *assembler) rewriteImages(doc *html.Node) {
	for _, img := range findElements(doc, "img") {
		a.rewriteBlankable(img, "src")
	}
	for _, video := range findElements(doc, "video") {
		if hasAttr(video, "poster") {
			a.rewriteBlankable(video, "poster")
		}
	}
}

func (a *assembler) rewriteBlankable(n *html.Node, attr string) {
	ref := getAttr(n, attr)
	if ref == "" || IsExternalRef(ref) {
		return
	}
	if dataURL, ok := a.inliner.InlineRef(a.entryPath, ref); ok {
		setAttr(n, attr, dataURL)
	} else {
		setAttr(n, attr, "")
	}
}

// rewriteMediaSources inlines source[src], audio[src], and object[data];
// these elements are removed outright on failure.
func (a *assembler) rewriteMediaSources(doc *html.Node) {
	rewrite := func(n *html.Node, attr string) {
		ref := getAttr(n, attr)
		if ref == "" || IsExternalRef(ref) {
			return
		}
		if dataURL, ok := a.inliner.InlineRef(a.entryPath, ref); ok {
			setAttr(n, attr, dataURL)
		} else {
			removeNode(n)
		}
	}

	for _, n := range findElements(doc, "source") {
		if hasAttr(n, "src") {
			rewrite(n, "src")
		}
	}
	for _, n := range findElements(doc, "audio") {
		rewrite(n, "src")
	}
	for _, n := range findElements(doc, "object") {
		rewrite(n, "data")
	}
}

// rewriteAnchors resolves a[href] path components while preserving query
// and fragment. Self and root references collapse to the document itself.
func (a *assembler) rewriteAnchors(doc *html.Node) {
	for _, anchor := range findElements(doc, "a") {
		raw := getAttr(anchor, "href")
		if raw == "" || IsExternalRef(raw) {
			continue
		}

		path, suffix := splitRefSuffix(raw)
		if path == "" || path == "." || path == "/" {
			if suffix != "" {
				setAttr(anchor, "href", suffix)
			} else {
				setAttr(anchor, "href", "#")
			}
			continue
		}

		resolved, ok := a.resolver.Resolve(a.entryPath, path)
		if !ok {
			setAttr(anchor, "href", "#")
			continue
		}
		if resolved == a.entryPath {
			setAttr(anchor, "href", "#")
			continue
		}
		if dataURL, ok := a.inliner.ToDataURL(resolved); ok {
			setAttr(anchor, "href", dataURL+suffix)
		} else {
			setAttr(anchor, "href", "#")
		}
	}
}

// rewriteScripts handles script[src]: externals go through the CDN table,
// internals are inlined, and anything unrecoverable is removed.
func (a *assembler) rewriteScripts(doc *html.Node) {
	for _, script := range findElements(doc, "script") {
		src := getAttr(script, "src")
		if src == "" {
			continue
		}

		if IsExternalRef(src) {
			normalized, drop, changed := NormalizeExternalURL(src)
			if drop {
				removeNode(script)
				continue
			}
			if changed {
				setAttr(script, "src", normalized)
				removeAttr(script, "integrity")
				removeAttr(script, "crossorigin")
			}
			continue
		}

		if dataURL, ok := a.inliner.InlineRef(a.entryPath, src); ok {
			setAttr(script, "src", dataURL)
			removeAttr(script, "integrity")
			removeAttr(script, "crossorigin")
		} else {
			removeNode(script)
		}
	}
}

// rewriteLinks handles stylesheet/icon/manifest/preload link elements.
func (a *assembler) rewriteLinks(doc *html.Node) {
	for _, link := range findElements(doc, "link") {
		rel := strings.ToLower(getAttr(link, "rel"))
		if !strings.Contains(rel, "stylesheet") && !strings.Contains(rel, "icon") &&
			!strings.Contains(rel, "manifest") && !strings.Contains(rel, "preload") {
			continue
		}

		href := getAttr(link, "href")
		if href == "" {
			continue
		}

		if IsExternalRef(href) {
			normalized, drop, changed := NormalizeExternalURL(href)
			if drop {
				removeNode(link)
				continue
			}
			if changed {
				setAttr(link, "href", normalized)
				removeAttr(link, "integrity")
				removeAttr(link, "crossorigin")
			}
			continue
		}

		if dataURL, ok := a.inliner.InlineRef(a.entryPath, href); ok {
			setAttr(link, "href", dataURL)
			removeAttr(link, "integrity")
			continue
		}

		if strings.Contains(rel, "manifest") {
			setAttr(link, "href", emptyManifestDataURL)
		} else {
			removeNode(link)
		}
	}
}

// rewriteSrcsets resolves each srcset candidate independently; unresolved
// entries are dropped and the element removed when none survive.
func (a *assembler) rewriteSrcsets(doc *html.Node) {
	for _, n := range findElements(doc, "source") {
		srcset := getAttr(n, "srcset")
		if srcset == "" {
			continue
		}

		var kept []string
		for _, candidate := range strings.Split(srcset, ",") {
			candidate = strings.TrimSpace(candidate)
			if candidate == "" {
				continue
			}
			fields := strings.Fields(candidate)
			ref := fields[0]
			descriptor := strings.Join(fields[1:], " ")

			if IsExternalRef(ref) {
				kept = append(kept, candidate)
				continue
			}
			if dataURL, ok := a.inliner.InlineRef(a.entryPath, ref); ok {
				if descriptor != "" {
					kept = append(kept, dataURL+" "+descriptor)
				} else {
					kept = append(kept, dataURL)
				}
			}
		}

		if len(kept) == 0 {
			removeNode(n)
		} else {
			setAttr(n, "srcset", strings.Join(kept, ", "))
		}
	}
}

// rewriteInlineStyles rewrites CSS url() arguments inside <style> blocks.
func (a *assembler) rewriteInlineStyles(doc *html.Node) {
	for _, style := range findElements(doc, "style") {
		css := textContent(style)
		if css == "" {
			continue
		}
		setTextContent(style, a.inliner.rewriteCSSURLs(css, a.entryPath))
	}
}

// rewriteMetaContent resolves url-ish meta values (og:image and friends);
// unresolvable ones are removed rather than left dangling.
func (a *assembler) rewriteMetaContent(doc *html.Node) {
	for _, meta := range findElements(doc, "meta") {
		key := getAttr(meta, "property") + " " + getAttr(meta, "name")
		if !urlishMetaRe.MatchString(key) {
			continue
		}
		content := getAttr(meta, "content")
		if content == "" || IsExternalRef(content) {
			continue
		}
		if dataURL, ok := a.inliner.InlineRef(a.entryPath, content); ok {
			setAttr(meta, "content", dataURL)
		} else {
			removeNode(meta)
		}
	}
}

// rewriteInlineScripts validates classic inline scripts and rewrites module
// script imports. Module sources are assumed valid ESM per the generation
// contract; classic sources that fail to parse are neutralized and counted.
func (a *assembler) rewriteInlineScripts(doc *html.Node) {
	for _, script := range findElements(doc, "script") {
		if hasAttr(script, "src") {
			continue
		}
		source := textContent(script)
		if strings.TrimSpace(source) == "" {
			continue
		}

		scriptType := strings.ToLower(strings.TrimSpace(getAttr(script, "type")))
		if scriptType == "module" {
			rewritten := rewriteScriptImports(source, func(ref string) (string, bool) {
				return a.inliner.InlineRef(a.entryPath, ref)
			})
			if rewritten != source {
				setTextContent(script, rewritten)
			}
			continue
		}
		if scriptType != "" && scriptType != "text/javascript" && scriptType != "application/javascript" {
			continue
		}

		if !IsValidScript(source) {
			setTextContent(script, scriptPlaceholder)
			a.sanitizedScripts++
		}
	}
}

// splitRefSuffix separates the path part of a reference from its query
// string and fragment.
func splitRefSuffix(raw string) (string, string) {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		return raw[:i], raw[i:]
	}
	return raw, ""
}

// serializeDocument renders the tree as "<!doctype html>" plus the document
// markup, with a best-effort balance repair should rendering ever truncate.
func serializeDocument(doc *html.Node) string {
	for c := doc.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.DoctypeNode {
			doc.RemoveChild(c)
		}
		c = next
	}

	var b strings.Builder
	b.WriteString("<!doctype html>\n")
	if err := html.Render(&b, doc); err != nil {
		return b.String()
	}

	out := b.String()
	if !strings.Contains(out, "</html>") {
		if !strings.Contains(out, "</body>") {
			out += "</body>"
		}
		out += "</html>"
	}
	return out
}
