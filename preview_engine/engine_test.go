package preview_engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchrun/livepreview/preview_engine/models"
)

func TestRender_SelfContainedDocument(t *testing.T) {
	engine := NewPreviewEngine(nil)

	result, err := engine.Render([]models.ProjectFile{
		{Path: "index.html", Content: `<!doctype html>
<html>
<head>
  <title>demo</title>
  <link rel="stylesheet" href="css/style.css">
</head>
<body>
  <img src="images/logo.png" alt="logo">
  <script src="app.js"></script>
</body>
</html>`},
		{Path: "css/style.css", Content: "body { margin: 0; }"},
		{Path: "images/logo.png", Content: "PNG"},
		{Path: "app.js", Content: "console.log('ready');"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ModeHTML, result.Metadata.Mode)
	assert.Equal(t, "index.html", result.Metadata.EntryFile)
	assert.Equal(t, 4, result.Metadata.FileCount)
	assert.Equal(t, 3, result.Metadata.ResolvedRefs)
	assert.Empty(t, result.Metadata.UnresolvedRefs)

	assert.True(t, strings.HasPrefix(result.HTML, "<!doctype html>"))
	assert.Contains(t, result.HTML, `<base href="about:blank"`)
	assert.Contains(t, result.HTML, `charset="utf-8"`)
	assert.Contains(t, result.HTML, `name="viewport"`)
	assert.Contains(t, result.HTML, "data:text/css;base64,")
	assert.Contains(t, result.HTML, "data:image/png;base64,")
	assert.Contains(t, result.HTML, "data:text/javascript;base64,")

	// Nothing in the output still points at a snapshot path.
	assert.NotContains(t, result.HTML, "css/style.css")
	assert.NotContains(t, result.HTML, "images/logo.png")
}

func TestRender_IsIdempotent(t *testing.T) {
	engine := NewPreviewEngine(nil)
	files := []models.ProjectFile{
		{Path: "index.html", Content: `<html><head></head><body><img src="a.png"><a href="about.html">about</a></body></html>`},
		{Path: "a.png", Content: "PNG"},
		{Path: "about.html", Content: `<html><body>about</body></html>`},
	}

	first, err := engine.Render(files)
	require.NoError(t, err)
	second, err := engine.Render(files)
	require.NoError(t, err)

	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, first.Metadata, second.Metadata)
}

func TestRender_EmptySnapshotFallsBack(t *testing.T) {
	engine := NewPreviewEngine(nil)

	result, err := engine.Render(nil)
	require.NoError(t, err)

	assert.Equal(t, models.ModeFallback, result.Metadata.Mode)
	assert.Equal(t, "", result.Metadata.EntryFile)
	assert.NotEmpty(t, result.Metadata.Note)
	assert.NotEmpty(t, result.HTML)
}

func TestRender_NoHTMLEntryFallsBack(t *testing.T) {
	engine := NewPreviewEngine(nil)

	result, err := engine.Render([]models.ProjectFile{
		{Path: "style.css", Content: "body{}"},
		{Path: "app.js", Content: "void 0;"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ModeFallback, result.Metadata.Mode)
	assert.Contains(t, result.HTML, "style.css")
	assert.Contains(t, result.HTML, "app.js")
}

func TestRender_MissingImageBlankedAndReported(t *testing.T) {
	engine := NewPreviewEngine(nil)

	result, err := engine.Render([]models.ProjectFile{
		{Path: "index.html", Content: `<html><head></head><body><img src="missing.png"></body></html>`},
	})
	require.NoError(t, err)

	assert.Contains(t, result.HTML, `<img src=""`)
	assert.Equal(t, []string{"missing.png"}, result.Metadata.UnresolvedRefs)
}

func TestRender_InvalidInlineScriptNeutralized(t *testing.T) {
	engine := NewPreviewEngine(nil)

	result, err := engine.Render([]models.ProjectFile{
		{Path: "index.html", Content: `<html><head></head><body><script>function broken( {</script></body></html>`},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Metadata.SanitizedScripts)
	assert.Contains(t, result.HTML, scriptPlaceholder)
	assert.NotContains(t, result.HTML, "function broken(")
}

func TestRender_ExternalScriptsNormalized(t *testing.T) {
	engine := NewPreviewEngine(nil)

	result, err := engine.Render([]models.ProjectFile{
		{Path: "index.html", Content: `<html><head>
<script src="https://unpkg.com/tailwindcss@2.2.19/dist/tailwind.min.js" integrity="sha384-x" crossorigin="anonymous"></script>
<script src="https://raw.githubusercontent.com/u/r/main/lib.js"></script>
</head><body></body></html>`},
	})
	require.NoError(t, err)

	assert.Contains(t, result.HTML, `src="https://cdn.tailwindcss.com"`)
	assert.NotContains(t, result.HTML, "integrity")
	assert.NotContains(t, result.HTML, "raw.githubusercontent.com")

	// External references never count as unresolved.
	assert.Empty(t, result.Metadata.UnresolvedRefs)
}

func TestRender_AnchorsResolveToDataURLsOrNeutralize(t *testing.T) {
	engine := NewPreviewEngine(nil)

	result, err := engine.Render([]models.ProjectFile{
		{Path: "index.html", Content: `<html><head></head><body>
<a href="about.html">about</a>
<a href="gone.html">gone</a>
<a href="/">home</a>
<a href="index.html">self</a>
</body></html>`},
		{Path: "about.html", Content: `<html><body>about</body></html>`},
	})
	require.NoError(t, err)

	assert.Contains(t, result.HTML, `href="data:text/html;base64,`)
	assert.Contains(t, result.HTML, `href="#"`)
	assert.NotContains(t, result.HTML, `href="gone.html"`)
	assert.NotContains(t, result.HTML, `href="index.html"`)
}

func TestRender_SVGRepairsAreCounted(t *testing.T) {
	engine := NewPreviewEngine(nil)

	result, err := engine.Render([]models.ProjectFile{
		{Path: "index.html", Content: `<html><head></head><body>
<svg viewBox="0 0 00123456"><path d="M10 10 L…"/></svg>
</body></html>`},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Metadata.SanitizedSvgViewBoxes)
	assert.Equal(t, 1, result.Metadata.SanitizedSvgPaths)
	assert.Contains(t, result.HTML, `viewBox="0 0 123 456"`)
}
