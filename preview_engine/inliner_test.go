package preview_engine

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchrun/livepreview/preview_engine/models"
)

func newTestInliner(files []models.ProjectFile) *inliner {
	index := BuildFileIndex(files)
	return newInliner(index, newResolver(index, nil, 25), &svgStats{})
}

func decodeDataURL(t *testing.T, dataURL string) string {
	t.Helper()
	i := strings.Index(dataURL, ";base64,")
	require.GreaterOrEqual(t, i, 0, "not a base64 data URL: %q", dataURL)
	decoded, err := base64.StdEncoding.DecodeString(dataURL[i+len(";base64,"):])
	require.NoError(t, err)
	return string(decoded)
}

func TestToDataURL_InlinesCSSURLArguments(t *testing.T) {
	il := newTestInliner([]models.ProjectFile{
		{Path: "css/style.css", Content: `body { background: url("../images/bg.png"); }`},
		{Path: "images/bg.png", Content: "PNG"},
	})

	dataURL, ok := il.ToDataURL("css/style.css")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(dataURL, "data:text/css;base64,"))

	css := decodeDataURL(t, dataURL)
	assert.Contains(t, css, "url(data:image/png;base64,UE5H)")
	assert.NotContains(t, css, "bg.png")
}

func TestToDataURL_CycleTerminates(t *testing.T) {
	il := newTestInliner([]models.ProjectFile{
		{Path: "a.css", Content: `.a { background: url(b.css); }`},
		{Path: "b.css", Content: `.b { background: url(a.css); }`},
	})

	dataURL, ok := il.ToDataURL("a.css")
	require.True(t, ok)

	// b.css is inlined into a.css; the back-reference inside b.css stays a
	// plain url() instead of recursing forever.
	outer := decodeDataURL(t, dataURL)
	assert.Contains(t, outer, "url(data:text/css;base64,")

	innerStart := strings.Index(outer, "data:text/css;base64,")
	inner := decodeDataURL(t, strings.TrimSuffix(outer[innerStart:], "); }"))
	assert.Contains(t, inner, "url(a.css)")
}

func TestToDataURL_SanitizesStandaloneSVG(t *testing.T) {
	il := newTestInliner([]models.ProjectFile{
		{Path: "icons/star.svg", Content: `<svg viewBox="0 0 00123456"><path d="M4 4 L20 20 Z"/></svg>`},
	})

	dataURL, ok := il.ToDataURL("icons/star.svg")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/svg+xml;base64,"))

	svg := decodeDataURL(t, dataURL)
	assert.Contains(t, svg, `viewBox="0 0 123 456"`)
	assert.Equal(t, 1, il.svg.viewBoxes)
}

func TestToDataURL_ExternalCSSURLsAreLeftAlone(t *testing.T) {
	il := newTestInliner([]models.ProjectFile{
		{Path: "style.css", Content: `@font-face { src: url(https://fonts.example.com/inter.woff2); }`},
	})

	dataURL, ok := il.ToDataURL("style.css")
	require.True(t, ok)
	assert.Contains(t, decodeDataURL(t, dataURL), "url(https://fonts.example.com/inter.woff2)")
}

func TestToDataURL_MissingPath(t *testing.T) {
	il := newTestInliner(nil)
	_, ok := il.ToDataURL("nope.css")
	assert.False(t, ok)
}

func TestInlineRef_ResolvesBeforeInlining(t *testing.T) {
	il := newTestInliner([]models.ProjectFile{
		{Path: "index.html", Content: "<html></html>"},
		{Path: "frontend/assets/logo.png", Content: "PNG"},
	})

	dataURL, ok := il.InlineRef("index.html", "./assets/logo.png")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
	assert.Equal(t, 1, il.resolver.autoMappedCount())
}
