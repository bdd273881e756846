package preview_engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestIsValidViewBox(t *testing.T) {
	assert.True(t, isValidViewBox("0 0 24 24"))
	assert.True(t, isValidViewBox("0,0,100,50"))
	assert.False(t, isValidViewBox("0 0 24"))
	assert.False(t, isValidViewBox("0 0 0 24"))
	assert.False(t, isValidViewBox("0 0 24 -5"))
	assert.False(t, isValidViewBox("0 0 00123456"))
	assert.False(t, isValidViewBox("a b c d"))
}

func TestRepairViewBox_DigitBlobSplitsInHalf(t *testing.T) {
	repaired, removed := repairViewBox("0 0 00123456")
	require.False(t, removed)
	assert.Equal(t, "0 0 123 456", repaired)
}

func TestRepairViewBox_TruncationMarker(t *testing.T) {
	repaired, removed := repairViewBox("0 0 512 512<path d=")
	require.False(t, removed)
	assert.Equal(t, "0 0 512 512", repaired)

	repaired, removed = repairViewBox("0 0 24…")
	require.False(t, removed)
	assert.Equal(t, "0 0 24 24", repaired)
}

func TestRepairViewBox_UnsalvageableIsRemoved(t *testing.T) {
	_, removed := repairViewBox("…")
	assert.True(t, removed)
}

func TestIsValidPathData(t *testing.T) {
	assert.True(t, isValidPathData("M10 10 L20 20 Z"))
	assert.True(t, isValidPathData("M0,0 C1,1 2,2 3,3"))
	assert.True(t, isValidPathData("m5 5 h10 v10 h-10 z"))
	assert.True(t, isValidPathData("M0 0 A5 5 0 1 0 10 10"))

	assert.False(t, isValidPathData(""))
	assert.False(t, isValidPathData("L10 10"))      // must start with moveto
	assert.False(t, isValidPathData("M10"))         // incomplete pair
	assert.False(t, isValidPathData("M0 0 A5 5 0 2 0 10 10")) // arc flag not boolean
	assert.False(t, isValidPathData("M10 10 L<oops"))
}

func TestRepairPathData_TrimsTrailingGarbage(t *testing.T) {
	repaired, removed := repairPathData("M10 10L5 5 garbage???")
	require.False(t, removed)
	assert.True(t, isValidPathData(repaired), "repaired data must validate: %q", repaired)
	assert.True(t, strings.HasPrefix(repaired, "M"))
}

func TestRepairPathData_RemovesHopelessData(t *testing.T) {
	_, removed := repairPathData("???!!!")
	assert.True(t, removed)
}

func TestSanitizeSVGTree_CountsRepairs(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<html><body><svg viewBox="0 0 00123456"><path d="M10 10L…<broken"/></svg></body></html>`))
	require.NoError(t, err)

	stats := &svgStats{}
	sanitizeSVGTree(doc, stats)

	assert.Equal(t, 1, stats.viewBoxes)
	assert.Equal(t, 1, stats.paths)

	svg := findElements(doc, "svg")[0]
	assert.Equal(t, "0 0 123 456", getAttr(svg, "viewBox"))

	paths := findElements(doc, "path")
	require.Len(t, paths, 1)
	if d := getAttr(paths[0], "d"); d != "" {
		assert.True(t, isValidPathData(d), "surviving d must validate: %q", d)
	}
}

func TestSanitizeSVGTree_LeavesValidContentAlone(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<html><body><svg viewBox="0 0 24 24"><path d="M4 4 L20 20 Z"/></svg></body></html>`))
	require.NoError(t, err)

	stats := &svgStats{}
	sanitizeSVGTree(doc, stats)

	assert.Equal(t, 0, stats.viewBoxes)
	assert.Equal(t, 0, stats.paths)
	assert.Equal(t, "M4 4 L20 20 Z", getAttr(findElements(doc, "path")[0], "d"))
}
