package preview_engine

import (
	"math"
	"strings"

	"github.com/sketchrun/livepreview/utils"
)

// selectEntryFile picks the HTML root document for the preview. Candidates
// are every .html/.htm file, narrowed to index.html files when any exist.
// Returns "" when the snapshot has no HTML at all.
func selectEntryFile(index *FileIndex) string {
	var candidates []string
	var indexNamed []string

	for _, path := range index.Paths() {
		ext := utils.ExtensionOf(path)
		if ext != "html" && ext != "htm" {
			continue
		}
		candidates = append(candidates, path)
		if strings.EqualFold(utils.Basename(path), "index.html") {
			indexNamed = append(indexNamed, path)
		}
	}
	if len(indexNamed) > 0 {
		candidates = indexNamed
	}
	if len(candidates) == 0 {
		return ""
	}

	best := ""
	bestScore := math.Inf(-1)
	bestDepth := 0
	for _, path := range candidates {
		score := scoreEntryCandidate(index, path)
		depth := utils.PathDepth(path)
		// Ties favor the earlier-seen, shallower path.
		if score > bestScore || (score == bestScore && depth < bestDepth) {
			best = path
			bestScore = score
			bestDepth = depth
		}
	}
	return best
}

// scoreEntryCandidate applies the entry heuristics: canonical names win,
// component fragments lose, documents that look like complete pages with
// conventional siblings win.
func scoreEntryCandidate(index *FileIndex, path string) float64 {
	file, _ := index.Lookup(path)
	content := strings.ToLower(file.Content)
	dir := utils.Dirname(path)
	dirBase := strings.ToLower(utils.Basename(dir))

	score := 0.0

	if strings.EqualFold(utils.Basename(path), "index.html") {
		score += 40
	}
	if path == "index.html" {
		score += 35
	}

	if dirBase == "components" || dirBase == "partials" {
		score -= 30
	}
	if strings.Contains("/"+path, "/components/") {
		score -= 20
	}

	if strings.Contains(content, "<!doctype") {
		score += 18
	}
	if strings.Contains(content, "<html") {
		score += 10
	}
	if strings.Contains(content, "<head") {
		score += 6
	}
	if strings.Contains(content, "<body") {
		score += 10
	}
	if strings.Contains(content, "<main") {
		score += 6
	}

	score += math.Min(25, math.Log10(float64(len(file.Content)+1))*10)

	if index.Contains(utils.JoinPath(dir, "style.css")) {
		score += 12
	}
	if index.Contains(utils.JoinPath(dir, "script.js")) {
		score += 12
	}

	score -= float64(2 * utils.PathDepth(path))

	return score
}
