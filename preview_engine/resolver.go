package preview_engine

import (
	"strings"

	"github.com/sketchrun/livepreview/config"
	"github.com/sketchrun/livepreview/preview_engine/models"
	"github.com/sketchrun/livepreview/utils"
)

// alternateRoots are directory prefixes generated projects commonly invent
// or omit; exact resolution retries a reference under each of them before
// falling back to fuzzy matching.
var alternateRoots = []string{"public", "src", "assets", "static", "app", "www"}

// resolver maps raw references to concrete snapshot files. Exact joins are
// tried first; fuzzy suffix/basename scoring covers the wrong-depth and
// wrong-directory references AI output reliably produces. Every non-external
// outcome is logged as a models.ResolvedReference; the report counters and
// the unresolved list all derive from that log.
type resolver struct {
	index         *FileIndex
	weights       *config.ResolverWeights
	maxUnresolved int

	references     []models.ResolvedReference
	unresolvedSeen map[string]bool
}

func newResolver(index *FileIndex, weights *config.ResolverWeights, maxUnresolved int) *resolver {
	if weights == nil {
		weights = config.DefaultConfig.ResolverWeights
	}
	return &resolver{
		index:          index,
		weights:        weights,
		maxUnresolved:  maxUnresolved,
		unresolvedSeen: make(map[string]bool),
	}
}

// Resolve maps a raw reference found in fromPath to a normalized snapshot
// path. External and empty references return ("", false) without being
// recorded; genuine misses are recorded as unresolved.
func (r *resolver) Resolve(fromPath string, ref string) (string, bool) {
	if IsExternalRef(ref) {
		return "", false
	}

	raw := strings.TrimSpace(ref)
	// Strip query and fragment before treating the remainder as a path.
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" {
		return "", false
	}

	if path, ok := r.resolveExact(fromPath, raw); ok {
		r.record(fromPath, raw, path, false)
		return path, true
	}

	if path, ok := r.resolveFuzzy(fromPath, raw); ok {
		r.record(fromPath, raw, path, true)
		return path, true
	}

	r.recordMiss(fromPath, raw)
	return "", false
}

// resolveExact tries the ordered candidate joins against the index.
func (r *resolver) resolveExact(fromPath string, raw string) (string, bool) {
	norm := utils.JoinPath("", raw)

	candidates := []string{
		norm,
		utils.JoinPath(utils.Dirname(fromPath), raw),
	}
	for _, root := range alternateRoots {
		candidates = append(candidates, utils.JoinPath(root, raw))
	}
	// src/-prefixed references frequently mean an asset directory instead.
	if rest, ok := strings.CutPrefix(norm, "src/"); ok {
		candidates = append(candidates,
			utils.JoinPath("assets", rest),
			utils.JoinPath("public", rest),
		)
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if r.index.Contains(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// resolveFuzzy searches for a suffix match over every known path, then the
// basename index, and scores the candidates.
func (r *resolver) resolveFuzzy(fromPath string, raw string) (string, bool) {
	norm := utils.JoinPath("", raw)
	if norm == "" {
		return "", false
	}

	var candidates []string
	for _, path := range r.index.Paths() {
		if path == norm || strings.HasSuffix(path, "/"+norm) {
			candidates = append(candidates, path)
		}
	}
	if len(candidates) == 0 {
		candidates = r.index.ByBasename(utils.Basename(norm))
	}
	if len(candidates) == 0 {
		return "", false
	}

	best := ""
	bestScore := -1 << 30
	for _, path := range candidates {
		score := r.scoreCandidate(fromPath, norm, path)
		if score > bestScore || (score == bestScore && len(path) < len(best)) {
			best = path
			bestScore = score
		}
	}
	return best, best != ""
}

func (r *resolver) scoreCandidate(fromPath string, norm string, path string) int {
	score := 0

	if root := topLevelSegment(fromPath); root != "" && root == topLevelSegment(path) {
		score += r.weights.SameRootBonus
	}
	if strings.HasSuffix(path, "/"+norm) || path == norm {
		score += r.weights.SuffixBonus
	}
	if ext := utils.ExtensionOf(norm); ext != "" && ext == utils.ExtensionOf(path) {
		score += r.weights.ExtensionBonus
	}
	if strings.Contains(path, "assets/icons/") {
		score += r.weights.IconsDirBonus
	}
	if strings.Contains(path, "assets/") {
		score += r.weights.AssetsDirBonus
	}
	if strings.HasPrefix(path, "src/") || strings.Contains(path, "/src/") {
		score += r.weights.SourceDirBonus
	}

	return score
}

func (r *resolver) record(fromPath string, raw string, resolved string, autoMapped bool) {
	r.references = append(r.references, models.ResolvedReference{
		FromPath:     fromPath,
		RawReference: raw,
		ResolvedPath: resolved,
		AutoMapped:   autoMapped,
	})
}

// recordMiss logs one unresolved reference per distinct raw value.
func (r *resolver) recordMiss(fromPath string, raw string) {
	if r.unresolvedSeen[raw] {
		return
	}
	r.unresolvedSeen[raw] = true
	r.record(fromPath, raw, "", false)
}

func (r *resolver) resolvedCount() int {
	n := 0
	for _, ref := range r.references {
		if ref.ResolvedPath != "" {
			n++
		}
	}
	return n
}

func (r *resolver) autoMappedCount() int {
	n := 0
	for _, ref := range r.references {
		if ref.AutoMapped {
			n++
		}
	}
	return n
}

// unresolvedRefs returns the raw references that mapped to nothing, in
// first-seen order, bounded for the report.
func (r *resolver) unresolvedRefs() []string {
	var out []string
	for _, ref := range r.references {
		if ref.ResolvedPath != "" {
			continue
		}
		if len(out) == r.maxUnresolved {
			break
		}
		out = append(out, ref.RawReference)
	}
	return out
}

func topLevelSegment(path string) string {
	p := utils.NormalizePath(path)
	if i := strings.Index(p, "/"); i >= 0 {
		return p[:i]
	}
	return ""
}
