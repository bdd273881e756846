package preview_engine

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// svgStats counts repairs applied during one sanitation pass.
type svgStats struct {
	paths     int
	viewBoxes int
}

var (
	numberTokenRe = regexp.MustCompile(`-?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
	digitBlobRe   = regexp.MustCompile(`^00\d{4,8}$`)
	pathTokenRe   = regexp.MustCompile(`[MmLlHhVvCcSsQqTtAaZz]|-?(?:\d+\.?\d*|\.\d+)(?:[eE]-?\d+)?`)
)

// truncationMarkers are artifacts of interrupted generation: a stray tag
// opener, its escaped forms, or an ellipsis in the middle of attribute data.
var truncationMarkers = []string{"<", "&lt;", `\u003c`, "…", "..."}

// sanitizeSVGTree repairs every viewBox and path[d] attribute in the
// subtree. Invalid values are repaired in place or removed; the original
// invalid string never survives.
func sanitizeSVGTree(root *html.Node, stats *svgStats) {
	walkElements(root, func(n *html.Node) {
		if hasAttr(n, "viewBox") {
			raw := getAttr(n, "viewBox")
			if !isValidViewBox(raw) {
				repaired, removed := repairViewBox(raw)
				if removed {
					removeAttr(n, "viewBox")
				} else {
					setAttr(n, "viewBox", repaired)
				}
				stats.viewBoxes++
			}
		}

		if strings.EqualFold(n.Data, "path") && hasAttr(n, "d") {
			raw := getAttr(n, "d")
			if !isValidPathData(raw) {
				repaired, removed := repairPathData(raw)
				if removed {
					removeAttr(n, "d")
				} else {
					setAttr(n, "d", repaired)
				}
				stats.paths++
			}
		}
	})
}

// isValidViewBox requires exactly four finite numbers with positive width
// and height.
func isValidViewBox(v string) bool {
	fields := strings.Fields(strings.ReplaceAll(v, ",", " "))
	if len(fields) != 4 {
		return false
	}
	nums := make([]float64, 4)
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil || !isFinite(n) {
			return false
		}
		nums[i] = n
	}
	return nums[2] > 0 && nums[3] > 0
}

// repairViewBox salvages a hallucinated viewBox: truncate at the first
// generation artifact, pull out numeric tokens, split concatenated digit
// blobs, and fall back to the icon-standard box. Returns removed=true only
// when nothing numeric survives at all.
func repairViewBox(raw string) (string, bool) {
	v := raw
	for _, marker := range truncationMarkers {
		if i := strings.Index(v, marker); i >= 0 {
			v = v[:i]
		}
	}
	v = strings.ReplaceAll(v, ",", " ")

	tokens := numberTokenRe.FindAllString(v, -1)
	if len(tokens) == 0 {
		if strings.TrimSpace(v) == "" {
			return "", true
		}
		return "0 0 24 24", false
	}

	if len(tokens) >= 4 {
		candidate := strings.Join(tokens[:4], " ")
		if isValidViewBox(candidate) {
			return candidate, false
		}
	}

	// A zero-prefixed digit blob is two concatenated dimensions, e.g.
	// "00123456" meaning 123 x 456.
	for i, tok := range tokens {
		if !digitBlobRe.MatchString(tok) {
			continue
		}
		rest := tok[2:]
		if len(rest)%2 != 0 {
			continue
		}
		width := rest[:len(rest)/2]
		height := rest[len(rest)/2:]
		x, y := "0", "0"
		if i >= 2 {
			x, y = tokens[i-2], tokens[i-1]
		}
		candidate := strings.Join([]string{x, y, width, height}, " ")
		if isValidViewBox(candidate) {
			return candidate, false
		}
	}

	return "0 0 24 24", false
}

// pathParamCounts maps each SVG path command to its required argument
// count per repetition group.
var pathParamCounts = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2,
	'A': 7, 'Z': 0,
}

const pathAllowedChars = "MmLlHhVvCcSsQqTtAaZz0123456789 .eE-,\t\n\r"

// isValidPathData is the validate-path-data capability: a full grammar
// check of the d attribute, standing in for the browser's construct-and-
// measure probe. It accepts exactly what a conforming renderer would draw.
func isValidPathData(d string) bool {
	if strings.TrimSpace(d) == "" {
		return false
	}
	for _, ch := range d {
		if !strings.ContainsRune(pathAllowedChars, ch) && ch != '+' {
			return false
		}
	}

	tokens := pathTokenRe.FindAllString(strings.ReplaceAll(d, ",", " "), -1)
	if len(tokens) == 0 {
		return false
	}

	first := tokens[0]
	if first != "M" && first != "m" {
		return false
	}

	i := 0
	for i < len(tokens) {
		cmd := tokens[i]
		if !isCommandToken(cmd) {
			return false
		}
		count := pathParamCounts[upperByte(cmd[0])]
		i++

		if count == 0 {
			continue
		}

		groups := 0
	groupLoop:
		for {
			args := make([]float64, 0, count)
			for j := 0; j < count; j++ {
				if i >= len(tokens) {
					return groups > 0 && j == 0
				}
				if isCommandToken(tokens[i]) {
					// A new command may only start on a group boundary.
					if j == 0 && groups > 0 {
						break groupLoop
					}
					return false
				}
				n, err := strconv.ParseFloat(tokens[i], 64)
				if err != nil || !isFinite(n) {
					return false
				}
				args = append(args, n)
				i++
			}
			// Arc flags are booleans.
			if upperByte(cmd[0]) == 'A' && (!isFlag(args[3]) || !isFlag(args[4])) {
				return false
			}
			groups++
			if i >= len(tokens) {
				return true
			}
		}
	}
	return true
}

func isCommandToken(tok string) bool {
	return len(tok) == 1 && isPathCommand(tok[0])
}

// repairPathData salvages an invalid d attribute: strip to the allowed
// character set, then trim trailing tokens until a valid prefix emerges.
// Returns removed=true when no prefix of at least two tokens validates.
func repairPathData(raw string) (string, bool) {
	stripped := strings.Map(func(r rune) rune {
		if r == ',' {
			return ' '
		}
		if strings.ContainsRune("MmLlHhVvCcSsQqTtAaZz0123456789 .eE-", r) {
			return r
		}
		return -1
	}, raw)

	if isValidPathData(stripped) {
		return stripped, false
	}

	tokens := pathTokenRe.FindAllString(stripped, -1)
	for len(tokens) > 2 {
		tokens = tokens[:len(tokens)-1]
		if !containsPathCommand(tokens) {
			break
		}
		candidate := strings.Join(tokens, " ")
		if isValidPathData(candidate) {
			return candidate, false
		}
	}
	return "", true
}

func containsPathCommand(tokens []string) bool {
	for _, t := range tokens {
		if len(t) == 1 && isPathCommand(t[0]) {
			return true
		}
	}
	return false
}

func isPathCommand(b byte) bool {
	_, ok := pathParamCounts[upperByte(b)]
	return ok
}

func upperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}

func isFlag(f float64) bool {
	return f == 0 || f == 1
}

func isFinite(f float64) bool {
	return f == f && f < 1e308 && f > -1e308
}
