package utils

import (
	"path/filepath"
	"strings"
)

// defaultIgnorePatterns lists directories and suffixes that never belong in
// a preview snapshot: VCS metadata, editor state, dependency trees, and
// build output. Asset files (images, fonts, media) are deliberately kept —
// they are inlined into the preview document.
var defaultIgnorePatterns = []string{
	"livepreview-config.yml",
	".git",
	".svn",
	".idea",
	".vscode",
	".cache",
	".tmp",
	"node_modules",
	"dist",
	"out",
	"build",
	"coverage",
	"*.lock",
	"*.log",
	"*.map",
	"*.exe",
	"*.dll",
	"*.bak",
}

// IsDefaultIgnored reports whether a relative path should be excluded from
// the project scan based on the built-in ignore patterns.
func IsDefaultIgnored(path string) bool {
	parts := strings.Split(path, string(filepath.Separator))

	for _, part := range parts {
		part = strings.ToLower(part)
		for _, pattern := range defaultIgnorePatterns {
			if strings.HasPrefix(pattern, "*") {
				suffix := strings.TrimPrefix(pattern, "*")
				if strings.HasSuffix(part, suffix) {
					return true
				}
			} else if part == pattern {
				return true
			}
		}
	}
	return false
}
