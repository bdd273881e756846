package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/sketchrun/livepreview/constants/lipgloss"
	"github.com/sketchrun/livepreview/preview_engine/models"
)

// RenderResolutionReport prints the styled resolution report for one run.
func RenderResolutionReport(meta models.PreviewMetadata) {
	var b strings.Builder

	if meta.Mode == models.ModeHTML {
		b.WriteString(fmt.Sprintf("Entry: %s\n", meta.EntryFile))
	} else {
		b.WriteString("Mode: fallback (no HTML entry)\n")
	}
	b.WriteString(fmt.Sprintf("Files: %d in %d folders\n", meta.FileCount, meta.FolderCount))
	b.WriteString(fmt.Sprintf("Resolved refs: %d (%d auto-mapped)\n", meta.ResolvedRefs, meta.AutoMappedRefs))
	b.WriteString(fmt.Sprintf("Sanitized: %d svg paths, %d viewBoxes, %d scripts",
		meta.SanitizedSvgPaths, meta.SanitizedSvgViewBoxes, meta.SanitizedScripts))

	fmt.Println(lipgloss.BoxStyle.Render(b.String()))

	if len(meta.UnresolvedRefs) > 0 {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠ %d unresolved reference(s):", len(meta.UnresolvedRefs))))
		for _, ref := range meta.UnresolvedRefs {
			fmt.Println(lipgloss.Gray.Render("  " + ref))
		}
	}
	if meta.Note != "" {
		fmt.Println(lipgloss.Gray.Render(meta.Note))
	}
}

// RenderDocumentExcerpt prints the first lines of the assembled document
// with syntax highlighting.
func RenderDocumentExcerpt(doc string, maxLines int, theme string) {
	lines := strings.Split(doc, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	excerpt := strings.Join(lines, "\n")

	if err := quick.Highlight(os.Stdout, excerpt+"\n", "html", "terminal256", theme); err != nil {
		fmt.Println(excerpt)
	}
	if len(strings.Split(doc, "\n")) > maxLines {
		fmt.Println(lipgloss.Gray.Render("…"))
	}
}
