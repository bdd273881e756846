// Package preview_engine turns a flat snapshot of AI-generated project
// files into one self-contained HTML document for a sandboxed iframe, plus
// a resolution report. The pipeline is pure and synchronous: every run
// builds its own index and cache, so concurrent triggers never share state.
package preview_engine

import (
	"fmt"

	"github.com/sketchrun/livepreview/config"
	"github.com/sketchrun/livepreview/preview_engine/contracts"
	"github.com/sketchrun/livepreview/preview_engine/models"
)

// PreviewEngine implements the resolution and sanitization pipeline.
type PreviewEngine struct {
	weights       *config.ResolverWeights
	maxUnresolved int
}

// NewPreviewEngine initializes the engine from configuration. A nil config
// uses the defaults.
func NewPreviewEngine(cfg *config.Config) contracts.IPreviewEngine {
	if cfg == nil {
		cfg = &config.DefaultConfig
	}
	maxUnresolved := cfg.MaxUnresolvedRefs
	if maxUnresolved <= 0 {
		maxUnresolved = config.DefaultConfig.MaxUnresolvedRefs
	}
	return &PreviewEngine{
		weights:       cfg.ResolverWeights,
		maxUnresolved: maxUnresolved,
	}
}

// Render runs the full pipeline over a snapshot. It never panics outward:
// any parse failure surfaces as an error the caller can retry. Identical
// inputs produce byte-identical output.
func (e *PreviewEngine) Render(files []models.ProjectFile) (result *models.PreviewResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("preview pipeline failed: %v", r)
		}
	}()

	index := BuildFileIndex(files)
	res := newResolver(index, e.weights, e.maxUnresolved)
	svg := &svgStats{}
	il := newInliner(index, res, svg)

	metadata := models.PreviewMetadata{
		FileCount:      index.Len(),
		FolderCount:    index.FolderCount(),
		UnresolvedRefs: []string{},
	}

	entry := selectEntryFile(index)
	if entry == "" {
		metadata.Mode = models.ModeFallback
		metadata.Note = "no HTML entry file in snapshot"
		return &models.PreviewResult{
			HTML:     renderFallbackPage(index),
			Metadata: metadata,
		}, nil
	}

	asm := newAssembler(index, res, il, svg)
	htmlOut, err := asm.Assemble(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble entry document %s: %w", entry, err)
	}

	metadata.Mode = models.ModeHTML
	metadata.EntryFile = entry
	metadata.ResolvedRefs = res.resolvedCount()
	metadata.AutoMappedRefs = res.autoMappedCount()
	metadata.SanitizedSvgPaths = svg.paths
	metadata.SanitizedSvgViewBoxes = svg.viewBoxes
	metadata.SanitizedScripts = asm.sanitizedScripts
	metadata.UnresolvedRefs = append(metadata.UnresolvedRefs, res.unresolvedRefs()...)

	return &models.PreviewResult{HTML: htmlOut, Metadata: metadata}, nil
}
