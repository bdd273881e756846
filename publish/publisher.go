// Package publish ships finished previews to a shareable snapshot store.
package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sketchrun/livepreview/preview_engine/contracts"
	"github.com/sketchrun/livepreview/preview_engine/models"
)

// FilePublisher writes {preview.html, metadata.json} into a directory.
// Callers invoke Publish fire-and-forget; a failed publish never blocks or
// reorders the next scheduled run.
type FilePublisher struct {
	Dir string
}

// NewFilePublisher creates a publisher rooted at dir.
func NewFilePublisher(dir string) contracts.ISnapshotPublisher {
	return &FilePublisher{Dir: dir}
}

// Publish writes the snapshot pair.
func (p *FilePublisher) Publish(result *models.PreviewResult) error {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create publish directory: %w", err)
	}

	htmlPath := filepath.Join(p.Dir, "preview.html")
	if err := os.WriteFile(htmlPath, []byte(result.HTML), 0644); err != nil {
		return fmt.Errorf("failed to publish preview document: %w", err)
	}

	meta, err := json.MarshalIndent(result.Metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	metaPath := filepath.Join(p.Dir, "metadata.json")
	if err := os.WriteFile(metaPath, meta, 0644); err != nil {
		return fmt.Errorf("failed to publish metadata: %w", err)
	}

	return nil
}
