package contracts

import (
	"github.com/sketchrun/livepreview/preview_engine/models"
)

// IPreviewEngine defines the interface for the preview resolution and
// sanitization pipeline. A run is a pure function of the file snapshot.
type IPreviewEngine interface {
	Render(files []models.ProjectFile) (*models.PreviewResult, error)
}

// ISnapshotPublisher pushes a finished preview to a shareable snapshot
// store. Publishing is fire-and-forget; implementations must not block the
// next scheduled run.
type ISnapshotPublisher interface {
	Publish(result *models.PreviewResult) error
}
