package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sketchrun/livepreview/preview_engine/models"
)

// maxScannedFileSize skips files over 512 KB; generated web projects never
// legitimately carry single source files that large.
const maxScannedFileSize = 512 * 1024

// LoadProjectFiles walks rootDir and returns the preview snapshot: every
// non-ignored file as a ProjectFile with a slash-separated relative path.
func LoadProjectFiles(rootDir string) ([]models.ProjectFile, error) {
	var files []models.ProjectFile

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relativePath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		relativePath = strings.ReplaceAll(relativePath, "\\", "/")

		if IsDefaultIgnored(relativePath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat file: %s, error: %w", relativePath, err)
		}
		if info.Size() > maxScannedFileSize {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %s, error: %w", relativePath, err)
		}

		files = append(files, models.ProjectFile{
			Path:    relativePath,
			Name:    Basename(relativePath),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
