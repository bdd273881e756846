package preview_engine

import (
	"strings"

	"github.com/sketchrun/livepreview/preview_engine/models"
	"github.com/sketchrun/livepreview/utils"
)

// FileIndex is the per-run view of the project snapshot: normalized-path
// lookup plus a lowercased-basename index for fuzzy resolution. It is built
// fresh for every run and never mutated afterwards.
type FileIndex struct {
	files      map[string]models.ProjectFile
	byBasename map[string][]string
	order      []string
	folders    map[string]bool
}

// BuildFileIndex normalizes every path and indexes the snapshot. Duplicate
// normalized paths resolve last-wins while keeping the first-seen position,
// so entry selection stays order-stable.
func BuildFileIndex(files []models.ProjectFile) *FileIndex {
	idx := &FileIndex{
		files:      make(map[string]models.ProjectFile, len(files)),
		byBasename: make(map[string][]string),
		folders:    make(map[string]bool),
	}

	for _, f := range files {
		path := utils.NormalizePath(f.Path)
		if path == "" {
			continue
		}

		_, seen := idx.files[path]
		idx.files[path] = models.ProjectFile{
			Path:    path,
			Name:    utils.Basename(path),
			Content: f.Content,
		}
		if seen {
			continue
		}

		idx.order = append(idx.order, path)

		base := strings.ToLower(utils.Basename(path))
		idx.byBasename[base] = append(idx.byBasename[base], path)

		for dir := utils.Dirname(path); dir != ""; dir = utils.Dirname(dir) {
			idx.folders[dir] = true
		}
	}

	return idx
}

// Lookup returns the file stored under an already-normalized path.
func (idx *FileIndex) Lookup(path string) (models.ProjectFile, bool) {
	f, ok := idx.files[path]
	return f, ok
}

// Contains reports whether a normalized path exists in the snapshot.
func (idx *FileIndex) Contains(path string) bool {
	_, ok := idx.files[path]
	return ok
}

// Paths returns all normalized paths in first-seen input order.
func (idx *FileIndex) Paths() []string {
	return idx.order
}

// ByBasename returns every path whose basename matches, case-insensitive.
func (idx *FileIndex) ByBasename(name string) []string {
	return idx.byBasename[strings.ToLower(name)]
}

// Len is the number of distinct files in the snapshot.
func (idx *FileIndex) Len() int {
	return len(idx.order)
}

// FolderCount is the number of distinct directories below the root.
func (idx *FileIndex) FolderCount() int {
	return len(idx.folders)
}
