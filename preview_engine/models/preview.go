package models

// ProjectFile holds the path and raw content of one generated file.
// Identity is the normalized path; duplicate raw paths resolve last-wins.
type ProjectFile struct {
	Path    string
	Name    string
	Content string
}

// ResolvedReference records the outcome of resolving one raw reference
// found in markup, CSS, or JS. ResolvedPath is empty when the reference
// could not be mapped to any project file.
type ResolvedReference struct {
	FromPath     string
	RawReference string
	ResolvedPath string
	AutoMapped   bool
}

// Preview modes.
const (
	ModeHTML     = "html"
	ModeFallback = "fallback"
)

// PreviewMetadata is the resolution report for one pipeline run.
type PreviewMetadata struct {
	Mode                  string   `json:"mode"`
	EntryFile             string   `json:"entry_file"`
	FileCount             int      `json:"file_count"`
	FolderCount           int      `json:"folder_count"`
	ResolvedRefs          int      `json:"resolved_refs"`
	AutoMappedRefs        int      `json:"auto_mapped_refs"`
	SanitizedSvgPaths     int      `json:"sanitized_svg_paths"`
	SanitizedSvgViewBoxes int      `json:"sanitized_svg_viewboxes"`
	SanitizedScripts      int      `json:"sanitized_scripts"`
	UnresolvedRefs        []string `json:"unresolved_refs"`
	Note                  string   `json:"note,omitempty"`
}

// PreviewResult is the immutable output of one run: a self-contained HTML
// document plus its resolution report. It is produced wholesale and never
// patched incrementally.
type PreviewResult struct {
	HTML     string
	Metadata PreviewMetadata
}
