package utils

import (
	"strings"
)

// mimeTypes maps a lowercased file extension to its MIME type. Anything not
// listed inlines as text/plain.
var mimeTypes = map[string]string{
	"html":  "text/html",
	"htm":   "text/html",
	"css":   "text/css",
	"js":    "text/javascript",
	"mjs":   "text/javascript",
	"cjs":   "text/javascript",
	"jsx":   "text/javascript",
	"ts":    "text/javascript",
	"tsx":   "text/javascript",
	"json":  "application/json",
	"svg":   "image/svg+xml",
	"png":   "image/png",
	"jpg":   "image/jpeg",
	"jpeg":  "image/jpeg",
	"gif":   "image/gif",
	"webp":  "image/webp",
	"ico":   "image/x-icon",
	"bmp":   "image/bmp",
	"avif":  "image/avif",
	"xml":   "application/xml",
	"pdf":   "application/pdf",
	"txt":   "text/plain",
	"md":    "text/plain",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"ttf":   "font/ttf",
	"otf":   "font/otf",
	"eot":   "application/vnd.ms-fontobject",
	"mp3":   "audio/mpeg",
	"wav":   "audio/wav",
	"ogg":   "audio/ogg",
	"mp4":   "video/mp4",
	"webm":  "video/webm",
	"wasm":  "application/wasm",
}

// NormalizePath converts a raw path into the canonical form used as file
// identity: forward slashes, no leading "./", no doubled slashes, no
// leading "/".
func NormalizePath(path string) string {
	p := strings.TrimSpace(path)
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	p = strings.TrimPrefix(p, "/")
	return p
}

// JoinPath resolves rel against base (a directory path, "" for root).
// "." segments are dropped and ".." pops one level; a ".." beyond the root
// is a no-op so a reference can never escape the project.
func JoinPath(base string, rel string) string {
	stack := []string{}
	for _, seg := range strings.Split(NormalizePath(base), "/") {
		if seg != "" {
			stack = append(stack, seg)
		}
	}
	for _, seg := range strings.Split(NormalizePath(rel), "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	return strings.Join(stack, "/")
}

// Dirname returns the directory portion of a normalized path, "" at root.
func Dirname(path string) string {
	p := NormalizePath(path)
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// Basename returns the final segment of a normalized path.
func Basename(path string) string {
	p := NormalizePath(path)
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}

// ExtensionOf returns the lowercased suffix after the last dot of the final
// segment, without the dot. Empty when there is none.
func ExtensionOf(path string) string {
	name := Basename(path)
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// MimeTypeFromPath maps a path to the MIME type used when building data
// URLs. Unknown extensions default to text/plain.
func MimeTypeFromPath(path string) string {
	if mime, ok := mimeTypes[ExtensionOf(path)]; ok {
		return mime
	}
	return "text/plain"
}

// PathDepth counts directory levels below the project root.
func PathDepth(path string) int {
	p := NormalizePath(path)
	if p == "" {
		return 0
	}
	return strings.Count(p, "/")
}
