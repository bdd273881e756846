package preview_engine

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// scriptPlaceholder replaces classic script content that fails to parse.
// The preview must never execute half-generated code, and must never
// silently drop it either.
const scriptPlaceholder = "/* invalid script neutralized by preview sanitizer */"

// IsValidScript parses source as JavaScript with tree-sitter and reports
// whether the syntax tree is error-free. Parse only, never execute.
func IsValidScript(source string) bool {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree := parser.Parse(nil, []byte(source))
	if tree == nil {
		return false
	}
	root := tree.RootNode()
	return root != nil && !root.HasError()
}

// Import-specifier shapes rewritten when inlining module code. Dynamic
// import() and Worker construction count too: both fetch by URL at runtime.
var importSpecRes = []*regexp.Regexp{
	regexp.MustCompile(`(import\s+[^'"]*?from\s*)(['"])([^'"]+)(['"])`),
	regexp.MustCompile(`(import\s*)(['"])([^'"]+)(['"])`),
	regexp.MustCompile(`(export\s+[^'"]*?from\s*)(['"])([^'"]+)(['"])`),
	regexp.MustCompile(`(import\s*\(\s*)(['"])([^'"]+)(['"])`),
	regexp.MustCompile(`(new\s+Worker\s*\(\s*)(['"])([^'"]+)(['"])`),
}

// rewriteScriptImports replaces every resolvable import/Worker specifier
// with its inlined data URL. Unresolvable and external specifiers are left
// untouched.
func rewriteScriptImports(source string, inline func(ref string) (string, bool)) string {
	for _, re := range importSpecRes {
		source = re.ReplaceAllStringFunc(source, func(match string) string {
			parts := re.FindStringSubmatch(match)
			if parts == nil {
				return match
			}
			spec := parts[3]
			if IsExternalRef(spec) {
				return match
			}
			if dataURL, ok := inline(spec); ok {
				return parts[1] + parts[2] + dataURL + parts[4]
			}
			return match
		})
	}
	return source
}
