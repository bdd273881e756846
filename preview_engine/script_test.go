package preview_engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidScript(t *testing.T) {
	assert.True(t, IsValidScript("const x = 1;\nconsole.log(x);"))
	assert.True(t, IsValidScript("function greet(name) { return `hi ${name}`; }"))
	assert.True(t, IsValidScript("document.querySelectorAll('.card').forEach(c => c.remove());"))

	assert.False(t, IsValidScript("function broken( {"))
	assert.False(t, IsValidScript("const = ;"))
	assert.False(t, IsValidScript("if (x { console.log(x); }"))
}

func TestRewriteScriptImports(t *testing.T) {
	inline := func(ref string) (string, bool) {
		if ref == "./utils.js" {
			return "data:text/javascript;base64,AAAA", true
		}
		return "", false
	}

	source := "import { helper } from './utils.js';\n" +
		"import 'https://cdn.example.com/lib.js';\n" +
		"export { helper } from './utils.js';\n" +
		"const mod = import('./utils.js');\n" +
		"const w = new Worker('./utils.js');\n" +
		"import stale from './missing.js';\n"

	out := rewriteScriptImports(source, inline)

	assert.Contains(t, out, "from 'data:text/javascript;base64,AAAA'")
	assert.Contains(t, out, "export { helper } from 'data:text/javascript;base64,AAAA'")
	assert.Contains(t, out, "import('data:text/javascript;base64,AAAA')")
	assert.Contains(t, out, "new Worker('data:text/javascript;base64,AAAA')")

	// Externals and unresolvable specifiers stay untouched.
	assert.Contains(t, out, "import 'https://cdn.example.com/lib.js';")
	assert.Contains(t, out, "from './missing.js';")
}
