package docs

import (
	"bytes"
	"html"
	"io"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/sourcegraph/syntaxhighlight"
)

// DefaultLanguages are highlighted without being listed in
// prism.additional_languages.
var DefaultLanguages = []string{
	"c", "cpp", "css", "go", "graphql", "html", "java", "javascript", "js",
	"json", "jsx", "kotlin", "markup", "python", "rust", "swift", "ts", "tsx",
	"typescript", "yaml",
}

// Token classes follow prism so code themes can target them.
var tokenClasses = syntaxhighlight.HTMLConfig{
	String:        "token string",
	Keyword:       "token keyword",
	Comment:       "token comment",
	Type:          "token class-name",
	Literal:       "token constant",
	Punctuation:   "token punctuation",
	Tag:           "token tag",
	HTMLTag:       "token tag",
	HTMLAttrName:  "token attr-name",
	HTMLAttrValue: "token attr-value",
	Decimal:       "token number",
}

// Highlighter colors fenced code blocks written in a known language.
type Highlighter struct {
	languages map[string]bool
}

// NewHighlighter knows DefaultLanguages plus additional.
func NewHighlighter(additional []string) *Highlighter {
	h := &Highlighter{languages: make(map[string]bool, len(DefaultLanguages)+len(additional))}
	for _, lang := range DefaultLanguages {
		h.languages[lang] = true
	}
	for _, lang := range additional {
		h.languages[strings.ToLower(lang)] = true
	}
	return h
}

// Supports reports whether blocks in lang are highlighted.
func (h *Highlighter) Supports(lang string) bool {
	return h != nil && h.languages[strings.ToLower(lang)]
}

// codeLanguage returns the first word of a fence info string.
func codeLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[0], ".")
}

// renderHook replaces the renderer's output for code blocks it can highlight.
func (h *Highlighter) renderHook(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	block, ok := node.(*ast.CodeBlock)
	if !ok {
		return ast.GoToNext, false
	}
	lang := codeLanguage(block.Info)
	if !h.Supports(lang) {
		return ast.GoToNext, false
	}

	var buf bytes.Buffer
	if err := syntaxhighlight.Print(syntaxhighlight.NewScanner(block.Literal), &buf, syntaxhighlight.HTMLPrinter(tokenClasses)); err != nil {
		return ast.GoToNext, false
	}
	class := "language-" + html.EscapeString(lang)
	io.WriteString(w, `<pre class="prism-code `+class+`"><code class="`+class+`">`)
	w.Write(buf.Bytes())
	io.WriteString(w, "</code></pre>\n")
	return ast.GoToNext, true
}
