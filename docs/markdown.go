package docs

import (
	"bytes"
	"html/template"
	"net/url"
	"path"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Rendered is the result of rendering a markdown body.
type Rendered struct {
	HTML     template.HTML
	Headings []Heading
	// Title is the text of the first h1, if the body has one.
	Title string
	// Summary is the plain text of the first paragraph.
	Summary string
}

// LinkRewriter maps a relative markdown link destination to a route. It
// returns false when the destination is not handled.
type LinkRewriter func(dest string) (string, bool)

// Render parses markdown and renders it to HTML, rewriting link destinations
// through rewrite when it is not nil. Code blocks are highlighted by hl when
// it is not nil.
func Render(body []byte, rewrite LinkRewriter, hl *Highlighter) Rendered {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := markdown.Parse(body, p)

	var out Rendered
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.Heading:
			text := plainText(n)
			if n.Level == 1 && out.Title == "" {
				out.Title = text
			}
			out.Headings = append(out.Headings, Heading{Level: n.Level, ID: n.HeadingID, Text: text})
		case *ast.Paragraph:
			if out.Summary == "" {
				out.Summary = strings.TrimSpace(plainText(n))
			}
		case *ast.Link:
			if rewrite != nil {
				if dest, ok := rewrite(string(n.Destination)); ok {
					n.Destination = []byte(dest)
				}
			}
		}
		return ast.GoToNext
	})

	opts := html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank | html.NoopenerLinks | html.NoreferrerLinks}
	if hl != nil {
		opts.RenderNodeHook = hl.renderHook
	}
	renderer := html.NewRenderer(opts)
	out.HTML = template.HTML(markdown.Render(doc, renderer))
	return out
}

func plainText(n ast.Node) string {
	var buf bytes.Buffer
	ast.WalkFunc(n, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch node.(type) {
		case *ast.Text, *ast.Code:
			buf.Write(node.AsLeaf().Literal)
		case *ast.Softbreak, *ast.Hardbreak:
			buf.WriteByte(' ')
		}
		return ast.GoToNext
	})
	return buf.String()
}

// IsMarkdownLink reports whether dest points at a local markdown file and
// returns its path and fragment.
func IsMarkdownLink(dest string) (file, fragment string, ok bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", "", false
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".md", ".mdx":
		return u.Path, u.Fragment, true
	}
	return "", "", false
}

// SiteLink places a site-absolute destination below prefix, which ends with
// "/". Relative, protocol-relative and external destinations are not handled.
func SiteLink(prefix, dest string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
		return "", false
	}
	return prefix + strings.TrimPrefix(dest, "/"), true
}

// stripMDXStatements drops top level import/export lines, which only make
// sense to a JSX runtime.
func stripMDXStatements(body []byte) []byte {
	var out bytes.Buffer
	inFence := false
	for _, line := range bytes.SplitAfter(body, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if bytes.HasPrefix(trimmed, []byte("```")) {
			inFence = !inFence
		}
		if !inFence && (bytes.HasPrefix(line, []byte("import ")) || bytes.HasPrefix(line, []byte("export "))) {
			continue
		}
		out.Write(line)
	}
	return out.Bytes()
}
