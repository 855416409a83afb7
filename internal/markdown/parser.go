// Package markdown renders post and page bodies and reads import frontmatter.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

// Render converts a stored markdown body to HTML. Raw HTML in the source is
// dropped by goldmark's default renderer.
func (p *Parser) Render(source string) (template.HTML, error) {
	var buf bytes.Buffer
	err := p.md.Convert([]byte(source), &buf)
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Document is a markdown file split into its frontmatter and body.
type Document struct {
	Meta map[string]any
	Body string
}

// ParseDocument reads the YAML frontmatter of source and returns it together
// with the markdown that follows it.
func (p *Parser) ParseDocument(source []byte) (*Document, error) {
	context := parser.NewContext()
	var buf bytes.Buffer

	err := p.md.Convert(source, &buf, parser.WithContext(context))
	if err != nil {
		return nil, err
	}

	meta := make(map[string]any)
	data := frontmatter.Get(context)
	if data != nil {
		err = data.Decode(&meta)
		if err != nil {
			return nil, err
		}
	}

	return &Document{Meta: meta, Body: stripFrontmatter(source)}, nil
}

func stripFrontmatter(source []byte) string {
	const fence = "---"
	if !bytes.HasPrefix(source, []byte(fence)) {
		return string(source)
	}
	rest := source[len(fence):]
	end := bytes.Index(rest, []byte("\n"+fence))
	if end < 0 {
		return string(source)
	}
	rest = rest[end+len(fence)+1:]
	return string(bytes.TrimLeft(rest, "\r\n"))
}
