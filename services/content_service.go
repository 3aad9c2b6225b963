package services

import (
	"bytes"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type pageMatter struct {
	Title string `yaml:"title"`
}

// PageTitle returns the title of a markdown page: the front matter title when
// set, otherwise the text of the first heading in the body.
func PageTitle(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var matter pageMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &matter)
	if err != nil {
		body = data
	}
	if t := strings.TrimSpace(matter.Title); t != "" {
		return t
	}
	return firstHeading(body)
}

func firstHeading(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var buf strings.Builder
		for c := h.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(src))
			}
		}
		title = strings.TrimSpace(buf.String())
		return ast.WalkStop, nil
	})
	return title
}
