package discovery

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

// Title returns the text of the first heading of a Markdown page, or of the
// first markdown cell carrying a heading in a notebook. Files without a
// heading yield "".
func Title(file string) (string, error) {
	if strings.EqualFold(filepath.Ext(file), ".ipynb") {
		nb, err := notebook.Load(file)
		if err != nil {
			return "", err
		}
		for _, c := range nb.Cells {
			if c.CellType != notebook.CellMarkdown {
				continue
			}
			if title := FirstHeading([]byte(c.Source.Text())); title != "" {
				return title, nil
			}
		}
		return "", nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return FirstHeading(stripFrontMatter(data)), nil
}

// FirstHeading parses a Markdown body and returns the plain text of its
// first heading.
func FirstHeading(body []byte) string {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			title = strings.TrimSpace(inlineText(h, body))
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

func inlineText(n gmast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *gmast.Text:
			sb.Write(node.Segment.Value(source))
			if node.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(node.Value)
		default:
			sb.WriteString(inlineText(c, source))
		}
	}
	return sb.String()
}

// stripFrontMatter drops a leading YAML front matter block (jupytext/MyST).
func stripFrontMatter(data []byte) []byte {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return data
	}
	rest := data[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return data
	}
	rest = rest[end+len("\n---"):]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		return rest[i+1:]
	}
	return nil
}
