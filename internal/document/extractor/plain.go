package extractor

import (
	"bytes"
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/document"
)

// PlainExtractor extracts text from plain text and HTML documents
type PlainExtractor struct{}

// NewPlainExtractor creates a new plain text extractor
func NewPlainExtractor() *PlainExtractor {
	return &PlainExtractor{}
}

// DecodeText returns the content as UTF-8 text.
func (e *PlainExtractor) DecodeText(ctx context.Context, content []byte) (string, error) {
	return document.DecodeUTF8(content), nil
}

// ExtractFromHTML returns the visible text of an HTML document, one line per
// text node. Script, style and template content is skipped.
func (e *PlainExtractor) ExtractFromHTML(content []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return "", eris.Wrap(err, "html: parse")
	}

	var lines []string
	e.extractTextFromNode(doc, &lines)

	return strings.Join(lines, "\n"), nil
}

// extractTextFromNode recursively extracts text from HTML nodes
func (e *PlainExtractor) extractTextFromNode(n *html.Node, lines *[]string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		}
	}

	if n.Type == html.TextNode {
		if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
			*lines = append(*lines, text)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.extractTextFromNode(c, lines)
	}
}
