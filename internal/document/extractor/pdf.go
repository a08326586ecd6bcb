package extractor

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// PDFExtractor extracts text from PDF documents
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// DecodeText returns the plain text of every page, one page per block.
// A PDF without a text layer yields an empty string.
func (e *PDFExtractor) DecodeText(ctx context.Context, content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", eris.Wrap(err, "pdf: open reader")
	}

	numPages := r.NumPage()

	var pages []string
	for i := 1; i <= numPages; i++ {
		// Check for context cancellation
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}

		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}
