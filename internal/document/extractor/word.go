package extractor

import (
	"bytes"
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/document"
)

// SetOfficeLicense registers a metered UniDoc licence key. An empty key
// leaves the library in its unlicensed mode.
func SetOfficeLicense(key string) error {
	if key == "" {
		return nil
	}
	return eris.Wrap(license.SetMeteredKey(key), "docx: set licence key")
}

// WordExtractor extracts text from Word documents
type WordExtractor struct{}

// NewWordExtractor creates a new Word extractor
func NewWordExtractor() *WordExtractor {
	return &WordExtractor{}
}

// DecodeText returns body paragraphs followed by table cell paragraphs,
// one non-empty paragraph per line.
func (e *WordExtractor) DecodeText(ctx context.Context, content []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", eris.Wrap(err, "docx: read document")
	}

	var lines []string
	for _, para := range doc.Paragraphs() {
		// Check for context cancellation
		if err := ctx.Err(); err != nil {
			return "", err
		}
		lines = appendParagraph(lines, para)
	}

	for _, table := range doc.Tables() {
		for _, row := range table.Rows() {
			for _, cell := range row.Cells() {
				for _, para := range cell.Paragraphs() {
					lines = appendParagraph(lines, para)
				}
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}

func appendParagraph(lines []string, para document.Paragraph) []string {
	var paraText strings.Builder

	// Process each run (text block) in the paragraph
	for _, run := range para.Runs() {
		paraText.WriteString(run.Text())
	}

	if text := strings.TrimSpace(paraText.String()); text != "" {
		lines = append(lines, text)
	}
	return lines
}
