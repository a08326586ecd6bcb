package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/rotisserie/eris"
)

const documentPart = "word/document.xml"

// DocxExtractor reads Word documents without a commercial licence.
type DocxExtractor struct{}

// NewDocxExtractor creates a new DOCX extractor
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

// DecodeText returns one non-empty paragraph per line in document order.
// Table cell paragraphs appear where their table does.
func (e *DocxExtractor) DecodeText(ctx context.Context, content []byte) (string, error) {
	body, err := documentBody(content)
	if err != nil {
		return "", err
	}
	return paragraphText(ctx, strings.NewReader(body))
}

// documentBody returns the main document part. Packages without a document
// relationships part are read straight from the archive.
func documentBody(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err == nil {
		defer doc.Close()
		return doc.Editable().GetContent(), nil
	}

	zr, zerr := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if zerr != nil {
		return "", eris.Wrap(err, "docx: read document")
	}
	part, perr := zr.Open(documentPart)
	if perr != nil {
		return "", eris.Wrap(err, "docx: read document")
	}
	defer part.Close()

	raw, err := io.ReadAll(part)
	if err != nil {
		return "", eris.Wrap(err, "docx: read document part")
	}
	return string(raw), nil
}

// paragraphText walks WordprocessingML and collects the text runs of each
// paragraph.
func paragraphText(ctx context.Context, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		lines  []string
		para   strings.Builder
		inRun  bool
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", eris.Wrap(err, "docx: parse document")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if err := ctx.Err(); err != nil {
					return "", err
				}
			case "r":
				inRun = true
			case "t":
				inText = inRun
			case "tab":
				if inRun {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inRun {
					para.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				if text := strings.TrimSpace(para.String()); text != "" {
					lines = append(lines, text)
				}
				para.Reset()
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}
