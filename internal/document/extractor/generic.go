package extractor

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/document"
)

// ImageRecognizer reads text from raster images.
type ImageRecognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// GenericExtractor is the best-effort decoder for formats without a
// dedicated capability.
type GenericExtractor struct {
	plain *PlainExtractor
	ocr   ImageRecognizer
	tika  document.TextDecoder
}

// NewGenericExtractor creates a fallback decoder. ocr and tika are optional.
func NewGenericExtractor(ocr ImageRecognizer, tika document.TextDecoder) *GenericExtractor {
	return &GenericExtractor{plain: NewPlainExtractor(), ocr: ocr, tika: tika}
}

// DecodeAny picks a decoder by MIME type, sniffing the content when the
// type is unknown. It returns document.ErrNoDecoder when nothing applies.
func (e *GenericExtractor) DecodeAny(ctx context.Context, content []byte, fileName, mimeType string) (string, error) {
	if document.IsGenericMIME(mimeType) {
		mimeType = document.DetectMIME(content)
	}
	mimeType, _, _ = strings.Cut(strings.ToLower(mimeType), ";")
	mimeType = strings.TrimSpace(mimeType)

	switch {
	case mimeType == "text/html" || mimeType == "application/xhtml+xml":
		return e.plain.ExtractFromHTML(content)
	case isTextual(mimeType):
		return e.plain.DecodeText(ctx, content)
	case strings.HasPrefix(mimeType, "image/") && e.ocr != nil:
		text, err := e.ocr.Recognize(ctx, content)
		if err != nil {
			return "", eris.Wrapf(err, "ocr: %s", fileName)
		}
		return text, nil
	}

	if e.tika != nil {
		return e.tika.DecodeText(ctx, content)
	}

	return "", eris.Wrapf(document.ErrNoDecoder, "%s (%s)", fileName, mimeType)
}

func isTextual(mimeType string) bool {
	switch mimeType {
	case "text/rtf":
		return false
	case "application/xml", "application/json", "application/x-yaml", "application/yaml", "application/javascript":
		return true
	}
	return strings.HasPrefix(mimeType, "text/")
}
