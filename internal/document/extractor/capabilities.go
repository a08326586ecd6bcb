package extractor

import (
	"time"

	"go.uber.org/zap"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/document"
)

// Config selects the optional decoders.
type Config struct {
	TikaURL     string
	TikaTimeout time.Duration
	OCR         ImageRecognizer

	// OfficeLicensed switches Word documents to unioffice once a licence
	// key has been registered with SetOfficeLicense.
	OfficeLicensed bool
}

// Compile-time interface assertions
var (
	_ document.TextDecoder     = (*PDFExtractor)(nil)
	_ document.TextDecoder     = (*WordExtractor)(nil)
	_ document.TextDecoder     = (*DocxExtractor)(nil)
	_ document.SheetDecoder    = (*XLSXExtractor)(nil)
	_ document.SheetDecoder    = (*XLSExtractor)(nil)
	_ document.RowDecoder      = (*CSVExtractor)(nil)
	_ document.TextDecoder     = (*TikaExtractor)(nil)
	_ document.FallbackDecoder = (*GenericExtractor)(nil)
)

// NewCapabilities wires the library-backed decoders for every format.
func NewCapabilities(cfg Config, logger *zap.Logger) document.Capabilities {
	var tika document.TextDecoder
	if cfg.TikaURL != "" {
		tika = NewTikaExtractor(cfg.TikaURL, cfg.TikaTimeout, logger)
	}

	var word document.TextDecoder = NewDocxExtractor()
	if cfg.OfficeLicensed {
		word = NewWordExtractor()
	}

	return document.Capabilities{
		PDF:      NewPDFExtractor(),
		Word:     word,
		XLSX:     NewXLSXExtractor(),
		XLS:      NewXLSExtractor(),
		CSV:      NewCSVExtractor(),
		Fallback: NewGenericExtractor(cfg.OCR, tika),
	}
}
