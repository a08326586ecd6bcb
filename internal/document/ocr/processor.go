package ocr

import (
	"context"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Processor handles OCR processing
type Processor struct {
	mutex     sync.Mutex
	languages []string
	logger    *zap.Logger
}

// NewProcessor creates a new OCR processor for the given tesseract languages.
func NewProcessor(languages []string, logger *zap.Logger) *Processor {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{languages: languages, logger: logger}
}

// Recognize extracts text from an encoded image (PNG, JPEG, GIF, TIFF, BMP).
func (p *Processor) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// One tesseract instance at a time.
	p.mutex.Lock()
	defer p.mutex.Unlock()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(p.languages...); err != nil {
		return "", eris.Wrap(err, "ocr: set language")
	}

	if err := client.SetImageFromBytes(image); err != nil {
		return "", eris.Wrap(err, "ocr: load image")
	}

	text, err := client.Text()
	if err != nil {
		return "", eris.Wrap(err, "ocr: recognize")
	}

	p.logger.Debug("ocr complete", zap.Int("bytes", len(image)), zap.Int("chars", len(text)))

	return joinParagraphs(text), nil
}

// joinParagraphs collapses the blank-line runs tesseract emits between blocks.
func joinParagraphs(text string) string {
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
