package extractor

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/google/go-tika/tika"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// TikaExtractor sends documents to an Apache Tika server.
type TikaExtractor struct {
	client *tika.Client
	plain  *PlainExtractor
	logger *zap.Logger
}

// NewTikaExtractor creates a Tika-backed extractor for the server at url.
func NewTikaExtractor(url string, timeout time.Duration, logger *zap.Logger) *TikaExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TikaExtractor{
		client: tika.NewClient(&http.Client{Timeout: timeout}, url),
		plain:  NewPlainExtractor(),
		logger: logger,
	}
}

// DecodeText parses content on the Tika server and reduces the returned
// document to its visible text.
func (e *TikaExtractor) DecodeText(ctx context.Context, content []byte) (string, error) {
	start := time.Now()
	body, err := e.client.Parse(ctx, bytes.NewReader(content))
	if err != nil {
		return "", eris.Wrap(err, "tika: parse")
	}
	e.logger.Debug("tika parse complete",
		zap.Int("bytes", len(content)),
		zap.Duration("latency", time.Since(start)),
	)

	return e.plain.ExtractFromHTML([]byte(body))
}
