package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Error definitions
var (
	// ErrNoDecoder means no capability can read the content. The Extractor
	// reports it as an unsupported-format marker, not as a failure.
	ErrNoDecoder = eris.New("no decoder for file type")

	// ErrDecodeFailure matches every DecodeError.
	ErrDecodeFailure = eris.New("decode failure")
)

// DecodeError is an error or panic raised by a capability.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecodeFailure }

// Options tune how extracted content is rendered.
type Options struct {
	// FileBanner prefixes PDF and spreadsheet text with a "FILE: <name>" line.
	FileBanner bool

	// SheetEncoding serializes spreadsheet rows as CSV (default) or JSON.
	SheetEncoding SheetEncoding

	// SniffContent consults the MIME hint and the content bytes when the
	// extension does not name a known format.
	SniffContent bool

	// Concurrency bounds ExtractBatch. Values below 1 mean 1.
	Concurrency int
}

// DefaultOptions returns the options used by the HTTP service.
func DefaultOptions() Options {
	return Options{
		SheetEncoding: SheetEncodingCSV,
		SniffContent:  true,
		Concurrency:   4,
	}
}

// Extractor maps a file to its text by dispatching on the format tag.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	caps   Capabilities
	opts   Options
	logger *zap.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(caps Capabilities, opts Options, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SheetEncoding == "" {
		opts.SheetEncoding = SheetEncodingCSV
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Extractor{caps: caps, opts: opts, logger: logger}
}

// WithOptions returns a copy of the extractor sharing its capabilities.
func (e *Extractor) WithOptions(opts Options) *Extractor {
	return NewExtractor(e.caps, opts, e.logger)
}

// Options returns the effective options.
func (e *Extractor) Options() Options {
	return e.opts
}

// Extract never returns an error: failures are reported in Result.Error so a
// bad file cannot abort its batch.
func (e *Extractor) Extract(ctx context.Context, req Request) Result {
	format, mimeType := ResolveFormat(req.FileName, req.MIMEHint, req.Content, e.opts.SniffContent)

	result := Result{
		FileName: req.FileName,
		Format:   format,
		MIMEType: mimeType,
		Size:     len(req.Content),
	}

	text, data, err := e.decode(ctx, format, mimeType, req)
	if err != nil {
		e.logger.Warn("extraction failed",
			zap.String("file", req.FileName),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		result.Error = errorMessage(err)
		return result
	}

	result.Text = strings.TrimSpace(text)
	result.Data = data
	return result
}

// decode runs the capability for format and converts panics into errors.
func (e *Extractor) decode(ctx context.Context, format Format, mimeType string, req Request) (text string, data []Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, data = "", nil
			err = &DecodeError{Format: format, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	switch format {
	case FormatPDF:
		return e.decodePDF(ctx, req)
	case FormatXLSX:
		return e.decodeWorkbook(ctx, format, e.caps.XLSX, req)
	case FormatXLS:
		return e.decodeWorkbook(ctx, format, e.caps.XLS, req)
	case FormatDOCX:
		if e.caps.Word == nil {
			return e.unsupported(format, mimeType)
		}
		text, err := e.caps.Word.DecodeText(ctx, req.Content)
		if err != nil {
			return "", nil, decodeError(format, err)
		}
		return text, nil, nil
	case FormatCSV:
		return e.decodeCSV(ctx, req)
	case FormatTXT, FormatJSON:
		return DecodeUTF8(req.Content), nil, nil
	default:
		return e.decodeFallback(ctx, format, mimeType, req)
	}
}

func (e *Extractor) decodePDF(ctx context.Context, req Request) (string, []Table, error) {
	if e.caps.PDF == nil {
		return e.unsupported(FormatPDF, "")
	}
	text, err := e.caps.PDF.DecodeText(ctx, req.Content)
	if err != nil {
		return "", nil, decodeError(FormatPDF, err)
	}
	if e.opts.FileBanner {
		text = pdfBanner(req.FileName) + text
	}
	return text, nil, nil
}

func (e *Extractor) decodeWorkbook(ctx context.Context, format Format, dec SheetDecoder, req Request) (string, []Table, error) {
	if dec == nil {
		return e.unsupported(format, "")
	}
	sheets, err := dec.DecodeSheets(ctx, req.Content)
	if err != nil {
		return "", nil, decodeError(format, err)
	}
	body, err := renderSheets(sheets, e.opts.SheetEncoding)
	if err != nil {
		return "", nil, decodeError(format, err)
	}
	if e.opts.FileBanner {
		body = workbookBanner(req.FileName) + body
	}
	return body, sheets, nil
}

func (e *Extractor) decodeCSV(ctx context.Context, req Request) (string, []Table, error) {
	if e.caps.CSV == nil {
		return e.unsupported(FormatCSV, "")
	}
	rows, err := e.caps.CSV.DecodeRows(ctx, req.Content)
	if err != nil {
		return "", nil, decodeError(FormatCSV, err)
	}
	return joinRows(rows), []Table{{Rows: rows}}, nil
}

func (e *Extractor) decodeFallback(ctx context.Context, format Format, mimeType string, req Request) (string, []Table, error) {
	if e.caps.Fallback == nil {
		return e.unsupported(format, mimeType)
	}
	text, err := e.caps.Fallback.DecodeAny(ctx, req.Content, req.FileName, mimeType)
	if errors.Is(err, ErrNoDecoder) {
		return e.unsupported(format, mimeType)
	}
	if err != nil {
		return "", nil, decodeError(format, err)
	}
	return text, nil, nil
}

func (e *Extractor) unsupported(format Format, mimeType string) (string, []Table, error) {
	tag := string(format)
	if tag == "" {
		tag = mimeType
	}
	e.logger.Debug("unsupported file type", zap.String("type", tag))
	return unsupportedMarker(tag), nil, nil
}

func decodeError(format Format, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &DecodeError{Format: format, Err: err}
}

// errorMessage reports the decoder's own message to clients.
func errorMessage(err error) string {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Err.Error()
	}
	return err.Error()
}
