package document

import "context"

// TextDecoder turns a document into linear text.
type TextDecoder interface {
	DecodeText(ctx context.Context, content []byte) (string, error)
}

// SheetDecoder turns a workbook into its sheets, in declaration order.
type SheetDecoder interface {
	DecodeSheets(ctx context.Context, content []byte) ([]Table, error)
}

// RowDecoder turns delimited text into rows.
type RowDecoder interface {
	DecodeRows(ctx context.Context, content []byte) ([][]string, error)
}

// FallbackDecoder is the best-effort decoder for formats without a dedicated
// capability. It returns ErrNoDecoder when nothing can handle the content.
type FallbackDecoder interface {
	DecodeAny(ctx context.Context, content []byte, fileName, mimeType string) (string, error)
}

// Capabilities groups the decoders the Extractor dispatches to. A nil
// decoder makes its formats fail with ErrNoDecoder.
type Capabilities struct {
	PDF      TextDecoder
	Word     TextDecoder
	XLSX     SheetDecoder
	XLS      SheetDecoder
	CSV      RowDecoder
	Fallback FallbackDecoder
}
