package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubText struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubText) DecodeText(ctx context.Context, content []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubSheets struct {
	sheets []Table
	err    error
	calls  int
}

func (s *stubSheets) DecodeSheets(ctx context.Context, content []byte) ([]Table, error) {
	s.calls++
	return s.sheets, s.err
}

type stubRows struct {
	rows  [][]string
	calls int
}

func (s *stubRows) DecodeRows(ctx context.Context, content []byte) ([][]string, error) {
	s.calls++
	return s.rows, nil
}

type stubFallback struct {
	text     string
	err      error
	calls    int
	lastMIME string
}

func (s *stubFallback) DecodeAny(ctx context.Context, content []byte, fileName, mimeType string) (string, error) {
	s.calls++
	s.lastMIME = mimeType
	return s.text, s.err
}

type panicText struct{}

func (panicText) DecodeText(ctx context.Context, content []byte) (string, error) {
	panic("malformed xref table")
}

type stubs struct {
	pdf      *stubText
	word     *stubText
	xlsx     *stubSheets
	xls      *stubSheets
	csv      *stubRows
	fallback *stubFallback
}

func newStubs() *stubs {
	return &stubs{
		pdf:      &stubText{text: "  pdf text \n"},
		word:     &stubText{text: "word text"},
		xlsx:     &stubSheets{sheets: []Table{{Name: "A", Rows: [][]string{{"1", "2"}}}, {Name: "B", Rows: [][]string{{"x"}}}}},
		xls:      &stubSheets{sheets: []Table{{Name: "Legacy", Rows: [][]string{{"old"}}}}},
		csv:      &stubRows{rows: [][]string{{"a", "b"}, {"c", "d"}}},
		fallback: &stubFallback{text: "fallback text"},
	}
}

func (s *stubs) caps() Capabilities {
	return Capabilities{PDF: s.pdf, Word: s.word, XLSX: s.xlsx, XLS: s.xls, CSV: s.csv, Fallback: s.fallback}
}

func newTestExtractor(s *stubs, opts Options) *Extractor {
	return NewExtractor(s.caps(), opts, nil)
}

func TestExtract_RoutesKnownFormats(t *testing.T) {
	tests := []struct {
		fileName string
		calls    func(s *stubs) int
	}{
		{"report.pdf", func(s *stubs) int { return s.pdf.calls }},
		{"book.xlsx", func(s *stubs) int { return s.xlsx.calls }},
		{"legacy.XLS", func(s *stubs) int { return s.xls.calls }},
		{"letter.docx", func(s *stubs) int { return s.word.calls }},
		{"table.csv", func(s *stubs) int { return s.csv.calls }},
		{"notes.txt", func(s *stubs) int { return 0 }},
		{"config.json", func(s *stubs) int { return 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			s := newStubs()
			e := newTestExtractor(s, DefaultOptions())

			result := e.Extract(context.Background(), Request{FileName: tt.fileName, Content: []byte("{}")})

			assert.Empty(t, result.Error)
			assert.Equal(t, 0, s.fallback.calls, "known formats never reach the fallback")
			if !strings.HasSuffix(tt.fileName, ".txt") && !strings.HasSuffix(tt.fileName, ".json") {
				assert.Equal(t, 1, tt.calls(s))
			}
		})
	}
}

func TestExtract_TrimsText(t *testing.T) {
	e := newTestExtractor(newStubs(), DefaultOptions())

	result := e.Extract(context.Background(), Request{FileName: "report.pdf", Content: []byte("%PDF")})

	assert.Equal(t, "pdf text", result.Text)
	assert.Equal(t, FormatPDF, result.Format)
	assert.Equal(t, 4, result.Size)
}

func TestExtract_PDFBanner(t *testing.T) {
	opts := DefaultOptions()
	opts.FileBanner = true
	e := newTestExtractor(newStubs(), opts)

	result := e.Extract(context.Background(), Request{FileName: "report.pdf", Content: []byte("%PDF")})

	assert.Equal(t, "📄 FILE: report.pdf\n\n  pdf text", result.Text)
}

func TestExtract_SpreadsheetSheetsInOrder(t *testing.T) {
	e := newTestExtractor(newStubs(), DefaultOptions())

	result := e.Extract(context.Background(), Request{FileName: "book.xlsx", Content: []byte("PK")})

	require.Empty(t, result.Error)
	a := strings.Index(result.Text, "SHEET: A")
	b := strings.Index(result.Text, "SHEET: B")
	require.GreaterOrEqual(t, a, 0)
	require.Greater(t, b, a)
	assert.Contains(t, result.Text, "1,2")
	require.Len(t, result.Data, 2)
	assert.Equal(t, "A", result.Data[0].Name)
	assert.Equal(t, "B", result.Data[1].Name)
}

func TestExtract_SpreadsheetBannerAndJSON(t *testing.T) {
	opts := DefaultOptions()
	opts.FileBanner = true
	opts.SheetEncoding = SheetEncodingJSON
	e := newTestExtractor(newStubs(), opts)

	result := e.Extract(context.Background(), Request{FileName: "book.xlsx", Content: []byte("PK")})

	want := "📊 FILE: book.xlsx\n" +
		"\n-----------------------------\nSHEET: A\n-----------------------------\n[[\"1\",\"2\"]]\n" +
		"\n-----------------------------\nSHEET: B\n-----------------------------\n[[\"x\"]]"
	assert.Equal(t, want, result.Text)
}

func TestExtract_CSVJoinsRows(t *testing.T) {
	e := newTestExtractor(newStubs(), DefaultOptions())

	for i := 0; i < 3; i++ {
		result := e.Extract(context.Background(), Request{FileName: "table.csv", Content: []byte("a,b\nc,d")})
		assert.Equal(t, "a b\nc d", result.Text)
		require.Len(t, result.Data, 1)
		assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, result.Data[0].Rows)
	}
}

func TestExtract_EmptyTextFile(t *testing.T) {
	e := newTestExtractor(newStubs(), DefaultOptions())

	result := e.Extract(context.Background(), Request{FileName: "empty.txt"})

	assert.Equal(t, "", result.Text)
	assert.Empty(t, result.Error)
	assert.False(t, result.Failed())
}

func TestExtract_TextStripsBOM(t *testing.T) {
	e := newTestExtractor(newStubs(), DefaultOptions())

	result := e.Extract(context.Background(), Request{FileName: "notes.txt", Content: []byte("\xef\xbb\xbfhello")})

	assert.Equal(t, "hello", result.Text)
}

func TestExtract_UnknownExtensionUsesFallback(t *testing.T) {
	s := newStubs()
	e := newTestExtractor(s, DefaultOptions())

	result := e.Extract(context.Background(), Request{FileName: "data.xyz", Content: []byte("raw content")})

	assert.Equal(t, "fallback text", result.Text)
	assert.Equal(t, Format("xyz"), result.Format)
	assert.Equal(t, 1, s.fallback.calls)
	assert.Equal(t, "text/plain", s.fallback.lastMIME)
}

func TestExtract_UnsupportedMarker(t *testing.T) {
	s := newStubs()
	s.fallback.err = ErrNoDecoder
	e := newTestExtractor(s, DefaultOptions())

	result := e.Extract(context.Background(), Request{FileName: "slides.xyz", Content: []byte{0x00, 0x01}})

	assert.Empty(t, result.Error)
	assert.Equal(t, "⚠️ Unsupported file type: xyz", result.Text)
}

func TestExtract_NoFallbackConfigured(t *testing.T) {
	e := NewExtractor(Capabilities{}, DefaultOptions(), nil)

	result := e.Extract(context.Background(), Request{FileName: "README", Content: []byte{0x00, 0x01, 0x02}})

	assert.Empty(t, result.Error)
	assert.True(t, strings.HasPrefix(result.Text, "⚠️ Unsupported file type: "))
}

func TestExtract_DecodeFailureIsReported(t *testing.T) {
	s := newStubs()
	s.pdf.err = errors.New("not a PDF file: invalid header")
	e := newTestExtractor(s, DefaultOptions())

	result := e.Extract(context.Background(), Request{FileName: "broken.pdf", Content: []byte("garbage")})

	assert.True(t, result.Failed())
	assert.Equal(t, "not a PDF file: invalid header", result.Error)
	assert.Empty(t, result.Text)
}

func TestExtract_PanicIsContained(t *testing.T) {
	caps := newStubs().caps()
	caps.PDF = panicText{}
	e := NewExtractor(caps, DefaultOptions(), nil)

	var result Result
	require.NotPanics(t, func() {
		result = e.Extract(context.Background(), Request{FileName: "broken.pdf", Content: []byte("%PDF-1.4")})
	})
	assert.Contains(t, result.Error, "malformed xref table")
	assert.Empty(t, result.Text)
}

func TestExtract_SniffsWhenExtensionMissing(t *testing.T) {
	s := newStubs()
	e := newTestExtractor(s, DefaultOptions())

	result := e.Extract(context.Background(), Request{FileName: "download", Content: []byte("%PDF-1.7\n%âãÏÓ\n")})

	assert.Equal(t, FormatPDF, result.Format)
	assert.Equal(t, 1, s.pdf.calls)
	assert.Equal(t, 0, s.fallback.calls)
}

func TestExtract_ExtensionOnlyWhenSniffingDisabled(t *testing.T) {
	s := newStubs()
	opts := DefaultOptions()
	opts.SniffContent = false
	e := newTestExtractor(s, opts)

	result := e.Extract(context.Background(), Request{FileName: "download", Content: []byte("%PDF-1.7\n")})

	assert.Equal(t, Format(""), result.Format)
	assert.Equal(t, 0, s.pdf.calls)
	assert.Equal(t, 1, s.fallback.calls)
}

func TestExtract_CancelledContext(t *testing.T) {
	s := newStubs()
	e := newTestExtractor(s, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := e.Extract(ctx, Request{FileName: "report.pdf", Content: []byte("%PDF")})

	assert.Equal(t, context.Canceled.Error(), result.Error)
	assert.Equal(t, 0, s.pdf.calls)
}

func TestDecodeError_MatchesSentinel(t *testing.T) {
	err := decodeError(FormatCSV, errors.New("bare quote"))

	assert.ErrorIs(t, err, ErrDecodeFailure)
	assert.Equal(t, "decode csv: bare quote", err.Error())
}
