package document

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Request is one file to extract.
type Request struct {
	FileName string
	MIMEHint string
	Content  []byte
}

// Table is a named block of rows. CSV input yields a single unnamed table.
type Table struct {
	Name string     `json:"name,omitempty"`
	Rows [][]string `json:"rows"`
}

// Result is the outcome of extracting one file. Text and Error are
// mutually exclusive.
type Result struct {
	FileName string  `json:"file"`
	Format   Format  `json:"format"`
	MIMEType string  `json:"mime_type,omitempty"`
	Size     int     `json:"size"`
	Text     string  `json:"extracted_text,omitempty"`
	Data     []Table `json:"data,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Failed reports whether the extraction produced an error.
func (r *Result) Failed() bool {
	return r.Error != ""
}

// SheetEncoding selects how spreadsheet rows are serialized into text.
type SheetEncoding string

const (
	SheetEncodingCSV  SheetEncoding = "csv"
	SheetEncodingJSON SheetEncoding = "json"
)

const sheetRule = "-----------------------------"

func pdfBanner(fileName string) string {
	return "📄 FILE: " + fileName + "\n\n"
}

func workbookBanner(fileName string) string {
	return "📊 FILE: " + fileName + "\n"
}

func unsupportedMarker(tag string) string {
	return "⚠️ Unsupported file type: " + tag
}

// renderSheets writes every sheet under a SHEET banner, keeping the sheet order.
func renderSheets(sheets []Table, enc SheetEncoding) (string, error) {
	var sb strings.Builder
	for _, sheet := range sheets {
		body, err := encodeRows(sheet.Rows, enc)
		if err != nil {
			return "", eris.Wrapf(err, "encode sheet %q", sheet.Name)
		}
		sb.WriteString("\n" + sheetRule + "\nSHEET: " + sheet.Name + "\n" + sheetRule + "\n")
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func encodeRows(rows [][]string, enc SheetEncoding) (string, error) {
	if enc == SheetEncodingJSON {
		if rows == nil {
			rows = [][]string{}
		}
		b, err := json.Marshal(rows)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// joinRows renders CSV rows as space-separated fields, one row per line.
func joinRows(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, " ")
	}
	return strings.Join(lines, "\n")
}
