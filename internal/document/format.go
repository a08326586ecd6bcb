package document

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format is the lowercase tag identifying a file's content format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatDOCX Format = "docx"
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
	FormatJSON Format = "json"
)

// Known reports whether f has a dedicated decoder. Any other tag is routed
// to the generic fallback.
func (f Format) Known() bool {
	switch f {
	case FormatPDF, FormatXLSX, FormatXLS, FormatDOCX, FormatCSV, FormatTXT, FormatJSON:
		return true
	default:
		return false
	}
}

// mimeFormats maps MIME types to the formats with a dedicated decoder.
var mimeFormats = map[string]Format{
	"application/pdf":          FormatPDF,
	"application/x-pdf":        FormatPDF,
	"application/vnd.ms-excel": FormatXLS,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       FormatXLSX,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"text/csv":         FormatCSV,
	"application/csv":  FormatCSV,
	"text/plain":       FormatTXT,
	"application/json": FormatJSON,
	"text/json":        FormatJSON,
}

// ExtensionFormat returns the lowercase extension of fileName without the
// leading dot. It is empty when the name has no extension.
func ExtensionFormat(fileName string) Format {
	ext := filepath.Ext(strings.TrimSpace(fileName))
	return Format(strings.ToLower(strings.TrimPrefix(ext, ".")))
}

// FormatForMIME maps a MIME type (parameters allowed) to a known format.
func FormatForMIME(mimeType string) (Format, bool) {
	f, ok := mimeFormats[baseMIME(mimeType)]
	return f, ok
}

// DetectMIME sniffs the MIME type of content.
func DetectMIME(content []byte) string {
	return mimetype.Detect(content).String()
}

// ResolveFormat derives the format tag and MIME type of a request.
//
// The extension is authoritative when it names a known format. Otherwise,
// with sniff enabled, a specific MIME hint or the sniffed content type is
// consulted; a known match replaces the tag. An unknown extension is kept
// as the tag so the fallback and the unsupported marker can report it.
func ResolveFormat(fileName, mimeHint string, content []byte, sniff bool) (Format, string) {
	format := ExtensionFormat(fileName)
	mimeType := baseMIME(mimeHint)

	if !sniff {
		return format, mimeType
	}

	if IsGenericMIME(mimeType) {
		if len(content) > 0 {
			mimeType = baseMIME(DetectMIME(content))
		}
	}

	if format.Known() {
		return format, mimeType
	}

	if f, ok := FormatForMIME(mimeType); ok {
		// Plain-text sniffing is too weak to override an explicit extension.
		if format == "" || (f != FormatTXT && f != FormatCSV) {
			return f, mimeType
		}
	}

	return format, mimeType
}

// IsGenericMIME reports whether mimeType names a transport envelope rather
// than the content itself. Clients send these by default for raw bodies.
func IsGenericMIME(mimeType string) bool {
	switch base := baseMIME(mimeType); {
	case base == "", base == "application/octet-stream", base == "application/x-www-form-urlencoded":
		return true
	default:
		return strings.HasPrefix(base, "multipart/")
	}
}

func baseMIME(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
