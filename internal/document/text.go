package document

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeUTF8 returns content as UTF-8 text. A UTF-8 or UTF-16 byte-order mark
// selects the source encoding and is dropped; without one the bytes are
// taken as UTF-8 and invalid sequences are replaced.
func DecodeUTF8(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), content)
	if err != nil {
		decoded = content
	}
	return strings.ToValidUTF8(string(decoded), "\uFFFD")
}
