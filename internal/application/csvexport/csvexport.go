// Package csvexport writes dashboard tables as spreadsheet-friendly CSV.
//
// The format is fixed: a UTF-8 byte order mark, a header row, one line per
// record, "\n" between lines and no trailing newline. A field is quoted only
// when it contains a double quote, a comma or a newline.
package csvexport

import (
	"io"
	"strings"
	"time"
)

// BOM is written first so spreadsheets detect UTF-8.
const BOM = "\uFEFF"

// ContentType is the MIME type served with an export.
const ContentType = "text/csv; charset=utf-8"

// EscapeField quotes s when it contains a double quote, comma or newline,
// doubling any inner quotes.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, "\",\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Write encodes header and rows to w.
// Rows shorter than header are padded with empty fields; extra values are dropped.
// PRE: header is non-empty
// POST: output starts with BOM and has len(rows)+1 lines
func Write(w io.Writer, header []string, rows [][]string) error {
	_, err := io.WriteString(w, encode(header, rows))
	return err
}

// Build returns the encoded CSV as bytes.
func Build(header []string, rows [][]string) []byte {
	return []byte(encode(header, rows))
}

func encode(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(BOM)
	writeLine(&b, header, len(header))
	for _, r := range rows {
		b.WriteByte('\n')
		writeLine(&b, r, len(header))
	}
	return b.String()
}

// Filename returns "{view}_{YYYY-MM-DD}.csv" using the UTC date of now.
func Filename(view string, now time.Time) string {
	return view + "_" + now.UTC().Format("2006-01-02") + ".csv"
}

func writeLine(b *strings.Builder, fields []string, width int) {
	for i := 0; i < width; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		if i < len(fields) {
			b.WriteString(EscapeField(fields[i]))
		}
	}
}
