package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// DelimitedOptions controls parsing of delimited text tables.
type DelimitedOptions struct {
	Comma   rune
	MaxRows int
}

// Decode converts reference file bytes to UTF-8. UTF-8 (with or without BOM)
// and UTF-16 with BOM pass through their decoders; anything else that is not
// valid UTF-8 is treated as Windows-1251, the usual encoding of Russian exports.
func Decode(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], "utf-8-bom", nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return nil, "", fmt.Errorf("decode utf-16: %w", err)
		}
		return out, "utf-16", nil
	case utf8.Valid(data):
		return data, "utf-8", nil
	}
	out, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
	if err != nil {
		return nil, "", fmt.Errorf("decode windows-1251: %w", err)
	}
	return out, "windows-1251", nil
}

// ReadDelimited parses a header-first delimited table. Short rows are padded
// and long rows truncated, matching how spreadsheet exports drift.
func ReadDelimited(name string, data []byte, opts DelimitedOptions) (*Table, error) {
	decoded, _, err := Decode(data)
	if err != nil {
		return nil, &appErrors.ParseError{Table: name, Reason: err.Error()}
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = opts.Comma
	if reader.Comma == 0 {
		reader.Comma = ';'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &appErrors.ParseError{Table: name, Reason: "файл пуст"}
		}
		return nil, &appErrors.ParseError{Table: name, Reason: fmt.Sprintf("не удалось прочитать заголовок: %v", err)}
	}

	var rows [][]string
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &appErrors.ParseError{Table: name, Field: fmt.Sprintf("line %d", line), Reason: err.Error()}
		}
		if opts.MaxRows > 0 && len(rows) >= opts.MaxRows {
			return nil, &appErrors.ParseError{Table: name, Reason: fmt.Sprintf("превышено допустимое число строк (%d)", opts.MaxRows)}
		}
		rows = append(rows, record)
	}
	return NewTable(name, headers, rows), nil
}
