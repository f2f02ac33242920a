package sheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
)

// WorkbookOptions locates the table inside a workbook.
type WorkbookOptions struct {
	Sheet    string
	SkipRows int
	MaxRows  int
}

// ReadWorkbook opens an xlsx payload and extracts one sheet as a table. Cells
// are read raw so dates arrive as Excel serial numbers instead of
// locale-formatted strings.
func ReadWorkbook(name string, data []byte, opts WorkbookOptions) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &appErrors.ParseError{Table: name, Reason: fmt.Sprintf("файл не является книгой Excel: %v", err)}
	}
	defer f.Close() //nolint:errcheck

	if idx, err := f.GetSheetIndex(opts.Sheet); err != nil || idx < 0 {
		return nil, &appErrors.ParseError{Table: name, Field: opts.Sheet, Reason: fmt.Sprintf("лист %q не найден", opts.Sheet)}
	}

	rows, err := f.Rows(opts.Sheet)
	if err != nil {
		return nil, &appErrors.ParseError{Table: name, Field: opts.Sheet, Reason: err.Error()}
	}
	defer rows.Close() //nolint:errcheck

	var (
		headers []string
		records [][]string
		seen    int
	)
	for rows.Next() {
		seen++
		if seen <= opts.SkipRows {
			continue
		}
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &appErrors.ParseError{Table: name, Field: opts.Sheet, Reason: err.Error()}
		}
		if headers == nil {
			if isBlank(cols) {
				continue
			}
			headers = cols
			continue
		}
		if opts.MaxRows > 0 && len(records) >= opts.MaxRows {
			return nil, &appErrors.ParseError{Table: name, Reason: fmt.Sprintf("превышено допустимое число строк (%d)", opts.MaxRows)}
		}
		records = append(records, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, &appErrors.ParseError{Table: name, Field: opts.Sheet, Reason: err.Error()}
	}
	if headers == nil {
		return nil, &appErrors.ParseError{Table: name, Field: opts.Sheet, Reason: "не найдена строка заголовков"}
	}
	return NewTable(name, headers, records), nil
}
