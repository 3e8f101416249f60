package infra

import (
	"bytes"
	"fmt"
	"io"

	"github.com/kontim1983-hub/leasing-app/internal/apierror"
	"github.com/kontim1983-hub/leasing-app/internal/model"
	"github.com/kontim1983-hub/leasing-app/internal/service"

	"github.com/xuri/excelize/v2"
)

const previousPriceHeader = "Предыдущая стоимость"

// ExcelCodec is the spreadsheet collaborator: it reads uploaded xlsx files
// into raw rows according to a generation's column layout, and serializes
// the record set back into an xlsx document for export. The reconciliation
// core never touches spreadsheet bytes directly.
type ExcelCodec struct{}

func NewExcelCodec() *ExcelCodec { return &ExcelCodec{} }

// Rows reads the first sheet of the workbook and extracts one RawRow per
// data row, addressing cells by the column letters the schema declares.
// Row 1 is the header and is skipped.
func (c *ExcelCodec) Rows(r io.Reader, sch model.Schema) ([]service.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apierror.ErrEmptySheet
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, apierror.ErrEmptySheet
	}

	out := make([]service.RawRow, 0, len(rows)-1)
	for rowNum := 2; rowNum <= len(rows); rowNum++ {
		cells := make(map[string]string, len(sch.Fields))
		for _, field := range sch.Fields {
			cells[field.Name] = cellValue(f, sheetName, field.Column, rowNum)
		}

		var photos []string
		for _, col := range sch.PhotoColumns {
			if link := cellValue(f, sheetName, col, rowNum); link != "" {
				photos = append(photos, link)
			}
		}

		out = append(out, service.RawRow{Line: rowNum, Cells: cells, Photos: photos})
	}
	return out, nil
}

// Write serializes records into an xlsx document: one header row with the
// generation's display headers plus a previous-price column, then one row
// per record in store order.
func (c *ExcelCodec) Write(sch model.Schema, records []model.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	col := 1
	for _, field := range sch.Fields {
		if err := setCell(f, sheetName, col, 1, field.Header); err != nil {
			return nil, err
		}
		col++
		if field.Name == sch.PriceField {
			if err := setCell(f, sheetName, col, 1, previousPriceHeader); err != nil {
				return nil, err
			}
			col++
		}
	}

	for i, rec := range records {
		rowNum := i + 2
		col = 1
		for _, field := range sch.Fields {
			var value string
			switch field.Name {
			case sch.KeyField:
				value = rec.VIN
			case sch.PriceField:
				value = rec.CurrentPrice.String()
			default:
				value = rec.Fields[field.Name]
			}
			if err := setCell(f, sheetName, col, rowNum, value); err != nil {
				return nil, err
			}
			col++
			if field.Name == sch.PriceField {
				prev := ""
				if rec.PreviousPrice != nil {
					prev = rec.PreviousPrice.String()
				}
				if err := setCell(f, sheetName, col, rowNum, prev); err != nil {
					return nil, err
				}
				col++
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cellValue(f *excelize.File, sheetName, colLetter string, rowNum int) string {
	value, err := f.GetCellValue(sheetName, fmt.Sprintf("%s%d", colLetter, rowNum))
	if err != nil {
		return ""
	}
	return value
}

func setCell(f *excelize.File, sheetName string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheetName, cell, value)
}
