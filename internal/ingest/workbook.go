package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// readXLSX parsea el libro completo y retorna las filas de la primera hoja
// como texto formateado (un teléfono numérico llega como "9876543210").
func readXLSX(r io.Reader) (rows [][]string, err error) {
	defer recoverParse(&err)

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// readXLS parsea un libro BIFF (.xls) y retorna las filas de la primera hoja.
func readXLS(r io.Reader) (rows [][]string, err error) {
	defer recoverParse(&err)

	rs, ok := r.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		rs = bytes.NewReader(b)
	}

	wb, err := xls.OpenReader(rs, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol()+1)
		for c := row.FirstCol(); c <= row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// sheetRow retorna nil para las filas sin registro ROW (filas vacías).
// WorkSheet.Row desreferencia el puntero sin chequear.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// recoverParse convierte un panic del parser de workbooks en error.
// Los parsers de terceros pueden entrar en panic con archivos corruptos.
func recoverParse(err *error) {
	if rec := recover(); rec != nil {
		*err = fmt.Errorf("workbook parser panic: %v", rec)
	}
}
