// Парсер .xls: ширину таблицы считаем сами, Row.LastCol() врёт на выгрузках из 1С.
package fileio

import (
	"bytes"
	"errors"
	"io"

	xls "github.com/extrame/xls"
)

// старые книги чаще всего в cp1251, но встречаются UTF-8/KOI8-R
var xlsCharsets = []string{"windows-1251", "utf-8", "koi8-r"}

// computeMaxCols: пробегаем разумное число колонок и ищем последнюю непустую.
func computeMaxCols(sheet *xls.WorkSheet, headerRow int) int {
	const probeMax = 256
	maxCols := 0
	widen := func(i int) {
		r := sheet.Row(i)
		if r == nil {
			return
		}
		for j := probeMax - 1; j >= maxCols; j-- {
			if normalizeCell(r.Col(j)) != "" {
				maxCols = j + 1
				return
			}
		}
	}
	// шапка обычно самая широкая строка
	widen(headerRow - 1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		widen(i)
	}
	return max(maxCols, 1)
}

func readXLS(r io.Reader, headerRow int) ([][]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wb *xls.WorkBook
	lastErr := errors.New("xls: failed to open workbook")
	for _, cs := range xlsCharsets {
		w, err := xls.OpenReader(bytes.NewReader(b), cs)
		if err == nil && w != nil {
			wb = w
			break
		}
		if err != nil {
			lastErr = err
		}
	}
	if wb == nil {
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("xls: workbook has no sheets")
	}

	width := computeMaxCols(sheet, headerRow)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		cols := make([]string, width)
		if row := sheet.Row(i); row != nil {
			for j := range cols {
				cols[j] = normalizeCell(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	return rows, nil
}
