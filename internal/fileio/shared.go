package fileio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Table: шапка и строки данных после неё. Полностью пустые строки отброшены,
// каждая строка дополнена до ширины шапки.
type Table struct {
	Header []string
	Rows   [][]string
}

// Options: где в книге искать данные.
type Options struct {
	HeaderRow int    // строка заголовков (1-based)
	Sheet     string // имя листа для xlsx; пусто = первый лист
}

// ReadFile открывает файл и читает его через ReadTable.
func ReadFile(path string, opt Options) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	return ReadTable(f, filepath.Base(path), opt)
}

// ReadTable выберет парсер по расширению имени файла.
func ReadTable(r io.Reader, filename string, opt Options) (Table, error) {
	if opt.HeaderRow <= 0 {
		opt.HeaderRow = 1
	}
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(r, opt.Sheet)
	case ".xls":
		rows, err = readXLS(r, opt.HeaderRow)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return Table{}, fmt.Errorf("unsupported file: %s", filename)
	}
	if err != nil {
		return Table{}, err
	}
	return buildTable(rows, opt.HeaderRow)
}

func buildTable(rows [][]string, headerRow int) (Table, error) {
	if headerRow > len(rows) {
		return Table{}, fmt.Errorf("header row %d not found: sheet has %d rows", headerRow, len(rows))
	}
	h := pickHeader(rows, headerRow)
	return Table{Header: h, Rows: dataRows(rows, len(h), headerRow)}, nil
}

// pickHeader берёт строку заголовков и подставляет Column N для пустых.
func pickHeader(rows [][]string, headerRow int) []string {
	h := rows[headerRow-1]
	out := make([]string, len(h))
	for i, v := range h {
		v = normalizeCell(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// dataRows: строки после шапки, выровненные по ширине, без полностью пустых.
func dataRows(rows [][]string, width, headerRow int) [][]string {
	var out [][]string
	for r := headerRow; r < len(rows); r++ {
		rec := make([]string, width)
		empty := true
		for c := 0; c < width && c < len(rows[r]); c++ {
			rec[c] = normalizeCell(rows[r][c])
			if rec[c] != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, rec)
		}
	}
	return out
}

// normalizeCell: обрезка пробелов, включая NBSP/NNBSP по краям.
func normalizeCell(s string) string {
	return strings.Trim(s, " \t\r\n\u00a0\u202f")
}
