package store

import (
	"context"
	"fmt"

	"warehouse-service/internal/fileio"
)

// Source: внешний табличный источник: файл или Google-таблица.
type Source interface {
	Name() string
	Read(ctx context.Context) (fileio.Table, error)
}

// FileSource читает xlsx/xls/csv с диска при каждом вызове.
type FileSource struct {
	Path string
	Opt  fileio.Options
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Read(ctx context.Context) (fileio.Table, error) {
	if err := ctx.Err(); err != nil {
		return fileio.Table{}, err
	}
	return fileio.ReadFile(s.Path, s.Opt)
}

// SheetsSource читает диапазон Google-таблицы.
type SheetsSource struct {
	Reader    *fileio.SheetsReader
	Range     string
	HeaderRow int
}

func (s SheetsSource) Name() string {
	return fmt.Sprintf("sheets:%s!%s", s.Reader.SpreadsheetID(), s.Range)
}

func (s SheetsSource) Read(ctx context.Context) (fileio.Table, error) {
	return s.Reader.ReadRange(ctx, s.Range, s.HeaderRow)
}

// StaticSource отдаёт готовую таблицу (CLI и тесты).
type StaticSource struct {
	Label string
	Table fileio.Table
	Err   error
}

func (s StaticSource) Name() string { return s.Label }

func (s StaticSource) Read(context.Context) (fileio.Table, error) { return s.Table, s.Err }
