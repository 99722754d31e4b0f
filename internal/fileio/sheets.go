package fileio

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// SheetsReader читает диапазон Google-таблицы в тот же Table, что и файлы.
type SheetsReader struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

func NewSheetsReader(ctx context.Context, credentialsPath, spreadsheetID string) (*SheetsReader, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id must not be empty")
	}
	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}
	return &SheetsReader{service: service, spreadsheetID: spreadsheetID}, nil
}

func (r *SheetsReader) SpreadsheetID() string { return r.spreadsheetID }

// ReadRange читает значения диапазона в виде Table; headerRow считается от начала диапазона.
func (r *SheetsReader) ReadRange(ctx context.Context, sheetRange string, headerRow int) (Table, error) {
	if sheetRange == "" {
		return Table{}, errors.New("sheet range must not be empty")
	}
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return Table{}, fmt.Errorf("read range %s: %w", sheetRange, err)
	}
	if headerRow <= 0 {
		headerRow = 1
	}
	return buildTable(valuesToRows(resp.Values), headerRow)
}

func valuesToRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, vs := range values {
		row := make([]string, len(vs))
		for j, v := range vs {
			if v != nil {
				row[j] = fmt.Sprint(v)
			}
		}
		rows[i] = row
	}
	return rows
}
