package store

import (
	"context"
	"fmt"
	"strings"

	"warehouse-service/internal/lookup/model"
	"warehouse-service/internal/lookup/service"
	"warehouse-service/internal/utils"
)

// LoadError: источник не читается или в нём нет обязательных колонок.
// Загрузка либо проходит целиком, либо падает с этой ошибкой.
type LoadError struct {
	Source  string
	Missing []string // канонические имена отсутствующих колонок
	Err     error
}

func (e *LoadError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadRecords читает источник и строит записи с готовыми ключами сопоставления.
// Строки без номера пропускаются молча.
func LoadRecords(ctx context.Context, src Source, cols Columns) ([]model.Record, error) {
	if cols == nil {
		cols = DefaultColumns()
	}
	t, err := src.Read(ctx)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Err: err}
	}
	idx, missing := cols.resolve(t.Header)
	if len(missing) > 0 {
		return nil, &LoadError{Source: src.Name(), Missing: missing}
	}

	records := make([]model.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		get := func(field string) string {
			if i := idx[field]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		id := get(FieldIdentifier)
		if id == "" {
			continue
		}
		rec := NewRecord(model.Record{
			Identifier:   id,
			Quantity:     utils.ParseQuantity(get(FieldQuantity)),
			Shelf:        get(FieldShelf),
			Cell:         get(FieldCell),
			HasPassport:  service.ParseFlag(get(FieldPassport)),
			CategoryRaw:  get(FieldCategory),
			SerialNumber: get(FieldSerial),
			Checked:      service.ParseFlag(get(FieldChecked)),
		})
		// номер из одной пунктуации ("—", "***") сопоставить не с чем
		if rec.NormalizedTight == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// NewRecord досчитывает производные поля: категорию и ключи сопоставления.
func NewRecord(r model.Record) model.Record {
	r.Category = service.ParseCategory(r.CategoryRaw)
	r.NormalizedLoose = service.Normalize(r.Identifier)
	r.NormalizedTight = service.NormalizeTight(r.Identifier)
	r.SerialTight = service.NormalizeTight(r.SerialNumber)
	return r
}
