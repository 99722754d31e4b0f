package store

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Канонические имена обязательных полей.
const (
	FieldIdentifier = "identifier"
	FieldQuantity   = "quantity"
	FieldShelf      = "shelf"
	FieldCell       = "cell"
	FieldPassport   = "passport"
	FieldCategory   = "category"
	FieldSerial     = "serial"
	FieldChecked    = "checked"
)

// RequiredFields перечислены в порядке, в котором о них сообщает LoadError.
var RequiredFields = []string{
	FieldIdentifier, FieldQuantity, FieldShelf, FieldCell,
	FieldPassport, FieldCategory, FieldSerial, FieldChecked,
}

// Columns: поле → допустимые заголовки колонки.
type Columns map[string][]string

func DefaultColumns() Columns {
	return Columns{
		FieldIdentifier: {"номер", "номер детали", "артикул", "part number", "part", "number", "identifier"},
		FieldQuantity:   {"количество", "кол-во", "остаток", "qty", "quantity"},
		FieldShelf:      {"полка", "стеллаж", "shelf"},
		FieldCell:       {"ячейка", "место", "location", "cell"},
		FieldPassport:   {"паспорт", "passport"},
		FieldCategory:   {"категория", "category"},
		FieldSerial:     {"серийный номер", "серийный", "s/n", "sn", "serial", "serial number"},
		FieldChecked:    {"проверка", "проверено", "checked", "check"},
	}
}

// LoadColumns читает YAML вида `quantity: [Кол-во, Остаток]` поверх умолчаний.
func LoadColumns(path string) (Columns, error) {
	cols := DefaultColumns()
	if path == "" {
		return cols, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read columns file: %w", err)
	}
	var override map[string][]string
	if err := yaml.Unmarshal(b, &override); err != nil {
		return nil, fmt.Errorf("parse columns file %s: %w", path, err)
	}
	for field, aliases := range override {
		if !isRequired(field) {
			return nil, fmt.Errorf("columns file %s: unknown field %q", path, field)
		}
		if len(aliases) > 0 {
			cols[field] = aliases
		}
	}
	return cols, nil
}

func isRequired(field string) bool {
	for _, f := range RequiredFields {
		if f == field {
			return true
		}
	}
	return false
}

var reHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// нормализуем имя колонки: нижний регистр, ё→е, служебные символы → пробел
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "ё", "е")
	s = reHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolve сопоставляет поля с индексами колонок шапки. Сначала точные
// совпадения по нормализованному имени для всех полей, затем «заголовок содержит
// алиас» среди ещё не занятых колонок ("номер детали (ПУ)" → identifier).
// Возвращает индексы и список ненайденных полей.
func (c Columns) resolve(header []string) (map[string]int, []string) {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = normHeaderKey(h)
	}
	taken := make(map[int]bool, len(header))
	idx := make(map[string]int, len(RequiredFields))

	claim := func(field string, match func(h, alias string) bool) {
		if _, ok := idx[field]; ok {
			return
		}
		for _, alias := range c[field] {
			a := normHeaderKey(alias)
			if a == "" {
				continue
			}
			for i, h := range norm {
				if !taken[i] && match(h, a) {
					idx[field] = i
					taken[i] = true
					return
				}
			}
		}
	}

	for _, f := range RequiredFields {
		claim(f, func(h, a string) bool { return h == a })
	}
	for _, f := range RequiredFields {
		claim(f, func(h, a string) bool { return len([]rune(a)) > 2 && strings.Contains(h, a) })
	}

	var missing []string
	for _, f := range RequiredFields {
		if _, ok := idx[f]; !ok {
			missing = append(missing, f)
		}
	}
	return idx, missing
}
