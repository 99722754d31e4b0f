package model

// Flag: трёхзначный признак (паспорт, проверка): ячейка может быть пустой
// или содержать что-то вне словаря да/нет.
type Flag int8

const (
	FlagUnknown Flag = iota
	FlagNo
	FlagYes
)

// Category это закрытый словарь категорий склада.
type Category string

const (
	CategoryUnknown Category = ""
	CategoryNew     Category = "new"
	CategoryOld     Category = "old"
)

// Record описывает одну позицию склада. Создаётся загрузчиком и дальше не меняется.
type Record struct {
	Identifier   string   `json:"identifier"`   // номер детали
	Quantity     int      `json:"quantity"`     // количество, >= 0
	Shelf        string   `json:"shelf"`        // полка
	Cell         string   `json:"cell"`         // ячейка
	HasPassport  Flag     `json:"hasPassport"`  // паспорт
	Category     Category `json:"category"`     // new | old | ""
	CategoryRaw  string   `json:"categoryRaw"`  // исходный текст категории
	SerialNumber string   `json:"serialNumber"` // серийный номер
	Checked      Flag     `json:"checked"`      // проверка

	// ключи для сопоставления, считаются один раз при загрузке
	NormalizedLoose string `json:"-"`
	NormalizedTight string `json:"-"`
	SerialTight     string `json:"-"`
}

// Method: каким проходом найдена запись.
type Method string

const (
	MethodExact    Method = "exact"
	MethodContains Method = "contains"
	MethodSerial   Method = "serial"
	MethodFuzzy    Method = "fuzzy"
)

type Match struct {
	Record Record   `json:"record"`
	Method Method   `json:"method"`
	Score  *float64 `json:"score,omitempty"` // метрика схожести для fuzzy
}

const (
	DefaultThreshold = 0.45
	DefaultLimit     = 5
)

type Options struct {
	Threshold float64 // порог схожести для fuzzy (0..1), включительно
	Limit     int     // максимум записей в ответе
}

func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, Limit: DefaultLimit}
}

// Records вытаскивает записи из результатов, сохраняя порядок.
func Records(ms []Match) []Record {
	out := make([]Record, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Record)
	}
	return out
}
