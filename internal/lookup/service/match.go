package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"warehouse-service/internal/lookup/model"
)

// Matcher: двухпроходный поиск: вхождение по жёсткому ключу, затем fuzzy.
// Состояния между вызовами не хранит.
type Matcher struct {
	opt   model.Options
	score func(a, b string) float64
}

func NewMatcher(opt model.Options) *Matcher {
	if opt.Limit <= 0 {
		opt.Limit = model.DefaultLimit
	}
	if opt.Threshold <= 0 || opt.Threshold > 1 {
		opt.Threshold = model.DefaultThreshold
	}
	return &Matcher{opt: opt, score: similarity}
}

func (m *Matcher) Options() model.Options { return m.opt }

// FindMatches запускает Matcher с порогом по умолчанию и заданным лимитом.
func FindMatches(query string, records []model.Record, limit int) []model.Match {
	opt := model.DefaultOptions()
	opt.Limit = limit
	return NewMatcher(opt).Find(query, records)
}

// Find возвращает не больше Limit записей. Пустой запрос даёт пустой результат.
func (m *Matcher) Find(query string, records []model.Record) []model.Match {
	qLoose := Normalize(query)
	if qLoose == "" {
		return nil
	}
	qTight := tighten(qLoose)

	// (1) вхождение: точные и частичные совпадения
	if hits := m.contains(qTight, records); len(hits) > 0 {
		return truncate(hits, m.opt.Limit)
	}

	// (2) fuzzy только если вхождений нет
	return truncate(m.fuzzy(qLoose, qTight, records), m.opt.Limit)
}

func (m *Matcher) contains(qTight string, records []model.Record) []model.Match {
	if qTight == "" {
		return nil
	}
	var out []model.Match
	for _, r := range records {
		switch {
		case r.NormalizedTight == qTight:
			out = append(out, model.Match{Record: r, Method: model.MethodExact})
		case strings.Contains(r.NormalizedTight, qTight):
			out = append(out, model.Match{Record: r, Method: model.MethodContains})
		case r.SerialTight != "" && strings.Contains(r.SerialTight, qTight):
			out = append(out, model.Match{Record: r, Method: model.MethodSerial})
		}
	}
	// чем короче ключ, тем ближе к запросу; при равенстве порядок загрузки
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i].Record.NormalizedTight) <
			utf8.RuneCountInString(out[j].Record.NormalizedTight)
	})
	return out
}

func (m *Matcher) fuzzy(qLoose, qTight string, records []model.Record) []model.Match {
	var out []model.Match
	for _, r := range records {
		s := max(m.score(qLoose, r.NormalizedLoose), m.score(qTight, r.NormalizedTight))
		if s < m.opt.Threshold {
			continue
		}
		val := s
		out = append(out, model.Match{Record: r, Method: model.MethodFuzzy, Score: &val})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Score > *out[j].Score
	})
	return out
}

func truncate(ms []model.Match, limit int) []model.Match {
	if len(ms) > limit {
		return ms[:limit]
	}
	return ms
}
