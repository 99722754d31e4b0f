package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Латиница→кириллица: визуальные двойники плюс p/u, чтобы "PU11" == "ПУ11".
// Таблица в нижнем регистре: регистр снимается до подстановки.
var lookalikes = map[rune]rune{
	'a': 'а', 'b': 'в', 'c': 'с', 'e': 'е', 'h': 'н', 'k': 'к', 'm': 'м',
	'n': 'п', 'o': 'о', 'p': 'п', 't': 'т', 'u': 'у', 'x': 'х', 'y': 'у',
}

// всё, кроме цифр, латиницы, кириллицы, дефиса и пробела
var reJunk = regexp.MustCompile(`[^0-9a-z\p{Cyrillic}\- ]+`)

// Normalize строит «мягкий» ключ: разделители слов сохраняются.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	// е + U+0308 → ё, иначе диакритика уйдёт в пробел посреди слова
	s = norm.NFC.String(s)
	s = strings.Map(foldRune, s)
	s = reJunk.ReplaceAllString(s, " ")
	return collapseSpaces(s)
}

// NormalizeTight строит «жёсткий» ключ: без пробелов и дефисов ("ПУ-11" == "пу 11").
func NormalizeTight(raw string) string {
	return tighten(Normalize(raw))
}

func tighten(loose string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(loose)
}

// foldRune: регистр, двойники, ё→е, варианты тире.
func foldRune(r rune) rune {
	r = unicode.ToLower(r)
	if rr, ok := lookalikes[r]; ok {
		return rr
	}
	switch r {
	case 'ё':
		return 'е'
	case '–', '—', '‐', '‑', '‒', '−':
		return '-'
	}
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// Схлопывание пробелов
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
