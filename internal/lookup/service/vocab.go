package service

import "warehouse-service/internal/lookup/model"

// Словари сравниваются по жёсткому ключу: регистр и раскладка не важны.
var (
	yesTokens = tightSet("yes", "y", "true", "1", "да", "д", "есть")
	noTokens  = tightSet("no", "n", "false", "0", "нет", "н", "отсутствует")

	newTokens = tightSet("new", "новая", "новый", "новое", "нов")
	oldTokens = tightSet("old", "used", "бу", "б/у", "старая", "старый")
)

func tightSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[NormalizeTight(w)] = struct{}{}
	}
	return m
}

// ParseFlag: да/нет по фиксированному словарю, всё прочее считается неизвестным.
func ParseFlag(raw string) model.Flag {
	k := NormalizeTight(raw)
	if k == "" {
		return model.FlagUnknown
	}
	if _, ok := yesTokens[k]; ok {
		return model.FlagYes
	}
	if _, ok := noTokens[k]; ok {
		return model.FlagNo
	}
	return model.FlagUnknown
}

func ParseCategory(raw string) model.Category {
	k := NormalizeTight(raw)
	if _, ok := newTokens[k]; ok {
		return model.CategoryNew
	}
	if _, ok := oldTokens[k]; ok {
		return model.CategoryOld
	}
	return model.CategoryUnknown
}
