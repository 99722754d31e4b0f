package service

import (
	"fmt"
	"strings"

	"warehouse-service/internal/lookup/model"
)

const (
	placeholder = "—"

	ReplyGreeting  = "Привет 👋\nНапиши номер детали или серийный номер — я проверю склад."
	ReplyNotFound  = "❌ Не найдено"
	replyReadError = "⚠️ Не удалось прочитать склад: "
	replySimilar   = "🔎 Похожие совпадения:"
)

// FlagText: единый словарь да/нет для всех булевых полей.
func FlagText(f model.Flag) string {
	switch f {
	case model.FlagYes:
		return "да"
	case model.FlagNo:
		return "нет"
	default:
		return "не указано"
	}
}

func CategoryText(r model.Record) string {
	switch r.Category {
	case model.CategoryNew:
		return "Новая"
	case model.CategoryOld:
		return "Б/У"
	}
	return orPlaceholder(r.CategoryRaw)
}

// FormatRecord возвращает многострочное описание одной позиции.
func FormatRecord(r model.Record) string {
	var b strings.Builder
	if r.Quantity > 0 {
		fmt.Fprintf(&b, "✅ %s есть в наличии\n", r.Identifier)
	} else {
		fmt.Fprintf(&b, "⚠️ %s нет в наличии\n", r.Identifier)
	}
	fmt.Fprintf(&b, "📦 Полка: %s | Ячейка: %s\n", orPlaceholder(r.Shelf), orPlaceholder(r.Cell))
	fmt.Fprintf(&b, "🔢 Количество: %d\n", r.Quantity)
	fmt.Fprintf(&b, "📄 Паспорт: %s\n", FlagText(r.HasPassport))
	fmt.Fprintf(&b, "🆕 Категория: %s\n", CategoryText(r))
	fmt.Fprintf(&b, "🔑 Серийный номер: %s\n", orPlaceholder(r.SerialNumber))
	fmt.Fprintf(&b, "✔️ Проверка: %s", FlagText(r.Checked))
	return b.String()
}

// Reply собирает ответ пользователю. Ошибка чтения и «не найдено» различаются.
func Reply(matches []model.Match, err error) string {
	if err != nil {
		return replyReadError + err.Error()
	}
	if len(matches) == 0 {
		return ReplyNotFound
	}
	if len(matches) == 1 {
		return FormatRecord(matches[0].Record)
	}
	return strings.Join(ReplyBlocks(matches), "\n\n")
}

// ReplyBlocks: заголовок «похожие» и по блоку на запись.
func ReplyBlocks(matches []model.Match) []string {
	blocks := make([]string, 0, len(matches)+1)
	if len(matches) > 1 {
		blocks = append(blocks, replySimilar)
	}
	for _, m := range matches {
		blocks = append(blocks, FormatRecord(m.Record))
	}
	return blocks
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
