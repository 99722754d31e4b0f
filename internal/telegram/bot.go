package telegram

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"warehouse-service/internal/lookup/model"
	"warehouse-service/internal/lookup/service"
)

// Bot API ограничивает сообщение 4096 единицами UTF-16; эмодзи занимают две
const maxMessageLen = 4000

// Finder: загрузка + сопоставление (store.Store).
type Finder interface {
	Lookup(ctx context.Context, query string, m *service.Matcher) ([]model.Match, error)
}

type Bot struct {
	api         API
	finder      Finder
	matcher     *service.Matcher
	pollTimeout time.Duration
	timeout     time.Duration
	log         zerolog.Logger
}

func NewBot(api API, finder Finder, m *service.Matcher, pollTimeout, timeout time.Duration, logger zerolog.Logger) *Bot {
	return &Bot{
		api:         api,
		finder:      finder,
		matcher:     m,
		pollTimeout: pollTimeout,
		timeout:     timeout,
		log:         logger.With().Str("component", "telegram").Logger(),
	}
}

// Run крутит long polling до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info().Msg("bot polling started")
	var offset int64
	backoff := time.Second
	for {
		updates, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				b.log.Info().Msg("bot polling stopped")
				return nil
			}
			b.log.Warn().Err(err).Dur("retry_in", backoff).Msg("getUpdates failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, 30*time.Second)
			continue
		}
		backoff = time.Second
		for _, u := range updates {
			offset = u.UpdateID + 1
			b.HandleUpdate(ctx, u)
		}
	}
}

// HandleUpdate отвечает на одно сообщение. Ошибки только логируются:
// один неудачный ответ не должен останавливать опрос.
func (b *Bot) HandleUpdate(ctx context.Context, u Update) {
	if u.Message == nil || strings.TrimSpace(u.Message.Text) == "" {
		return
	}
	chatID := u.Message.Chat.ID
	text := strings.TrimSpace(u.Message.Text)
	log := b.log.With().Int64("chat", chatID).Int64("update", u.UpdateID).Logger()

	var parts []string
	switch {
	case isCommand(text, "/start"), isCommand(text, "/help"):
		parts = []string{service.ReplyGreeting}
	case strings.HasPrefix(text, "/"):
		return
	default:
		parts = b.answer(ctx, text, log)
	}

	for _, p := range parts {
		if err := b.api.SendMessage(ctx, chatID, p); err != nil {
			log.Error().Err(err).Msg("send reply")
			return
		}
	}
}

func (b *Bot) answer(ctx context.Context, query string, log zerolog.Logger) []string {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	matches, err := b.finder.Lookup(ctx, query, b.matcher)
	if err != nil {
		log.Error().Err(err).Str("q", query).Msg("lookup failed")
		return []string{service.Reply(nil, err)}
	}
	log.Info().Str("q", query).Int("found", len(matches)).Msg("lookup")
	if len(matches) == 0 {
		return []string{service.ReplyNotFound}
	}
	if len(matches) == 1 {
		return []string{service.FormatRecord(matches[0].Record)}
	}
	return splitMessages(service.ReplyBlocks(matches), maxMessageLen)
}

func isCommand(text, cmd string) bool {
	f := strings.Fields(text)
	if len(f) == 0 {
		return false
	}
	// "/start@warehouse_bot"
	name, _, _ := strings.Cut(f[0], "@")
	return strings.EqualFold(name, cmd)
}

// splitMessages склеивает блоки через пустую строку, не превышая limit рун.
// Блок длиннее лимита режется по рунам.
func splitMessages(blocks []string, limit int) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, blk := range blocks {
		for _, piece := range chunkRunes(blk, limit) {
			sep := 0
			if cur.Len() > 0 {
				sep = 2
			}
			if utf8.RuneCountInString(cur.String())+sep+utf8.RuneCountInString(piece) > limit {
				flush()
				sep = 0
			}
			if sep > 0 {
				cur.WriteString("\n\n")
			}
			cur.WriteString(piece)
		}
	}
	flush()
	return out
}

func chunkRunes(s string, limit int) []string {
	r := []rune(s)
	if len(r) <= limit {
		return []string{s}
	}
	var out []string
	for len(r) > limit {
		out = append(out, string(r[:limit]))
		r = r[limit:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}
