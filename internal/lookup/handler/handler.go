package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"warehouse-service/internal/lookup/model"
	"warehouse-service/internal/lookup/service"
	"warehouse-service/internal/lookup/store"
)

const maxLimit = 50

// Deps содержит всё, что нужно обработчикам поиска.
type Deps struct {
	Store   *store.Store
	Matcher *service.Matcher
	Timeout time.Duration // на загрузку + сопоставление
}

type matchView struct {
	Identifier   string       `json:"identifier"`
	Quantity     int          `json:"quantity"`
	Shelf        string       `json:"shelf"`
	Cell         string       `json:"cell"`
	Passport     string       `json:"passport"`
	Category     string       `json:"category"`
	SerialNumber string       `json:"serialNumber"`
	Checked      string       `json:"checked"`
	Method       model.Method `json:"method"`
	Score        *float64     `json:"score,omitempty"`
	Text         string       `json:"text"`
}

type lookupResponse struct {
	Query   string      `json:"query"`
	Found   bool        `json:"found"`
	Matches []matchView `json:"matches"`
	Reply   string      `json:"reply"`
}

// Lookup обслуживает GET /lookup?q=...&limit=N, ответ JSON.
// Пустой результат отдаётся как 200 с found=false, ошибка чтения источника как 503.
func Lookup(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		matches, err := d.find(r, q)
		if err != nil {
			writeLookupError(w, r, err)
			return
		}

		resp := lookupResponse{Query: q, Found: len(matches) > 0, Matches: make([]matchView, 0, len(matches))}
		for _, m := range matches {
			resp.Matches = append(resp.Matches, toView(m))
		}
		if strings.TrimSpace(q) != "" {
			resp.Reply = service.Reply(matches, nil)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// LookupText: GET /lookup/text?q=..., тот же ответ, что получает пользователь бота.
func LookupText(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := d.find(r, r.URL.Query().Get("q"))
		status := http.StatusOK
		if err != nil {
			status = errorStatus(err)
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("lookup failed")
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(service.Reply(matches, err)))
	}
}

// Reload (POST /reload): принудительно перечитать источник.
func Reload(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := d.withTimeout(r.Context())
		defer cancel()

		snap, err := d.Store.Reload(ctx)
		if err != nil {
			writeLookupError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"records":  len(snap.Records),
			"source":   snap.Source,
			"loadedAt": snap.LoadedAt,
		})
	}
}

func (d Deps) find(r *http.Request, q string) ([]model.Match, error) {
	ctx, cancel := d.withTimeout(r.Context())
	defer cancel()

	start := time.Now()
	m := d.Matcher
	if lim := atoi(r.URL.Query().Get("limit"), 0); lim > 0 {
		opt := m.Options()
		opt.Limit = min(lim, maxLimit)
		m = service.NewMatcher(opt)
	}
	matches, err := d.Store.Lookup(ctx, q, m)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(r.Context()).Debug().
		Str("q", q).
		Int("found", len(matches)).
		Dur("elapsed", time.Since(start)).
		Msg("lookup done")
	return matches, nil
}

func (d Deps) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.Timeout)
}

func toView(m model.Match) matchView {
	r := m.Record
	return matchView{
		Identifier:   r.Identifier,
		Quantity:     r.Quantity,
		Shelf:        r.Shelf,
		Cell:         r.Cell,
		Passport:     service.FlagText(r.HasPassport),
		Category:     service.CategoryText(r),
		SerialNumber: r.SerialNumber,
		Checked:      service.FlagText(r.Checked),
		Method:       m.Method,
		Score:        m.Score,
		Text:         service.FormatRecord(r),
	}
}

func errorStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusServiceUnavailable
}

func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("lookup failed")
	body := map[string]any{"error": "read error", "detail": err.Error()}
	var le *store.LoadError
	if errors.As(err, &le) && len(le.Missing) > 0 {
		body["missing"] = le.Missing
	}
	writeJSON(w, errorStatus(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
