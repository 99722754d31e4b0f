package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-service/internal/fileio"
	"warehouse-service/internal/lookup/model"
	"warehouse-service/internal/lookup/service"
	"warehouse-service/internal/lookup/store"
)

var header = []string{"Номер", "Количество", "Полка", "Ячейка", "Паспорт", "Категория", "Серийный номер", "Проверка"}

func deps(t *testing.T, src store.Source) Deps {
	t.Helper()
	st, err := store.New(src, nil, store.ModePerQuery, zerolog.Nop())
	require.NoError(t, err)
	return Deps{Store: st, Matcher: service.NewMatcher(model.DefaultOptions())}
}

func okSource() store.Source {
	return store.StaticSource{Label: "test", Table: fileio.Table{
		Header: header,
		Rows: [][]string{
			{"ПУ-11", "3", "А", "12", "да", "Новая", "", "да"},
			{"ПУ-25", "0", "Б", "2", "нет", "б/у", "SN-25", "нет"},
		},
	}}
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) lookupResponse {
	t.Helper()
	var resp lookupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLookup_Found(t *testing.T) {
	rec := get(Lookup(deps(t, okSource())), "/lookup?q="+url.QueryEscape("pu11"))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	assert.True(t, resp.Found)
	require.Len(t, resp.Matches, 1)
	m := resp.Matches[0]
	assert.Equal(t, "ПУ-11", m.Identifier)
	assert.Equal(t, 3, m.Quantity)
	assert.Equal(t, "да", m.Passport)
	assert.Equal(t, "Новая", m.Category)
	assert.Equal(t, model.MethodExact, m.Method)
	assert.Contains(t, resp.Reply, "ПУ-11 есть в наличии")
}

func TestLookup_LimitParam(t *testing.T) {
	resp := decode(t, get(Lookup(deps(t, okSource())), "/lookup?limit=1&q="+url.QueryEscape("пу")))
	assert.Len(t, resp.Matches, 1)
}

func TestLookup_NotFoundAndBlank(t *testing.T) {
	d := deps(t, okSource())

	resp := decode(t, get(Lookup(d), "/lookup?q=turbine-xyz-999"))
	assert.False(t, resp.Found)
	assert.Empty(t, resp.Matches)
	assert.Equal(t, service.ReplyNotFound, resp.Reply)

	resp = decode(t, get(Lookup(d), "/lookup?q=+++"))
	assert.False(t, resp.Found)
	assert.Empty(t, resp.Reply)
}

func TestLookup_LoadError(t *testing.T) {
	src := store.StaticSource{Label: "test", Table: fileio.Table{Header: []string{"Номер", "Полка"}}}
	rec := get(Lookup(deps(t, src)), "/lookup?q=1")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "read error", body["error"])
	assert.Contains(t, body["missing"], "quantity")
}

func TestLookupText(t *testing.T) {
	d := deps(t, okSource())

	rec := get(LookupText(d), "/lookup/text?q="+url.QueryEscape("пу"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Похожие совпадения")

	rec = get(LookupText(d), "/lookup/text?q=zzz")
	assert.Equal(t, service.ReplyNotFound, rec.Body.String())

	bad := deps(t, store.StaticSource{Label: "warehouse.xlsx", Err: errors.New("file is locked")})
	rec = get(LookupText(bad), "/lookup/text?q=1")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "file is locked")
}

func TestReload(t *testing.T) {
	rec := httptest.NewRecorder()
	Reload(deps(t, okSource()))(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body["records"])
}
