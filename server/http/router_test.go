package serverhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-service/internal/config"
	"warehouse-service/internal/fileio"
	lookupHnd "warehouse-service/internal/lookup/handler"
	"warehouse-service/internal/lookup/model"
	"warehouse-service/internal/lookup/service"
	"warehouse-service/internal/lookup/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	src := store.StaticSource{Label: "test", Table: fileio.Table{
		Header: []string{"Номер", "Количество", "Полка", "Ячейка", "Паспорт", "Категория", "Серийный номер", "Проверка"},
		Rows:   [][]string{{"ПУ-11", "3", "А", "12", "да", "Новая", "", "да"}},
	}}
	st, err := store.New(src, nil, store.ModeStartup, zerolog.Nop())
	require.NoError(t, err)
	deps := lookupHnd.Deps{Store: st, Matcher: service.NewMatcher(model.DefaultOptions())}
	return NewRouter(config.Config{AllowOrigins: []string{"*"}}, zerolog.Nop(), deps)
}

func TestRouter(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lookup?q="+url.QueryEscape("ПУ 11"), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["found"])

	// снимок подтянулся лениво при первом поиске
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["records"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reload", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
