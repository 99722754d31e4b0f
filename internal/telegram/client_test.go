package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetUpdates(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/getUpdates", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":5,"message":{"message_id":1,"chat":{"id":42},"text":"пу-11"}}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/", "TOKEN")
	ups, err := c.GetUpdates(context.Background(), 5, 30*time.Second)
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.EqualValues(t, 5, ups[0].UpdateID)
	require.NotNil(t, ups[0].Message)
	assert.EqualValues(t, 42, ups[0].Message.Chat.ID)
	assert.Equal(t, "пу-11", ups[0].Message.Text)

	assert.EqualValues(t, 5, got["offset"])
	assert.EqualValues(t, 30, got["timeout"])
}

func TestClient_SendMessage(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"chat":{"id":42},"text":"ok"}}`))
	}))
	defer ts.Close()

	err := NewClient(ts.URL, "TOKEN").SendMessage(context.Background(), 42, "❌ Не найдено")
	require.NoError(t, err)
	assert.EqualValues(t, 42, got["chat_id"])
	assert.Equal(t, "❌ Не найдено", got["text"])
}

func TestClient_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer ts.Close()

	err := NewClient(ts.URL, "bad").SendMessage(context.Background(), 1, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
	assert.Contains(t, err.Error(), "401")
}
