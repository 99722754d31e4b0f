package handlers

import (
	"encoding/json"
	"net/http"

	"warehouse-service/internal/lookup/store"
)

// Health отдаёт статус и размер текущего снимка (если он уже загружен).
func Health(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok"}
		if snap := st.Loaded(); snap != nil {
			body["records"] = len(snap.Records)
			body["loadedAt"] = snap.LoadedAt
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(body)
	}
}
