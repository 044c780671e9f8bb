package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"tankfill-service/internal/cargo/dataset"
)

// ReloadDataset swaps in a freshly loaded snapshot. In-flight requests keep
// the snapshot they already hold.
func ReloadDataset(logger zerolog.Logger, store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := store.Reload(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "failed",
				"error":  err.Error(),
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "reloaded",
			"records": len(store.Snapshot().Records),
		})
	}
}
