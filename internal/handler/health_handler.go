package handler

import (
	"context"
	"net/http"
	"time"
)

type dbPinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db dbPinger
}

func NewHealthHandler(db dbPinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "Welcome to the user management API",
	}, nil)
}

// Health reports process liveness plus the database state. The endpoint
// itself always answers 200; the database field carries the detail.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	database := "no database configured"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Health(ctx); err != nil {
			database = "error: " + err.Error()
		} else {
			database = "connected"
		}
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"database": database,
	}, nil)
}
