package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/foliokit/folio/internal/respond"
)

type HealthHandler struct {
	db      *sqlx.DB
	storage string
}

func NewHealthHandler(db *sqlx.DB, storage string) *HealthHandler {
	return &HealthHandler{db: db, storage: storage}
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := healthStatus{Status: "ok", Database: "ok", Storage: h.storage}
	code := http.StatusOK

	err := h.db.PingContext(ctx)
	if err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}

	respond.JSON(w, code, status)
}
