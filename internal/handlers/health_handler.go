package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Ainterview-4/Big-Leap/internal/models"
	"github.com/Ainterview-4/Big-Leap/internal/utils"

	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether a backing dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status string                    `json:"status"` // "ready" | "not_ready"
	Checks map[string]ReadinessCheck `json:"checks"`
}

type HealthHandler struct {
	DB     Pinger
	Logger *zap.Logger
}

func NewHealthHandler(db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{DB: db, Logger: nopIfNil(logger)}
}

// HealthzHandler is the liveness probe.
func (h *HealthHandler) HealthzHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// ReadyzHandler reports whether the service can serve traffic.
func (h *HealthHandler) ReadyzHandler(w http.ResponseWriter, r *http.Request) {
	checks := map[string]ReadinessCheck{"database": h.checkDB(r.Context())}
	allChecksPass := true
	for _, c := range checks {
		if c.Status != "ok" {
			allChecksPass = false
		}
	}

	if allChecksPass {
		utils.JSON(w, http.StatusOK, ReadinessResponse{Status: "ready", Checks: checks})
		return
	}
	utils.JSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready", Checks: checks})
}

// DBHandler answers the frontend's database smoke test.
func (h *HealthHandler) DBHandler(w http.ResponseWriter, r *http.Request) {
	check := h.checkDB(r.Context())
	if check.Status != "ok" {
		writeError(h.Logger, w, r, &models.APIError{
			Code:    models.CodeDatabase,
			Message: "Database connection failed",
			Status:  http.StatusInternalServerError,
		})
		return
	}
	utils.Success(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Database connection successful",
	})
}

func (h *HealthHandler) checkDB(ctx context.Context) ReadinessCheck {
	if h.DB == nil {
		return ReadinessCheck{Status: "failed", Message: "Database not initialized"}
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		h.Logger.Warn("database ping failed", zap.Error(err))
		return ReadinessCheck{Status: "failed", Message: "Database ping failed"}
	}
	return ReadinessCheck{Status: "ok"}
}
