package handlers

import (
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/rajeshuchil/contesthub/internal/app/contests"
	"github.com/rajeshuchil/contesthub/internal/http/middleware"
	"github.com/rajeshuchil/contesthub/internal/logging"
)

// AdminHandler exposes token-guarded operational actions.
type AdminHandler struct {
	svc    *contests.Service
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token disables all
// admin actions.
func NewAdminHandler(svc *contests.Service, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, token: token, logger: logger}
}

type adminRequest struct {
	Action string `json:"action"`
}

// Admin executes the requested action. Supported: clear-cache.
func (h *AdminHandler) Admin(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)

	if !h.authorize(r) {
		if logger != nil {
			logger.Warn("admin unauthorized",
				slog.String(logging.FieldPath, r.URL.Path),
				slog.String("client_ip", middleware.ClientIP(r)),
			)
		}
		writeError(w, r, http.StatusUnauthorized, "unauthorized", logger)
		return
	}

	var req adminRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body", logger)
		return
	}

	switch req.Action {
	case "clear-cache":
		h.svc.ClearCache()
		if logger != nil {
			logger.Info("cache cleared by admin")
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "action": req.Action}, logger)
	default:
		writeError(w, r, http.StatusBadRequest, "unknown action", logger)
	}
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.token
}
