package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/rajeshuchil/contesthub/internal/logging"
	"github.com/rajeshuchil/contesthub/internal/webhooks"
)

const maxWebhookBodyBytes = 64 << 10

// WebhookHandler exposes webhook registration CRUD.
type WebhookHandler struct {
	registry *webhooks.Registry
	logger   *slog.Logger
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(registry *webhooks.Registry, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{registry: registry, logger: logger}
}

// Collection handles /webhooks: GET lists, POST registers.
func (h *WebhookHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

// Item handles /webhooks/{id} and /webhooks/{id}/activate.
func (h *WebhookHandler) Item(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)

	rest := strings.TrimPrefix(r.URL.Path, "/webhooks/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "invalid webhook id", logger)
		return
	}

	switch {
	case action == "activate":
		if !requireMethod(w, r, http.MethodPost, logger) {
			return
		}
		h.activate(w, r, id)
	case action != "":
		writeError(w, r, http.StatusNotFound, "not found", logger)
	case r.Method == http.MethodGet:
		h.get(w, r, id)
	case r.Method == http.MethodDelete:
		h.delete(w, r, id)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", logger)
	}
}

func (h *WebhookHandler) list(w http.ResponseWriter, r *http.Request) {
	hooks := h.registry.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(hooks),
		"webhooks": hooks,
	}, loggerFromContext(r, h.logger))
}

func (h *WebhookHandler) create(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)

	var reg webhooks.Registration
	body := http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	if err := json.NewDecoder(body).Decode(&reg); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body", logger)
		return
	}

	hook, err := h.registry.Create(reg)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(w, r, http.StatusBadRequest, validationMessage(verrs), logger)
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}

	if logger != nil {
		logger.Info("webhook registered",
			slog.String(logging.FieldWebhookID, hook.ID),
			slog.String("url", hook.URL),
		)
	}
	writeJSON(w, http.StatusCreated, hook, logger)
}

func (h *WebhookHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	logger := loggerFromContext(r, h.logger)
	hook, err := h.registry.Get(id)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "webhook not found", logger)
		return
	}
	writeJSON(w, http.StatusOK, hook, logger)
}

func (h *WebhookHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	logger := loggerFromContext(r, h.logger)
	if err := h.registry.Delete(id); err != nil {
		writeError(w, r, http.StatusNotFound, "webhook not found", logger)
		return
	}
	if logger != nil {
		logger.Info("webhook deleted", slog.String(logging.FieldWebhookID, id))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WebhookHandler) activate(w http.ResponseWriter, r *http.Request, id string) {
	logger := loggerFromContext(r, h.logger)
	hook, err := h.registry.Activate(id)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "webhook not found", logger)
		return
	}
	if logger != nil {
		logger.Info("webhook reactivated", slog.String(logging.FieldWebhookID, id))
	}
	writeJSON(w, http.StatusOK, hook, logger)
}

func validationMessage(verrs validator.ValidationErrors) string {
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}
