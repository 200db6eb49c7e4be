package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/rajeshuchil/contesthub/internal/history"
)

// HistoryHandler exposes the snapshot archive.
type HistoryHandler struct {
	store  history.Store
	logger *slog.Logger
}

// NewHistoryHandler constructs a HistoryHandler.
func NewHistoryHandler(store history.Store, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{store: store, logger: logger}
}

// List returns the snapshot index, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if h.store == nil {
		writeError(w, r, http.StatusServiceUnavailable, "history not configured", logger)
		return
	}

	entries, err := h.store.List()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to read history index", logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(entries),
		"snapshots": entries,
	}, logger)
}

// ByID returns one archived snapshot with its full contest list.
func (h *HistoryHandler) ByID(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if h.store == nil {
		writeError(w, r, http.StatusServiceUnavailable, "history not configured", logger)
		return
	}

	idRaw := strings.TrimPrefix(r.URL.Path, "/history/")
	id, err := url.PathUnescape(idRaw)
	if err != nil || id == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, http.StatusBadRequest, "invalid snapshot id", logger)
		return
	}

	snap, err := h.store.Load(id)
	if err != nil {
		if errors.Is(err, history.ErrSnapshotNotFound) {
			writeError(w, r, http.StatusNotFound, "snapshot not found", logger)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to load snapshot", logger)
		return
	}
	writeJSON(w, http.StatusOK, snap, logger)
}
