package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rajeshuchil/contesthub/internal/aggregate"
	"github.com/rajeshuchil/contesthub/internal/app/contests"
	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/logging"
	"github.com/rajeshuchil/contesthub/internal/poller"
	"github.com/rajeshuchil/contesthub/internal/timeutil"
)

// MaxPageLimit caps the page size a client can request.
const MaxPageLimit = 100

const defaultPageLimit = 50

// Handler wires the contest routes to the domain service.
type Handler struct {
	svc      *contests.Service
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler.
func NewHandler(svc *contests.Service, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic based on refresh loop health.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// Contests returns the current aggregate, filtered per query parameters.
func (h *Handler) Contests(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)

	query, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}

	list, err := h.svc.Contests(r.Context(), query)
	if err != nil {
		if errors.Is(err, aggregate.ErrAllSourcesFailed) {
			writeError(w, r, http.StatusInternalServerError, "all contest sources failed", logger)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to load contests", logger)
		return
	}

	if logger != nil {
		logger.Info("served contests", slog.Int(logging.FieldCount, len(list)))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(list),
		"contests": list,
	}, logger)
}

// ContestByID returns a single contest from the current aggregate.
func (h *Handler) ContestByID(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)

	idRaw := strings.TrimPrefix(r.URL.Path, "/contests/")
	id, err := url.PathUnescape(idRaw)
	if err != nil || id == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, http.StatusBadRequest, "invalid contest id", logger)
		return
	}

	contest, err := h.svc.ContestByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, contests.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "contest not found", logger)
		case errors.Is(err, aggregate.ErrAllSourcesFailed):
			writeError(w, r, http.StatusInternalServerError, "all contest sources failed", logger)
		default:
			writeError(w, r, http.StatusInternalServerError, "failed to load contests", logger)
		}
		return
	}
	writeJSON(w, http.StatusOK, contest, logger)
}

func parseQuery(values url.Values) (domain.Query, error) {
	q := domain.Query{
		Platform: strings.TrimSpace(values.Get("platform")),
		Search:   strings.TrimSpace(values.Get("q")),
		Limit:    defaultPageLimit,
		Page:     1,
	}

	if status := strings.TrimSpace(values.Get("status")); status != "" {
		switch domain.Status(status) {
		case domain.StatusUpcoming, domain.StatusOngoing, domain.StatusEnded:
			q.Status = domain.Status(status)
		default:
			return domain.Query{}, errors.New("invalid status (expected upcoming, ongoing, or ended)")
		}
	}

	var err error
	if q.From, err = timeutil.ParseFlexible(values.Get("from")); err != nil {
		return domain.Query{}, errors.New("invalid from (expected RFC 3339 or YYYY-MM-DD)")
	}
	if q.To, err = timeutil.ParseFlexible(values.Get("to")); err != nil {
		return domain.Query{}, errors.New("invalid to (expected RFC 3339 or YYYY-MM-DD)")
	}

	if sortBy := strings.TrimSpace(values.Get("sort")); sortBy != "" {
		switch sortBy {
		case domain.SortByStartTime, domain.SortByDuration, domain.SortByPlatform, domain.SortByName:
			q.SortBy = sortBy
		default:
			return domain.Query{}, errors.New("invalid sort (expected startTime, duration, platform, or name)")
		}
	}
	if order := strings.TrimSpace(values.Get("order")); order != "" {
		if order != "asc" && order != "desc" {
			return domain.Query{}, errors.New("invalid order (expected asc or desc)")
		}
		q.Order = order
	}

	if page := values.Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return domain.Query{}, errors.New("invalid page")
		}
		q.Page = n
	}
	if limit := values.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return domain.Query{}, errors.New("invalid limit")
		}
		if n > MaxPageLimit {
			n = MaxPageLimit
		}
		q.Limit = n
	}

	return q, nil
}
