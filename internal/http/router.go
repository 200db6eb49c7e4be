package http

import (
	nethttp "net/http"

	"github.com/rajeshuchil/contesthub/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux.
func NewRouter(contest *handlers.Handler, webhook *handlers.WebhookHandler, hist *handlers.HistoryHandler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", contest.Health)
	mux.HandleFunc("/ready", contest.Ready)
	mux.HandleFunc("/contests", contest.Contests)
	mux.HandleFunc("/contests/", contest.ContestByID)
	mux.HandleFunc("/webhooks", webhook.Collection)
	mux.HandleFunc("/webhooks/", webhook.Item)
	mux.HandleFunc("/history", hist.List)
	mux.HandleFunc("/history/", hist.ByID)
	mux.HandleFunc("/admin", admin.Admin)
	return mux
}
