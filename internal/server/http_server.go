package server

import (
	"context"
	"net/http"
)

// httpServer is the minimal server surface the composition root drives.
// Tests substitute in-memory implementations so shutdown ordering can be
// exercised without binding ports.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Addr() string
	Handler() http.Handler
}

// netHTTPServer adapts *http.Server to the httpServer interface.
type netHTTPServer struct {
	srv *http.Server
}

func (n netHTTPServer) ListenAndServe() error              { return n.srv.ListenAndServe() }
func (n netHTTPServer) Shutdown(ctx context.Context) error { return n.srv.Shutdown(ctx) }
func (n netHTTPServer) Addr() string                       { return n.srv.Addr }
func (n netHTTPServer) Handler() http.Handler              { return n.srv.Handler }
