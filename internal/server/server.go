package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"pagegate/internal/store"
)

// BuildInfo identifies the running binary in health output and logs.
type BuildInfo struct {
	Version string
	Commit  string
}

type Config struct {
	Addr     string // e.g. ":8080"
	Build    BuildInfo
	Auth     TokenAuth
	Store    *store.PageStore
	Mirror   *Mirror   // optional, nil disables mirroring
	Notifier *Notifier // optional, nil disables publish webhooks
}

type Server struct {
	cfg        Config
	httpServer *http.Server
}

func New(cfg Config) *Server {
	s := &Server{cfg: cfg}

	mux := http.NewServeMux()
	mux.Handle("/upload", s.uploadHandler())
	mux.Handle("/", s.pageHandler())
	mux.HandleFunc("/healthz", s.HandleHealth)
	mux.HandleFunc("/ready", s.HandleReady)
	mux.HandleFunc("/live", s.HandleLive)
	mux.Handle("/metrics", NewPrometheusExporter(cfg.Build.Version).Handler())

	// Wrap middleware: requestID -> logging -> security headers -> mux
	var handler http.Handler = mux
	handler = securityHeadersMiddleware(handler)
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler exposes the fully wrapped handler chain for httptest use.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// respondText writes a fixed plain-text response. The publish endpoint's
// callers compare these bodies byte-for-byte, so no trailing newline.
func respondText(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}
