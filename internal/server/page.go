package server

import (
	"errors"
	"net/http"
	"os"
	"strconv"
)

// pageHandler serves the currently published page on GET / and on the
// target file's own name. The publish endpoint writes it, readers fetch
// it; nothing else under the web root is exposed.
func (s *Server) pageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			respondText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}

		if r.URL.Path != "/" && r.URL.Path != "/"+s.cfg.Store.Name() {
			http.NotFound(w, r)
			return
		}

		body, modTime, err := s.cfg.Store.Read()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				respondText(w, http.StatusNotFound, "No page published yet")
				return
			}
			Error("page read failed", map[string]any{
				"request_id": RequestIDFromContext(r.Context()),
			}, err)
			respondText(w, http.StatusInternalServerError, "Server Error")
			return
		}

		GetMetrics().RecordPageServed(int64(len(body)))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Last-Modified", modTime.UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
	})
}
