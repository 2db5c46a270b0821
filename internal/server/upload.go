package server

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"
)

// uploadHandler handles POST /upload requests from the scheduled uploader.
// Gates run in a fixed order and each failure ends the request: method,
// token, non-empty body, then the store write. Nothing is touched on disk
// before the last gate passes.
//
// Responses are short fixed plain-text messages:
//
//	405 Method Not Allowed
//	403 Forbidden: Invalid token
//	400 Bad Request: Empty content
//	500 Server Error: Failed to write file
//	200 OK: <target> updated (<N> bytes)
func (s *Server) uploadHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			GetMetrics().RecordRejection(RejectMethod)
			respondText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}

		if !s.cfg.Auth.check(r) {
			GetMetrics().RecordRejection(RejectToken)
			respondText(w, http.StatusForbidden, "Forbidden: Invalid token")
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			// An unreadable body and an empty one look the same to the
			// caller; both fall through to the empty-content gate.
			body = nil
		}
		if len(body) == 0 {
			GetMetrics().RecordRejection(RejectEmptyBody)
			respondText(w, http.StatusBadRequest, "Bad Request: Empty content")
			return
		}

		start := time.Now()
		n, err := s.cfg.Store.Write(body)
		if err != nil {
			GetMetrics().RecordPublishError()
			Error("page write failed", map[string]any{
				"request_id": RequestIDFromContext(r.Context()),
				"target":     s.cfg.Store.Path(),
			}, err)
			respondText(w, http.StatusInternalServerError, "Server Error: Failed to write file")
			return
		}
		GetMetrics().RecordPublish(int64(n), time.Since(start))

		sum := sha256.Sum256(body)
		shaHex := hex.EncodeToString(sum[:])

		rid := RequestIDFromContext(r.Context())
		Info("page published", map[string]any{
			"request_id": rid,
			"target":     s.cfg.Store.Path(),
			"bytes":      n,
			"sha256":     shaHex,
		})

		if s.cfg.Mirror != nil {
			s.mirrorAsync(body, rid)
		}
		if s.cfg.Notifier != nil {
			s.cfg.Notifier.Notify(WebhookEventPagePublished, map[string]any{
				"target":     s.cfg.Store.Name(),
				"bytes":      n,
				"sha256":     shaHex,
				"request_id": rid,
			})
		}

		respondText(w, http.StatusOK, fmt.Sprintf("OK: %s updated (%d bytes)", s.cfg.Store.Name(), n))
	})
}
