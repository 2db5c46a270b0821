// auth.go - Shared-token authentication for the publish endpoint.
//
// The scheduled uploader presents one static secret in X-Upload-Token;
// there are no users, sessions, or cookies.
package server

import (
	"crypto/hmac"
	"net/http"
)

// uploadTokenHeader carries the shared secret on publish requests.
const uploadTokenHeader = "X-Upload-Token"

// TokenAuth validates the shared upload token. The secret is injected at
// construction time so tests can supply their own.
type TokenAuth struct {
	Token string
}

// check compares the request's token header against the configured secret.
// A missing header counts as an empty string. hmac.Equal keeps the
// comparison constant-time for equal-length inputs.
func (a TokenAuth) check(r *http.Request) bool {
	got := r.Header.Get(uploadTokenHeader)
	return hmac.Equal([]byte(got), []byte(a.Token))
}
