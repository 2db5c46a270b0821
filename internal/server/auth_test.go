package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenAuth_Check(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		header  string
		present bool
		want    bool
	}{
		{
			name:    "exact match",
			secret:  "s3cret",
			header:  "s3cret",
			present: true,
			want:    true,
		},
		{
			name:    "mismatch",
			secret:  "s3cret",
			header:  "wrong",
			present: true,
			want:    false,
		},
		{
			name:    "missing header",
			secret:  "s3cret",
			present: false,
			want:    false,
		},
		{
			name:    "prefix is not enough",
			secret:  "s3cret",
			header:  "s3cre",
			present: true,
			want:    false,
		},
		{
			name:    "case sensitive",
			secret:  "s3cret",
			header:  "S3CRET",
			present: true,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := TokenAuth{Token: tt.secret}
			req := httptest.NewRequest(http.MethodPost, "/upload", nil)
			if tt.present {
				req.Header.Set("X-Upload-Token", tt.header)
			}

			if got := a.check(req); got != tt.want {
				t.Errorf("check() = %v, want %v", got, tt.want)
			}
		})
	}
}
