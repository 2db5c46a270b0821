package server

import "testing"

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		in           string
		wantEndpoint string
		wantSecure   bool
		wantErr      bool
	}{
		{"minio:9000", "minio:9000", false, false},
		{"http://minio:9000", "minio:9000", false, false},
		{"https://minio:9000", "minio:9000", true, false},
		{"http://minio:9000/", "minio:9000", false, false},
		{"http://minio:9000/foo", "", false, true},
		{"", "", false, true},
	}

	for _, tt := range tests {
		ep, secure, err := parseEndpoint(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for input %q", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.in, err)
		}
		if ep != tt.wantEndpoint || secure != tt.wantSecure {
			t.Fatalf("parseEndpoint(%q) = (%q,%v), want (%q,%v)", tt.in, ep, secure, tt.wantEndpoint, tt.wantSecure)
		}
	}
}

func TestNewMirrorFromEnv_Disabled(t *testing.T) {
	t.Setenv("PGT_S3_ENDPOINT", "")

	m, err := NewMirrorFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil mirror with no endpoint configured")
	}
}

func TestNewMirrorFromEnv_Incomplete(t *testing.T) {
	t.Setenv("PGT_S3_ENDPOINT", "minio:9000")
	t.Setenv("PGT_S3_ACCESS_KEY", "key")
	t.Setenv("PGT_S3_SECRET_KEY", "")
	t.Setenv("PGT_BUCKET", "pages")

	if _, err := NewMirrorFromEnv(); err == nil {
		t.Fatal("expected error for incomplete mirror configuration")
	}
}
