package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPage_NotPublished(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	if rr.Body.String() != "No page published yet" {
		t.Errorf("body = %q, want %q", rr.Body.String(), "No page published yet")
	}
}

func TestPage_ServesPublished(t *testing.T) {
	srv, st := newTestServer(t)

	page := "<html><body>news</body></html>"
	if _, err := st.Write([]byte(page)); err != nil {
		t.Fatalf("store.Write: %v", err)
	}

	for _, path := range []string{"/", "/index.html"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rr.Code)
		}
		if rr.Body.String() != page {
			t.Errorf("GET %s body = %q, want %q", path, rr.Body.String(), page)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Errorf("GET %s Content-Type = %q", path, ct)
		}
		if rr.Header().Get("Last-Modified") == "" {
			t.Errorf("GET %s missing Last-Modified", path)
		}
	}
}

func TestPage_HeadRequest(t *testing.T) {
	srv, st := newTestServer(t)

	if _, err := st.Write([]byte("<html></html>")); err != nil {
		t.Fatalf("store.Write: %v", err)
	}

	req := httptest.NewRequest(http.MethodHead, "/", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("HEAD returned a body of %d bytes", rr.Body.Len())
	}
	if rr.Header().Get("Content-Length") == "" {
		t.Error("HEAD missing Content-Length")
	}
}

func TestPage_UnknownPath(t *testing.T) {
	srv, st := newTestServer(t)

	if _, err := st.Write([]byte("<html></html>")); err != nil {
		t.Fatalf("store.Write: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/secret.txt", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestPage_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}
