package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/foodgram-app/foodgram/internal/testkit/immediate"
)

func TestMain(m *testing.M) {
	immediate.Ensure()
	os.Exit(m.Run())
}

func TestTechnologiesPage(t *testing.T) {
	handler := NewHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/technologies", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("content type = %q", got)
	}
	if !strings.Contains(rec.Body.String(), "Технологии") {
		t.Fatalf("missing heading: %s", rec.Body.String())
	}

	// Trailing slash serves the same page.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/technologies/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("trailing slash status = %d", rec.Code)
	}
}

func TestTechnologiesPageMethodNotAllowed(t *testing.T) {
	handler := NewHandler()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/technologies", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestResolveLanguage(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", "ru"},
		{"ru-RU,ru;q=0.9", "ru"},
		{"en-US,en;q=0.9", "en"},
		{"fr-FR", "ru"},
		{"garbage;;;", "ru"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/technologies", nil)
		if tc.header != "" {
			r.Header.Set("Accept-Language", tc.header)
		}
		if got := resolveLanguage(r); got != tc.want {
			t.Fatalf("resolveLanguage(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
	if got := resolveLanguage(nil); got != "ru" {
		t.Fatalf("resolveLanguage(nil) = %q", got)
	}
}
