package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/formhub/internal/http/handlers"
)

type fakePages struct {
	loadFn func() ([]byte, error)
}

func (f *fakePages) Load() ([]byte, error) {
	return f.loadFn()
}

func TestHomeHandler(t *testing.T) {
	tests := []struct {
		name       string
		loadFn     func() ([]byte, error)
		wantStatus int
		wantBody   string
		wantType   string
	}{
		{
			name:       "page_present",
			loadFn:     func() ([]byte, error) { return []byte("<h1>hi</h1>"), nil },
			wantStatus: http.StatusOK,
			wantBody:   "<h1>hi</h1>",
			wantType:   "text/html; charset=utf-8",
		},
		{
			name:       "page_missing",
			loadFn:     func() ([]byte, error) { return nil, errors.New("open home.html: no such file") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Error loading page",
			wantType:   "text/plain; charset=utf-8",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHomeHandler(&fakePages{loadFn: tt.loadFn}, discardLogger())
			r := setupRouter(http.MethodGet, "/", h.Home)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Fatalf("got body %q, want %q", w.Body.String(), tt.wantBody)
			}
			if got := w.Header().Get("Content-Type"); got != tt.wantType {
				t.Fatalf("got content type %q, want %q", got, tt.wantType)
			}
		})
	}
}
