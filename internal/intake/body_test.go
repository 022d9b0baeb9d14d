package intake_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/formhub/internal/intake"
)

type countingReader struct {
	r    io.Reader
	read int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += n
	return n, err
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestRead(t *testing.T) {
	const limit = 16

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{name: "empty", body: "", want: ""},
		{name: "under_limit", body: "email=a@b.com", want: "email=a@b.com"},
		{name: "exactly_limit", body: strings.Repeat("x", limit), want: strings.Repeat("x", limit)},
		{name: "one_over_limit", body: strings.Repeat("x", limit+1), wantErr: intake.ErrPayloadTooLarge},
		{name: "far_over_limit", body: strings.Repeat("x", limit*100), wantErr: intake.ErrPayloadTooLarge},
		{name: "utf8", body: "héllo wörld", want: "héllo wörld"},
		{name: "invalid_utf8_replaced", body: "a\xffb", want: "a\uFFFDb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intake.Read(strings.NewReader(tt.body), limit)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err %v, want %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadStopsAfterCeiling(t *testing.T) {
	cr := &countingReader{r: strings.NewReader(strings.Repeat("x", 10_000))}

	_, err := intake.Read(cr, 100)

	if !errors.Is(err, intake.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}

	if cr.read > 101 {
		t.Fatalf("reader consumed %d bytes past the ceiling", cr.read)
	}
}

func TestReadPropagatesStreamErrors(t *testing.T) {
	_, err := intake.Read(failingReader{}, 100)

	if err == nil || errors.Is(err, intake.ErrPayloadTooLarge) {
		t.Fatalf("expected stream error, got %v", err)
	}
}

func TestReadBody(t *testing.T) {
	t.Run("within_limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("abc"))

		got, err := intake.ReadBody(w, r, 10)

		if err != nil || got != "abc" {
			t.Fatalf("got %q, %v", got, err)
		}
		if w.Header().Get("Connection") != "" {
			t.Fatalf("connection should stay open")
		}
	})

	t.Run("overflow_closes_connection", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(strings.Repeat("x", 11)))
		r.ContentLength = -1

		_, err := intake.ReadBody(w, r, 10)

		if !errors.Is(err, intake.ErrPayloadTooLarge) {
			t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
		}
		if w.Header().Get("Connection") != "close" {
			t.Fatalf("expected Connection: close, got %q", w.Header().Get("Connection"))
		}
	})

	t.Run("declared_length_over_limit", func(t *testing.T) {
		cr := &countingReader{r: strings.NewReader(strings.Repeat("x", 50))}
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/submit", cr)
		r.ContentLength = 50

		_, err := intake.ReadBody(w, r, 10)

		if !errors.Is(err, intake.ErrPayloadTooLarge) {
			t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
		}
		if cr.read != 0 {
			t.Fatalf("body should not be read, read %d bytes", cr.read)
		}
	})
}
