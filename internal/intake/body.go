package intake

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultMaxBodyBytes is the body ceiling used when none is configured.
const DefaultMaxBodyBytes int64 = 1_000_000

var ErrPayloadTooLarge = errors.New("payload too large")

// Read accumulates body into memory and returns it as UTF-8 text.
// At most limit+1 bytes are pulled from body; anything past limit is
// reported as ErrPayloadTooLarge.
func Read(body io.Reader, limit int64) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	if body == nil {
		return "", nil
	}

	raw, err := io.ReadAll(io.LimitReader(body, limit+1))

	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", ErrPayloadTooLarge
		}

		return "", fmt.Errorf("read body: %w", err)
	}

	if int64(len(raw)) > limit {
		return "", ErrPayloadTooLarge
	}

	return strings.ToValidUTF8(string(raw), "\uFFFD"), nil
}

// ReadBody reads the request body under limit. On overflow the unread rest
// of the body is abandoned and the connection is marked for closing once the
// response has been written.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	var (
		body string
		err  error
	)

	// declared length already over the ceiling: refuse before reading a byte
	if r.ContentLength > limit {
		err = ErrPayloadTooLarge
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		body, err = Read(r.Body, limit)
	}

	if errors.Is(err, ErrPayloadTooLarge) {
		w.Header().Set("Connection", "close")
	}

	return body, err
}
