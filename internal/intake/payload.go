package intake

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
)

var ErrMalformedPayload = errors.New("malformed payload")

// Payload is the flat view of a submitted body. Values are whatever the
// source format produced: strings for forms, any JSON value for JSON.
type Payload map[string]any

// IsJSON reports whether a declared content type belongs to the JSON family.
func IsJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// Parse turns raw body text into a Payload according to contentType.
// JSON is used when the content type says so, URL-encoded form otherwise.
func Parse(raw, contentType string) (Payload, error) {
	if IsJSON(contentType) {
		return parseJSON(raw)
	}

	return parseForm(raw), nil
}

func parseJSON(raw string) (Payload, error) {
	if strings.TrimSpace(raw) == "" {
		return Payload{}, nil
	}

	var v any

	err := sonic.ConfigStd.UnmarshalFromString(raw, &v)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	obj, ok := v.(map[string]any)

	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedPayload)
	}

	return Payload(obj), nil
}

func parseForm(raw string) Payload {
	// url.ParseQuery keeps every pair it can decode and reports only the
	// first failure; a bad pair must not hide the good ones.
	values, _ := url.ParseQuery(raw)

	p := make(Payload, len(values))

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		// first occurrence wins, like URLSearchParams.get
		p[key] = vals[0]
	}

	return p
}
