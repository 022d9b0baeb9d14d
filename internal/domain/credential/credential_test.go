package credential_test

import (
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/formhub/internal/domain/credential"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", email: "a@b.com", password: "123456"},
		{name: "trims_email", email: "  a@b.com \t", password: "abcdef"},
		{name: "blank_email", email: "   ", password: "abcdef", wantErr: credential.ErrEmptyEmail},
		{name: "missing_password", email: "a@b.com", password: "", wantErr: credential.ErrEmptyPassword},
		{name: "short_password", email: "a@b.com", password: "12345", wantErr: credential.ErrShortPassword},
		{name: "multibyte_counts_runes", email: "a@b.com", password: "éééééé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := credential.New(tt.email, tt.password)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr == nil && c.Email() != "a@b.com" {
				t.Fatalf("email not trimmed: %q", c.Email())
			}
		})
	}
}

func TestNewRecordUsesUTC(t *testing.T) {
	c, err := credential.New("a@b.com", "abcdef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loc := time.FixedZone("x", 3600)
	rec := credential.NewRecord(c, time.Date(2026, 1, 2, 3, 4, 5, 0, loc))

	if rec.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", rec.CreatedAt.Location())
	}
	if rec.Email != "a@b.com" || rec.Password != "abcdef" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
