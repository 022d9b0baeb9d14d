package backend

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/geocoder89/formhub/internal/domain/credential"
)

// Noop only logs what it receives. It is used when no store is configured.
type Noop struct {
	log *slog.Logger
}

func NewNoop(log *slog.Logger) *Noop {
	if log == nil {
		log = slog.Default()
	}
	return &Noop{log: log}
}

func (n *Noop) Save(ctx context.Context, c credential.Credential) (Receipt, error) {
	n.log.InfoContext(ctx, "submission_received",
		"email", c.Email(),
		"password_chars", utf8.RuneCountInString(c.Password()),
	)

	return Receipt{Message: "User data received"}, nil
}
