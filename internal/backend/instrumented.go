package backend

import (
	"context"

	"github.com/geocoder89/formhub/internal/domain/credential"
	"github.com/geocoder89/formhub/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Instrumented records latency, error codes and a span around every save.
type Instrumented struct {
	next   Backend
	name   string
	prom   *observability.Prom
	tracer trace.Tracer
}

func NewInstrumented(next Backend, name string, prom *observability.Prom) *Instrumented {
	return &Instrumented{
		next:   next,
		name:   name,
		prom:   prom,
		tracer: otel.Tracer("github.com/geocoder89/formhub/internal/backend"),
	}
}

func (b *Instrumented) Save(ctx context.Context, c credential.Credential) (Receipt, error) {
	ctx, span := b.tracer.Start(ctx, "backend.save", trace.WithAttributes(
		attribute.String("backend", b.name),
	))
	defer span.End()

	var receipt Receipt

	err := b.prom.ObserveSave(b.name, func() error {
		var err error
		receipt, err = b.next.Save(ctx, c)
		return err
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Receipt{}, err
	}

	return receipt, nil
}
