package postgresql

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/taskboard/taskboard-api/internal"
	"github.com/taskboard/taskboard-api/internal/postgresql/db"
)

const otelName = "github.com/taskboard/taskboard-api/internal/postgresql"

func convertStatus(s db.Status) (internal.Status, error) {
	switch s {
	case db.StatusTodo:
		return internal.StatusTodo, nil
	case db.StatusOngoing:
		return internal.StatusOngoing, nil
	case db.StatusComplete:
		return internal.StatusComplete, nil
	}

	return internal.Status(""), fmt.Errorf("unknown value: %s", s)
}

func newStatus(s internal.Status) db.Status {
	switch s {
	case internal.StatusTodo:
		return db.StatusTodo
	case internal.StatusOngoing:
		return db.StatusOngoing
	case internal.StatusComplete:
		return db.StatusComplete
	}

	return "invalid"
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemPostgreSQL)

	return span
}
