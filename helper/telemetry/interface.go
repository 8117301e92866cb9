package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
)

type Code codes.Code

const (
	// Unset is the default status code
	Unset Code = Code(codes.Unset)

	// Error indicates the operation failed
	Error Code = Code(codes.Error)

	// Ok indicates the operation completed
	Ok Code = Code(codes.Ok)
)

type Span interface {
	// SetAttribute sets a single attribute
	SetAttribute(label string, value interface{})

	// SetAttributes sets attributes in bulk
	SetAttributes(attributes map[string]interface{})

	// AddEvent adds an event
	AddEvent(name string, attributes map[string]interface{})

	// SetStatus sets status
	SetStatus(code Code, info string)

	// RecordError records err as an exception event, status is left untouched.
	RecordError(err error)

	// End ends the span
	End()

	// Context returns a context carrying the span
	Context() context.Context
}

// Tracer starts spans under one namespace
type Tracer interface {
	// Start starts a new span, child of any span found in ctx
	Start(ctx context.Context, name string) Span
}

type TracerProvider interface {
	// NewTracer creates a new tracer
	NewTracer(namespace string) Tracer

	// Shutdown flushes and stops the provider
	Shutdown(context.Context) error
}
