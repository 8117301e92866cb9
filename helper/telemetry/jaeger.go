package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/dogechain-lab/smartwallet/versioning"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"

	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

func newJaegerProvider(url string, service string) (*tracesdk.TracerProvider, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	commit := versioning.Commit
	if len(commit) > 8 {
		commit = commit[:8]
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(url)))
	if err != nil {
		return nil, err
	}

	return tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
			attribute.String("hostname", hostname),
			attribute.String("version", versioning.Version),
			attribute.String("commit", commit),
		)),
		tracesdk.WithSampler(tracesdk.AlwaysSample()),
	), nil
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	k := attribute.Key(key)

	switch v := value.(type) {
	case string:
		return k.String(v)
	case bool:
		return k.Bool(v)
	case int:
		return k.Int(v)
	case int64:
		return k.Int64(v)
	case uint64:
		return k.Int64(int64(v))
	case float64:
		return k.Float64(v)
	case fmt.Stringer:
		return k.String(v.String())
	default:
		return k.String(fmt.Sprintf("%v", v))
	}
}

func toAttributes(attributes map[string]interface{}) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attributes))
	for key, value := range attributes {
		kvs = append(kvs, toAttribute(key, value))
	}

	return kvs
}

type jaegerSpan struct {
	span trace.Span
	ctx  context.Context
}

func (s *jaegerSpan) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(toAttribute(key, value))
}

func (s *jaegerSpan) SetAttributes(attributes map[string]interface{}) {
	s.span.SetAttributes(toAttributes(attributes)...)
}

func (s *jaegerSpan) AddEvent(name string, attributes map[string]interface{}) {
	s.span.AddEvent(name, trace.WithAttributes(toAttributes(attributes)...))
}

func (s *jaegerSpan) SetStatus(code Code, info string) {
	s.span.SetStatus(codes.Code(code), info)
}

func (s *jaegerSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func (s *jaegerSpan) End() {
	s.span.End()
}

func (s *jaegerSpan) Context() context.Context {
	return s.ctx
}

type jaegerTracer struct {
	tracer trace.Tracer
}

func (t *jaegerTracer) Start(ctx context.Context, name string) Span {
	childCtx, span := t.tracer.Start(ctx, name)

	return &jaegerSpan{
		span: span,
		ctx:  childCtx,
	}
}

type jaegerTracerProvider struct {
	provider *tracesdk.TracerProvider
}

func (p *jaegerTracerProvider) NewTracer(namespace string) Tracer {
	return &jaegerTracer{
		tracer: p.provider.Tracer(namespace),
	}
}

func (p *jaegerTracerProvider) Shutdown(ctx context.Context) error {
	return p.provider.Shutdown(ctx)
}

// NewJaegerTracerProvider exports spans to the jaeger collector at url
func NewJaegerTracerProvider(url string, service string) (TracerProvider, error) {
	tp, err := newJaegerProvider(url, service)
	if err != nil {
		return nil, err
	}

	return &jaegerTracerProvider{provider: tp}, nil
}
