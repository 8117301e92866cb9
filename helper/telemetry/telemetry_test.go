package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

type stringer struct{}

func (stringer) String() string { return "0xabc" }

func TestNilProvider(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := NewNilTracerProvider()
	span := provider.NewTracer("test").Start(ctx, "submit")

	assert.NotPanics(t, func() {
		span.SetAttribute("index", 1)
		span.SetAttributes(map[string]interface{}{"ok": true})
		span.AddEvent("event", nil)
		span.RecordError(errors.New("boom"))
		span.SetStatus(Error, "boom")
		span.End()
	})

	assert.Equal(t, ctx, span.Context())
	assert.NoError(t, provider.Shutdown(ctx))
}

func TestToAttribute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value    interface{}
		expected attribute.Value
	}{
		{"s", attribute.StringValue("s")},
		{true, attribute.BoolValue(true)},
		{7, attribute.IntValue(7)},
		{uint64(9), attribute.Int64Value(9)},
		{stringer{}, attribute.StringValue("0xabc")},
		{[]byte{1}, attribute.StringValue("[1]")},
	}

	for _, c := range cases {
		kv := toAttribute("k", c.value)
		assert.Equal(t, attribute.Key("k"), kv.Key)
		assert.Equal(t, c.expected, kv.Value)
	}
}
