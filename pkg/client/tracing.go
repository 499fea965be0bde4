package client

import (
	"context"

	"github.com/webmajiang/mjnet/pkg/protocol"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used with the global provider.
const TracerName = "github.com/webmajiang/mjnet/pkg/client"

// Span names.
const (
	spanSend    = "mjnet.send"
	spanReceive = "mjnet.receive"
)

func defaultTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// startSpan starts a span for one frame. The returned func ends it,
// recording err when non-nil.
func (m *Manager) startSpan(name string, kind trace.SpanKind, attrs ...attribute.KeyValue) (trace.Span, func(err error)) {
	_, span := m.tracer.Start(context.Background(), name,
		trace.WithSpanKind(kind),
		trace.WithAttributes(attrs...),
	)
	return span, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

func actionAttr(a protocol.Action) attribute.KeyValue {
	return attribute.String("mjnet.action", string(a))
}

func sizeAttr(n int) attribute.KeyValue {
	return attribute.Int("mjnet.frame_bytes", n)
}
