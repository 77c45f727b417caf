package server

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/registry/internal/config"
	"github.com/vango-dev/registry/pkg/protocol"
)

// newTracer resolves the tracer for command spans. With tracing disabled a
// no-op tracer is returned. A nil provider means the global one.
func newTracer(cfg config.TracingConfig, tp trace.TracerProvider) trace.Tracer {
	if !cfg.Enabled {
		return noop.NewTracerProvider().Tracer(cfg.ServiceName)
	}
	if tp != nil {
		return tp.Tracer(cfg.ServiceName)
	}
	return otel.Tracer(cfg.ServiceName)
}

// traceCommand runs fn inside a span named after the command op.
func (s *Server) traceCommand(ctx context.Context, sess *Session, cmd *protocol.Command, fn func(context.Context) error) error {
	attrs := []attribute.KeyValue{
		attribute.String("registry.op", string(cmd.Op)),
		attribute.String("registry.session_id", sess.ID),
	}
	if ids := cmd.TargetIDs(); len(ids) > 0 {
		attrs = append(attrs, attribute.StringSlice("registry.ids", ids))
	}
	if n := len(cmd.Entries); n > 0 {
		attrs = append(attrs, attribute.Int("registry.entries", n))
	}

	spanCtx, span := s.tracer.Start(ctx, "registry."+string(cmd.Op),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	err := fn(spanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.Int("registry.url_patches", sess.pendingPatches()))
	return err
}
