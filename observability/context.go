package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/logger"
)

// Terminal status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// TerminalContext tracks one terminal evaluation of a pipeline: its span,
// its duration and the metrics recorded when it ends.
type TerminalContext struct {
	Terminal   string
	Operations int
	StartTime  time.Time
	Metrics    *Metrics
}

// NewTerminalContext creates a terminal context.
// If metrics is nil, metric recording is silently skipped.
func NewTerminalContext(terminal string, operations int, metrics *Metrics) *TerminalContext {
	return &TerminalContext{
		Terminal:   terminal,
		Operations: operations,
		StartTime:  time.Now(),
		Metrics:    metrics,
	}
}

// terminalContextKey is the context key for TerminalContext.
type terminalContextKey struct{}

// WithTerminalContext stores a TerminalContext in the context.
func WithTerminalContext(ctx context.Context, tc *TerminalContext) context.Context {
	return context.WithValue(ctx, terminalContextKey{}, tc)
}

// TerminalContextFromContext retrieves the TerminalContext from context, or nil.
func TerminalContextFromContext(ctx context.Context) *TerminalContext {
	if tc, ok := ctx.Value(terminalContextKey{}).(*TerminalContext); ok {
		return tc
	}
	return nil
}

// Start opens the pipeline.<terminal> span and stores tc in the returned context.
func (tc *TerminalContext) Start(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, SpanTerminalPrefix+tc.Terminal)
	span.SetAttributes(
		attribute.String(AttrTerminal, tc.Terminal),
		attribute.Int(AttrOperationCount, tc.Operations),
	)
	if id, ok := logger.RunIDFromContext(ctx); ok {
		span.SetAttributes(attribute.String(AttrRunID, id))
	}
	return WithTerminalContext(ctx, tc), span
}

// End ends the span and records terminal metrics. err is the terminal's result.
func (tc *TerminalContext) End(ctx context.Context, span trace.Span, err error) {
	duration := time.Since(tc.StartTime)
	status := StatusOK

	if err != nil {
		status = StatusError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		code := "callback"
		if e, ok := errors.As(err); ok {
			code = string(e.Code)
		}
		span.SetAttributes(attribute.String(AttrErrorCode, code))
		tc.Metrics.RecordError(ctx, code, tc.Terminal)
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	tc.Metrics.RecordTerminal(ctx, tc.Terminal, status, duration)
}

// Duration returns the elapsed time since the terminal started.
func (tc *TerminalContext) Duration() time.Duration {
	return time.Since(tc.StartTime)
}
