// Package observability defines the logging, tracing and progress-reporting
// interfaces used across optift. All of them default to no-ops so that the
// core packages never force a logging backend on a caller.
package observability

import (
	"context"
	"log/slog"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type int64Field struct {
	key string
	val int64
}

func (f int64Field) Key() string        { return f.key }
func (f int64Field) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field          { return stringField{key, value} }
func Int(key string, value int) Field         { return intField{key, value} }
func Int64(key string, value int64) Field     { return int64Field{key, value} }
func Float64(key string, value float64) Field { return float64Field{key, value} }
func Error(key string, err error) Field       { return errorField{key, err} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// Tracer provides distributed tracing hooks for library operations.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a tracing span.
type Span interface {
	SetTag(key string, value interface{})
	SetError(err error)
	Finish()
}

type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, nopSpan{}
}

// NopTracer returns a tracer that does nothing.
func NopTracer() Tracer { return nopTracer{} }

type nopSpan struct{}

func (nopSpan) SetTag(string, interface{}) {}
func (nopSpan) SetError(error)             {}
func (nopSpan) Finish()                    {}

// Standard metric names emitted by the library.
const (
	MetricSampleTime    = "optift.sample.duration"
	MetricSampleCount   = "optift.sample.count"
	MetricFitTime       = "optift.costmodel.fit.duration"
	MetricSolveTime     = "optift.heuristic.solve.duration"
	MetricSolveMoves    = "optift.heuristic.moves.count"
	MetricEvalCost      = "optift.partition.cost"
	MetricCacheHit      = "optift.cache.hit"
)

// ProgressSink reports coarse progress for a long-running, boundable
// operation such as the sample harness. Start is called once with the
// total unit count, Tick once per completed unit, Complete once at the
// end. Implementations must be safe to call from multiple goroutines.
type ProgressSink interface {
	Start(total int)
	Tick()
	Complete()
}

type nopProgressSink struct{}

func (nopProgressSink) Start(int) {}
func (nopProgressSink) Tick()     {}
func (nopProgressSink) Complete() {}

// NopProgressSink returns a ProgressSink that does nothing.
func NopProgressSink() ProgressSink { return nopProgressSink{} }

// Std adapts log/slog into the Logger interface. It is the one concrete
// (non-nop) logger this package ships, since every concern downstream of
// it can run perfectly well against NopLogger.
type Std struct {
	l *slog.Logger
}

// NewStd builds a Logger backed by the given slog.Logger, or the default
// slog logger if l is nil.
func NewStd(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return Std{l: l}
}

func toAttrs(fields []Field) []any {
	attrs := make([]any, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key(), f.Value()))
	}
	return attrs
}

func (s Std) Debug(msg string, fields ...Field) { s.l.Debug(msg, toAttrs(fields)...) }
func (s Std) Info(msg string, fields ...Field)  { s.l.Info(msg, toAttrs(fields)...) }
func (s Std) Warn(msg string, fields ...Field)  { s.l.Warn(msg, toAttrs(fields)...) }
func (s Std) Error(msg string, fields ...Field) { s.l.Error(msg, toAttrs(fields)...) }

func (s Std) With(fields ...Field) Logger {
	return Std{l: s.l.With(toAttrs(fields)...)}
}
