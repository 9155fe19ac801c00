package trace

import (
	"context"
	"io"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "pickbot"

// Version is stamped into the service resource. Override with -ldflags.
var Version = "dev"

var (
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	enabled        bool
	spanOut        io.Closer
)

// Init reads the tracing env and installs a global provider.
//
//	LOG_TRACING_ENABLED  "true" to export spans (default off)
//	TRACE_OUTPUT         file path for spans, stdout when empty
//	TRACE_SAMPLE_RATIO   fraction of root spans kept, default 1
//	TRACE_PRETTY         "true" for indented JSON
func Init() error {
	enabled = os.Getenv("LOG_TRACING_ENABLED") == "true"
	if !enabled {
		return nil
	}

	w, err := spanWriter(os.Getenv("TRACE_OUTPUT"))
	if err != nil {
		enabled = false
		return err
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if os.Getenv("TRACE_PRETTY") == "true" {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		enabled = false
		return err
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(Version),
		),
	)
	if err != nil {
		enabled = false
		return err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio()))),
	)
	otel.SetTracerProvider(tp)
	InitWithProvider(tp)
	return nil
}

func spanWriter(path string) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	spanOut = f
	return f, nil
}

func sampleRatio() float64 {
	v := os.Getenv("TRACE_SAMPLE_RATIO")
	if v == "" {
		return 1
	}
	r, err := strconv.ParseFloat(v, 64)
	if err != nil || r < 0 || r > 1 {
		return 1
	}
	return r
}

// InitWithProvider installs an already built provider. Tests use it with an
// in-memory span recorder.
func InitWithProvider(tp *sdktrace.TracerProvider) {
	tracerProvider = tp
	tracer = tp.Tracer(serviceName)
	enabled = true
}

// Shutdown flushes pending spans and closes the span file, if any.
func Shutdown(ctx context.Context) error {
	var err error
	if tracerProvider != nil {
		err = tracerProvider.Shutdown(ctx)
	}
	if spanOut != nil {
		spanOut.Close()
		spanOut = nil
	}
	return err
}

// StartSpan opens a child span. With tracing off it returns ctx unchanged
// and the no-op span already in it.
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !enabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName, opts...)
}

func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	if !enabled {
		return
	}
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

// RecordError marks the span carried by ctx as failed.
func RecordError(ctx context.Context, err error) {
	if !enabled || err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	if !enabled {
		return
	}
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

func Enabled() bool {
	return enabled
}

// GetTraceFields returns the ids the logger stamps on each line.
func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !enabled {
		return "", "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}
