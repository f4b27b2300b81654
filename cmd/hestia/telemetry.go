package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/formicidae-tracker/hestia/internal/hestia"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// telemetryArgs selects where command spans are exported. Tracing stays
// disabled when neither an endpoint nor an exporter is set.
type telemetryArgs struct {
	Endpoint       string
	Exporter       string
	ServiceName    string
	ServiceVersion string
}

func telemetryArgsFromEnv() telemetryArgs {
	return telemetryArgs{
		Endpoint:       os.Getenv("HESTIA_OTEL_ENDPOINT"),
		Exporter:       strings.ToLower(os.Getenv("HESTIA_OTEL_EXPORTER")),
		ServiceName:    "hestia",
		ServiceVersion: hestia.HESTIA_VERSION,
	}
}

func (a telemetryArgs) enabled() bool {
	return len(a.Endpoint) > 0 || len(a.Exporter) > 0
}

func (a telemetryArgs) exporter(ctx context.Context, w io.Writer) (sdktrace.SpanExporter, error) {
	switch a.Exporter {
	case "", "otlp":
		if len(a.Endpoint) == 0 {
			return nil, fmt.Errorf("otlp exporter requires HESTIA_OTEL_ENDPOINT")
		}
		client := otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(a.Endpoint),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
		return otlptrace.New(ctx, client)
	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported span exporter '%s'", a.Exporter)
	}
}

func newTracerProvider(ctx context.Context, a telemetryArgs, exp sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", a.ServiceName),
			attribute.String("service.version", a.ServiceVersion),
		))
	if err != nil {
		return nil, fmt.Errorf("could not create telemetry resource: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	), nil
}

// setUpTelemetry installs the global tracer provider. The returned
// function flushes pending spans and is never nil.
func setUpTelemetry(ctx context.Context, a telemetryArgs, w io.Writer) (func(), error) {
	if a.enabled() == false {
		return func() {}, nil
	}
	exp, err := a.exporter(ctx, w)
	if err != nil {
		return func() {}, err
	}
	tp, err := newTracerProvider(ctx, a, exp)
	if err != nil {
		return func() {}, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logrus.WithError(err).Warn("could not flush telemetry")
		}
	}, nil
}

func startCommandSpan(name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(context.Background(),
		"hestia/"+name,
		trace.WithAttributes(attrs...))
}

// endCommandSpan marks span as failed when err is set, then ends it.
func endCommandSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}
