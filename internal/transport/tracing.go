package transport

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "supplier-gateway/internal/transport"

// tracingTransport opens a client span per outbound request. It uses the
// global tracer provider, which is a no-op until an SDK is installed.
// Trace context is not injected: supplier wire formats are fixed.
type tracingTransport struct {
	next   http.RoundTripper
	tracer trace.Tracer
}

// NewTracingTransport wraps next with client spans.
func NewTracingTransport(next http.RoundTripper) http.RoundTripper {
	return &tracingTransport{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(req.Context(), "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("server.address", req.URL.Hostname()),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	resp, err := t.next.RoundTrip(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", resp.StatusCode))
	}
	return resp, nil
}
