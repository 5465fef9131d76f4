package telemetry

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "liftwise-coach-api"

// FiberMiddleware opens a server span per request and exposes the trace id
// in the X-Trace-ID response header. Incoming W3C trace context is honored,
// so spans from the mobile client join the same trace.
func FiberMiddleware() fiber.Handler {
	tracer := otel.Tracer(tracerName)
	propagator := otel.GetTextMapPropagator()

	return func(c *fiber.Ctx) error {
		ctx := propagator.Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := tracer.Start(ctx,
			fmt.Sprintf("%s %s", c.Method(), c.Path()),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(requestAttributes(c)...),
		)
		defer span.End()

		// Handlers reach the span through c.UserContext().
		c.SetUserContext(ctx)

		if span.SpanContext().HasTraceID() {
			c.Set("X-Trace-ID", span.SpanContext().TraceID().String())
		}

		err := c.Next()

		statusCode := c.Response().StatusCode()
		span.SetAttributes(
			attribute.Int("http.status_code", statusCode),
			attribute.Int("http.response_content_length", len(c.Response().Body())),
		)
		if statusCode >= 400 {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", statusCode))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return err
	}
}

// requestAttributes captures the request-side span attributes. The
// correlation id is included when present: retried requests carry the same
// id, so one search finds the original attempt and its replays.
func requestAttributes(c *fiber.Ctx) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", c.Method()),
		attribute.String("http.url", c.OriginalURL()),
		attribute.String("http.route", c.Route().Path),
		attribute.String("http.host", c.Hostname()),
		attribute.String("http.user_agent", c.Get("User-Agent")),
		attribute.String("http.client_ip", c.IP()),
	}
	if cid := c.Get("X-Correlation-ID"); cid != "" {
		attrs = append(attrs, attribute.String("correlation.id", cid))
	}
	return attrs
}

// SpanFromContext gets the current request span from Fiber context.
func SpanFromContext(c *fiber.Ctx) trace.Span {
	return trace.SpanFromContext(c.UserContext())
}

// SetSpanAttribute sets a string attribute on the current request span.
func SetSpanAttribute(c *fiber.Ctx, key, value string) {
	SpanFromContext(c).SetAttributes(attribute.String(key, value))
}
