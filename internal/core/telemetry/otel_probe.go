package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"taskhub/internal/core/port"
	"taskhub/pkg/logger"
)

const tracerName = "taskhub"

// OTELProbe implements Telemetry using OpenTelemetry. Business events are
// also counted in AppMetrics when metrics is set.
type OTELProbe struct {
	logger  *logger.Logger
	metrics *AppMetrics
}

func NewOTELProbe(log *logger.Logger, metrics *AppMetrics) port.Telemetry {
	return &OTELProbe{
		logger:  log,
		metrics: metrics,
	}
}

// OTelSpan wraps an OpenTelemetry span to implement port.Span.
type OTelSpan struct {
	span trace.Span
}

func (s *OTelSpan) End() {
	s.span.End()
}

func (s *OTelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toAttributes(attrs)...)
}

func (s *OTelSpan) SetStatus(code string, message string) {
	var statusCode codes.Code

	switch code {
	case "ok":
		statusCode = codes.Ok
	case "error":
		statusCode = codes.Error
	default:
		statusCode = codes.Unset
	}

	s.span.SetStatus(statusCode, message)
}

func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName,
		trace.WithAttributes(append(standardAttrs, toAttributes(attrs)...)...))

	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, userID string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("service.%s.%s", service, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("service.component", service),
		attribute.String("service.operation", operation),
		attribute.String("user.id", userID),
		attribute.String("component", "service"),
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName,
		trace.WithAttributes(append(standardAttrs, toAttributes(attrs)...)...))

	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, userID string, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)

	eventAttrs := append([]attribute.KeyValue{
		attribute.String("entity", entity),
		attribute.String("entity_id", entityID),
		attribute.String("user_id", userID),
	}, toAttributes(metadata)...)

	span.AddEvent(event, trace.WithAttributes(eventAttrs...))

	if p.metrics != nil {
		p.metrics.RecordDomainOperation(ctx, entity, event)
	}

	p.logger.Ctx(ctx).Info("Business event recorded",
		zap.String("event", event),
		zap.String("entity", entity),
		zap.String("entity_id", entityID),
		zap.String("user_id", userID),
		zap.Any("metadata", metadata))
}

func (p *OTELProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)

	p.logger.Ctx(ctx).Error("Operation error recorded",
		zap.String("operation", operation),
		zap.Error(err),
		zap.Any("metadata", metadata))
}

func toAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	otelAttrs := make([]attribute.KeyValue, 0, len(attrs))

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			otelAttrs = append(otelAttrs, attribute.String(key, v))
		case int:
			otelAttrs = append(otelAttrs, attribute.Int(key, v))
		case int64:
			otelAttrs = append(otelAttrs, attribute.Int64(key, v))
		case float64:
			otelAttrs = append(otelAttrs, attribute.Float64(key, v))
		case bool:
			otelAttrs = append(otelAttrs, attribute.Bool(key, v))
		default:
			otelAttrs = append(otelAttrs, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return otelAttrs
}
