package telemetry

import (
	"errors"

	"taskhub/internal/core/domain"
	"taskhub/internal/core/port"
)

// EndSpan closes span, marking it failed only for unexpected errors. Missing
// rows and domain rejections are normal outcomes.
func EndSpan(span port.Span, err error) {
	switch {
	case err == nil, errors.Is(err, port.ErrNotFound):
		span.SetStatus("ok", "")
	case domain.KindOf(err) != domain.KindInternal:
		span.SetAttributes(map[string]interface{}{"error.kind": domain.KindOf(err).String()})
		span.SetStatus("ok", "")
	default:
		span.RecordError(err)
		span.SetStatus("error", err.Error())
	}

	span.End()
}
