package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a zap logger wrapped by otelzap, so Ctx(ctx) lines carry the
// active trace and span ids. When a Loki URL is configured, Push also ships
// entries to Loki.
type Logger struct {
	*otelzap.Logger
	ServiceName string
	lokiURL     string
	httpClient  *http.Client
}

type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

func New(serviceName, environment, lokiURL string) (*Logger, error) {
	config := zap.NewProductionConfig()
	if environment != "production" {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"
	config.InitialFields = map[string]interface{}{
		"service":     serviceName,
		"environment": environment,
	}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	l := &Logger{
		Logger:      otelzap.New(zapLogger),
		ServiceName: serviceName,
	}

	if lokiURL != "" {
		l.lokiURL = lokiURL + "/loki/api/v1/push"
		l.httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	return l, nil
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{
		Logger:      otelzap.New(zap.NewNop()),
		ServiceName: "test",
	}
}

func (l *Logger) LokiEnabled() bool {
	return l.lokiURL != ""
}

// Push sends one entry to Loki. It blocks on the HTTP call, so callers run it
// in a goroutine.
func (l *Logger) Push(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) {
	if !l.LokiEnabled() {
		return
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}

	line := enc.Fields
	line["timestamp"] = time.Now().Format(time.RFC3339Nano)
	line["level"] = level.String()
	line["message"] = msg
	line["service"] = l.ServiceName

	spanContext := trace.SpanContextFromContext(ctx)
	if spanContext.IsValid() {
		line["trace_id"] = spanContext.TraceID().String()
		line["span_id"] = spanContext.SpanID().String()
	}

	encoded, err := json.Marshal(line)
	if err != nil {
		l.Ctx(ctx).Error("Failed to marshal loki entry", zap.Error(err))
		return
	}

	entry := lokiPushRequest{
		Streams: []lokiStream{
			{
				Stream: map[string]string{
					"service": l.ServiceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{fmt.Sprintf("%d", time.Now().UnixNano()), string(encoded)},
				},
			},
		},
	}

	l.send(ctx, entry)
}

func (l *Logger) send(ctx context.Context, entry lokiPushRequest) {
	body, err := json.Marshal(entry)
	if err != nil {
		return
	}

	// the request context is usually cancelled by the time this runs
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, l.lokiURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		l.Warn("Failed to push log entry to loki", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
}
