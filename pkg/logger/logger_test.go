package logger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WithoutLoki(t *testing.T) {
	RegisterTestingT(t)

	log, err := New("taskhub", "development", "")

	require.NoError(t, err)
	Expect(log.LokiEnabled()).To(BeFalse())
	Expect(log.ServiceName).To(Equal("taskhub"))

	// no-op without a Loki URL
	log.Push(context.Background(), zapcore.InfoLevel, "ignored", nil)
}

func TestPush_SendsStream(t *testing.T) {
	RegisterTestingT(t)

	received := make(chan lokiPushRequest, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Expect(r.URL.Path).To(Equal("/loki/api/v1/push"))
		Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))

		body, _ := io.ReadAll(r.Body)

		var payload lokiPushRequest
		Expect(json.Unmarshal(body, &payload)).To(Succeed())
		received <- payload

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	log, err := New("taskhub", "test", server.URL)
	require.NoError(t, err)
	Expect(log.LokiEnabled()).To(BeTrue())

	log.Push(context.Background(), zapcore.WarnLevel, "HTTP Request", []zap.Field{
		zap.Int("status", 429),
		zap.String("path", "/api/tasks"),
	})

	var payload lokiPushRequest
	Eventually(received, time.Second).Should(Receive(&payload))

	require.Len(t, payload.Streams, 1)
	stream := payload.Streams[0]
	Expect(stream.Stream).To(Equal(map[string]string{"service": "taskhub", "level": "warn"}))
	require.Len(t, stream.Values, 1)

	var line map[string]any
	Expect(json.Unmarshal([]byte(stream.Values[0][1]), &line)).To(Succeed())
	Expect(line).To(HaveKeyWithValue("message", "HTTP Request"))
	Expect(line).To(HaveKeyWithValue("path", "/api/tasks"))
	Expect(line).To(HaveKeyWithValue("status", BeNumerically("==", 429)))
}
