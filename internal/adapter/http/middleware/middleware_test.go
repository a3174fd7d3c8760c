package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"

	"taskhub/internal/core/model/response"
	"taskhub/pkg/config"
	"taskhub/pkg/logger"
)

type stubVerifier struct {
	id  uuid.UUID
	err error
}

func (s stubVerifier) Verify(string) (uuid.UUID, error) {
	return s.id, s.err
}

func newRouter(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CurrentMiddleware(), ErrorResponder(logger.NewNop(), false))
	router.Use(middlewares...)
	router.GET("/ping", func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user": id.String()})
	})

	return router
}

func perform(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorBody(w *httptest.ResponseRecorder) response.ErrorResponse {
	var body response.ErrorResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
	return body
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter(AuthMiddleware(stubVerifier{}))
	w := perform(router, httptest.NewRequest(http.MethodGet, "/ping", nil))

	Expect(w.Code).To(Equal(http.StatusUnauthorized))
	Expect(errorBody(w).Error.Errors[0].Message).To(Equal("Not authorized, no token"))
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter(AuthMiddleware(stubVerifier{err: errors.New("bad signature")}))
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer nope")

	w := perform(router, req)

	Expect(w.Code).To(Equal(http.StatusUnauthorized))
	body := errorBody(w)
	Expect(body.Error.Errors).To(HaveLen(1))
	Expect(body.Error.Errors[0].Message).To(Equal("Not authorized, token failed"))
	Expect(body.Error.Details).To(BeNil())
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	RegisterTestingT(t)

	id := uuid.New()
	router := newRouter(AuthMiddleware(stubVerifier{id: id}))
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer token")

	w := perform(router, req)

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Body.String()).To(ContainSubstring(id.String()))
}

func TestCurrentMiddleware_RequestID(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	Expect(perform(router, req).Header().Get(RequestIDHeader)).To(Equal("abc-123"))

	generated := perform(router, httptest.NewRequest(http.MethodGet, "/ping", nil)).Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	Expect(err).To(BeNil())
}

func TestCORS(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter(CORS([]string{"http://localhost:5173"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := perform(router, req)
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:5173"))
	Expect(w.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = perform(router, req)
	Expect(w.Code).To(Equal(http.StatusForbidden))
	Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())

	w = perform(router, httptest.NewRequest(http.MethodGet, "/ping", nil))
	Expect(w.Code).To(Equal(http.StatusOK))
}

func TestSecurityHeaders(t *testing.T) {
	RegisterTestingT(t)

	w := perform(newRouter(SecurityHeaders(false)), httptest.NewRequest(http.MethodGet, "/ping", nil))
	Expect(w.Header().Get("X-Content-Type-Options")).To(Equal("nosniff"))
	Expect(w.Header().Get("X-Frame-Options")).To(Equal("SAMEORIGIN"))
	Expect(w.Header().Get("Strict-Transport-Security")).To(BeEmpty())

	w = perform(newRouter(SecurityHeaders(true)), httptest.NewRequest(http.MethodGet, "/ping", nil))
	Expect(w.Header().Get("Strict-Transport-Security")).NotTo(BeEmpty())
}

func TestHTTPSEnforcer(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter(NewHTTPSEnforcer(true, logger.NewNop()).HTTPSMiddleware())

	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/ping", nil)
	w := perform(router, req)
	Expect(w.Code).To(Equal(http.StatusMovedPermanently))
	Expect(w.Header().Get("Location")).To(Equal("https://api.example.com/ping"))

	req = httptest.NewRequest(http.MethodGet, "http://api.example.com/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	Expect(perform(router, req).Code).To(Equal(http.StatusOK))

	req = httptest.NewRequest(http.MethodGet, "http://localhost:5000/ping", nil)
	Expect(perform(router, req).Code).To(Equal(http.StatusOK))
}

func TestMemoryStore_WindowResets(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	count, _, _ := store.Increment(context.Background(), "k", time.Minute)
	assert.Equal(t, 1, count)

	count, _, _ = store.Increment(context.Background(), "k", time.Minute)
	assert.Equal(t, 2, count)

	now = now.Add(2 * time.Minute)
	count, _, _ = store.Increment(context.Background(), "k", time.Minute)
	assert.Equal(t, 1, count)
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	RegisterTestingT(t)

	limiter := NewRateLimiter(NewMemoryStore(), map[string]config.RateLimitConfig{
		"GET /ping": {Requests: 2, Window: time.Minute},
	}, logger.NewNop(), nil)

	router := newRouter(limiter.RateLimitMiddleware())

	for i := 0; i < 2; i++ {
		w := perform(router, httptest.NewRequest(http.MethodGet, "/ping", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
	}

	w := perform(router, httptest.NewRequest(http.MethodGet, "/ping", nil))
	Expect(w.Code).To(Equal(http.StatusTooManyRequests))
	Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("0"))
	Expect(w.Header().Get("Retry-After")).NotTo(BeEmpty())
	Expect(errorBody(w).Error.Code).To(Equal("RATE_LIMIT_EXCEEDED"))
}

func TestRateLimiter_PerUserKeys(t *testing.T) {
	RegisterTestingT(t)

	limiter := NewRateLimiter(NewMemoryStore(), map[string]config.RateLimitConfig{
		"default": {Requests: 1, Window: time.Minute, PerUser: true},
	}, logger.NewNop(), nil)

	alice, bob := uuid.New(), uuid.New()
	setUser := func(c *gin.Context) {
		if c.GetHeader("X-Test-User") == "bob" {
			c.Set(UserIDKey, bob)
		} else {
			c.Set(UserIDKey, alice)
		}
	}

	router := newRouter(setUser, limiter.RateLimitMiddleware())

	Expect(perform(router, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code).To(Equal(http.StatusOK))
	Expect(perform(router, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code).To(Equal(http.StatusTooManyRequests))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Test-User", "bob")
	Expect(perform(router, req).Code).To(Equal(http.StatusOK))
}
