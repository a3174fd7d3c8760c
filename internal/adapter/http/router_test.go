package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	api "taskhub/internal/adapter/http"
	"taskhub/internal/core/model/response"
	"taskhub/internal/core/telemetry"
	"taskhub/pkg/config"
	"taskhub/pkg/logger"
	. "taskhub/pkg/test"
)

type RouterSuite struct {
	suite.Suite
	Router *gin.Engine
}

func TestRouterSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *RouterSuite) SetupTest() {
	cfg := config.Default()
	cfg.RateLimitEnabled = false

	s.Router, _ = api.NewRouter(context.Background(), InitTestDB(), cfg, logger.NewNop(), telemetry.NewNoOpProbe(), nil)
}

func (s *RouterSuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	return w
}

func (s *RouterSuite) register(username string) response.AuthResponse {
	w := s.do(http.MethodPost, "/api/users/register", "",
		`{"username":"`+username+`","email":"`+username+`@example.com","password":"secret123"}`)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	var auth response.AuthResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &auth))

	return auth
}

func decode[T any](s *RouterSuite, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *RouterSuite) TestHealth() {
	w := s.do(http.MethodGet, "/", "", "")
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Body.String()).To(Equal("API is running..."))

	w = s.do(http.MethodGet, "/api/health", "", "")
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(decode[response.MessageResponse](s, w).Message).To(Equal("Server is healthy!"))
}

func (s *RouterSuite) TestRegister_ReturnsToken() {
	auth := s.register("alice")

	Expect(auth.Token).NotTo(BeEmpty())
	Expect(auth.Username).To(Equal("alice"))
	Expect(auth.Email).To(Equal("alice@example.com"))
	Expect(auth.ID).NotTo(BeEmpty())
}

func (s *RouterSuite) TestRegister_ValidationError() {
	w := s.do(http.MethodPost, "/api/users/register", "", `{"email":"not-an-email","password":"secret123"}`)

	Expect(w.Code).To(Equal(http.StatusBadRequest))

	body := decode[response.ErrorResponse](s, w)
	Expect(body.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(body.Error.Errors).To(ContainElement(HaveField("Field", "username")))
	Expect(body.Error.Errors).To(ContainElement(HaveField("Field", "email")))
}

func (s *RouterSuite) TestLogin_BadPassword() {
	s.register("alice")

	w := s.do(http.MethodPost, "/api/users/login", "", `{"email":"alice@example.com","password":"wrong-password"}`)

	Expect(w.Code).To(Equal(http.StatusUnauthorized))
	Expect(w.Body.String()).NotTo(ContainSubstring("token\""))

	body := decode[response.ErrorResponse](s, w)
	Expect(body.Error.Code).To(Equal("UNAUTHORIZED"))
}

func (s *RouterSuite) TestProfile_RequiresToken() {
	w := s.do(http.MethodGet, "/api/users/profile", "", "")

	Expect(w.Code).To(Equal(http.StatusUnauthorized))
	body := decode[response.ErrorResponse](s, w)
	Expect(body.Error.Errors[0].Message).To(Equal("Not authorized, no token"))

	w = s.do(http.MethodGet, "/api/users/profile", "garbage", "")

	Expect(w.Code).To(Equal(http.StatusUnauthorized))
	body = decode[response.ErrorResponse](s, w)
	Expect(body.Error.Errors[0].Message).To(Equal("Not authorized, token failed"))
}

func (s *RouterSuite) TestProfile() {
	alice := s.register("alice")

	w := s.do(http.MethodGet, "/api/users/profile", alice.Token, "")

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(decode[response.UserResponse](s, w)).To(Equal(response.UserResponse{
		ID:       alice.ID,
		Username: "alice",
		Email:    "alice@example.com",
	}))
	Expect(w.Body.String()).NotTo(ContainSubstring("password"))
}

func (s *RouterSuite) TestCreateTask_Defaults() {
	alice := s.register("alice")

	w := s.do(http.MethodPost, "/api/tasks", alice.Token, `{"title":"Buy milk"}`)

	Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())

	task := decode[response.TaskResponse](s, w)
	Expect(task.Title).To(Equal("Buy milk"))
	Expect(task.User).To(Equal(alice.ID))
	Expect(*task.Status).To(Equal("To Do"))
	Expect(*task.Priority).To(Equal("Medium"))
	Expect(*task.Category).To(Equal("General"))
	Expect(*task.Points).To(Equal(0))
	Expect(task.Collaborators).To(BeEmpty())
}

func (s *RouterSuite) TestTaskLifecycle() {
	alice := s.register("alice")
	bob := s.register("bob")

	w := s.do(http.MethodPost, "/api/tasks", alice.Token, `{"title":"Paint fence","priority":"High","collaborators":["`+bob.ID+`"]}`)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
	created := decode[response.TaskResponse](s, w)

	w = s.do(http.MethodPut, "/api/tasks/"+created.ID, alice.Token, `{"priority":null,"points":5}`)
	Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())

	updated := decode[response.TaskResponse](s, w)
	Expect(updated.Priority).To(BeNil())
	Expect(*updated.Points).To(Equal(5))
	Expect(updated.Title).To(Equal("Paint fence"))

	// bob sees the task only through the collaborative list
	w = s.do(http.MethodGet, "/api/tasks", bob.Token, "")
	Expect(decode[[]response.TaskResponse](s, w)).To(BeEmpty())

	w = s.do(http.MethodGet, "/api/tasks/collaborative", bob.Token, "")
	Expect(decode[[]response.TaskResponse](s, w)).To(ConsistOf(HaveField("ID", created.ID)))

	w = s.do(http.MethodGet, "/api/tasks/"+created.ID, bob.Token, "")
	Expect(w.Code).To(Equal(http.StatusNotFound))

	w = s.do(http.MethodDelete, "/api/tasks/"+created.ID, alice.Token, "")
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(decode[response.MessageResponse](s, w).Message).To(Equal("Task removed"))

	w = s.do(http.MethodGet, "/api/tasks/"+created.ID, alice.Token, "")
	Expect(w.Code).To(Equal(http.StatusNotFound))
}

func (s *RouterSuite) TestTask_MalformedID() {
	alice := s.register("alice")

	w := s.do(http.MethodGet, "/api/tasks/not-a-uuid", alice.Token, "")

	Expect(w.Code).To(Equal(http.StatusNotFound))
	Expect(decode[response.ErrorResponse](s, w).Error.Code).To(Equal("NOT_FOUND"))
}

func (s *RouterSuite) TestFriendFlow() {
	alice := s.register("alice")
	bob := s.register("bob")

	w := s.do(http.MethodPost, "/api/friends/request/"+bob.ID, alice.Token, "")
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	Expect(decode[response.FriendRequestSentResponse](s, w).Message).To(Equal("Friend request sent"))

	w = s.do(http.MethodPost, "/api/friends/request/"+alice.ID, bob.Token, "")
	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](s, w).Error.Code).To(Equal("CONFLICT"))

	w = s.do(http.MethodGet, "/api/friends/requests", bob.Token, "")
	requests := decode[[]response.FriendRequestResponse](s, w)
	require.Len(s.T(), requests, 1)
	Expect(requests[0].Sender.Username).To(Equal("alice"))

	w = s.do(http.MethodPut, "/api/friends/accept/"+requests[0].ID, bob.Token, "")
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(decode[response.MessageResponse](s, w).Message).To(Equal("Friend request accepted"))

	w = s.do(http.MethodGet, "/api/friends/list", alice.Token, "")
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Body.String()).NotTo(ContainSubstring("password"))
	Expect(decode[[]response.UserResponse](s, w)).To(ConsistOf(response.UserResponse{
		ID:       bob.ID,
		Username: "bob",
		Email:    "bob@example.com",
	}))

	w = s.do(http.MethodGet, "/api/friends/users", alice.Token, "")
	Expect(decode[[]response.UserResponse](s, w)).To(BeEmpty())
}

func (s *RouterSuite) TestFriendRequest_Self() {
	alice := s.register("alice")

	w := s.do(http.MethodPost, "/api/friends/request/"+alice.ID, alice.Token, "")

	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](s, w).Error.Code).To(Equal("BAD_REQUEST"))
}

func (s *RouterSuite) TestPasswordReset() {
	s.register("alice")

	w := s.do(http.MethodPost, "/api/users/forgotpassword", "", `{"email":"alice@example.com"}`)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	forgot := decode[response.ForgotPasswordResponse](s, w)

	w = s.do(http.MethodPut, "/api/users/resetpassword/"+forgot.ResetToken, "", `{"password":"newsecret"}`)
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(decode[response.MessageResponse](s, w).Message).To(Equal("Password reset successful"))

	w = s.do(http.MethodPost, "/api/users/login", "", `{"email":"alice@example.com","password":"newsecret"}`)
	Expect(w.Code).To(Equal(http.StatusOK))

	w = s.do(http.MethodPut, "/api/users/resetpassword/"+forgot.ResetToken, "", `{"password":"another1"}`)
	Expect(w.Code).To(Equal(http.StatusBadRequest))
}

func (s *RouterSuite) TestUnknownRoute() {
	w := s.do(http.MethodGet, "/api/nope", "", "")

	Expect(w.Code).To(Equal(http.StatusNotFound))

	body := decode[response.ErrorResponse](s, w)
	Expect(body.Error.Code).To(Equal("NOT_FOUND"))
	Expect(body.Error.Errors[0].Message).To(Equal("Not Found - /api/nope"))
}

func (s *RouterSuite) TestRegister_BlankFieldsAreRejected() {
	w := s.do(http.MethodPost, "/api/users/register", "", `{"username":"bob","email":"bob@example.com","password":"       "}`)

	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](s, w).Error.Errors).To(ConsistOf(HaveField("Field", "password")))

	w = s.do(http.MethodPost, "/api/users/register", "", `{"username":" ab ","email":"ab@example.com","password":"secret123"}`)

	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](s, w).Error.Errors).To(ConsistOf(HaveField("Field", "username")))
}

func (s *RouterSuite) TestTask_BlankTitleIsRejected() {
	alice := s.register("alice")

	w := s.do(http.MethodPost, "/api/tasks", alice.Token, `{"title":"     "}`)

	Expect(w.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](s, w).Error.Code).To(Equal("VALIDATION_ERROR"))

	w = s.do(http.MethodPost, "/api/tasks", alice.Token, `{"title":"Buy milk"}`)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
	created := decode[response.TaskResponse](s, w)

	for _, body := range []string{`{"title":""}`, `{"title":"   "}`, `{"title":" ab "}`} {
		w = s.do(http.MethodPut, "/api/tasks/"+created.ID, alice.Token, body)

		Expect(w.Code).To(Equal(http.StatusBadRequest), body)
		Expect(decode[response.ErrorResponse](s, w).Error.Errors).To(ConsistOf(HaveField("Field", "title")))
	}

	w = s.do(http.MethodGet, "/api/tasks/"+created.ID, alice.Token, "")
	Expect(decode[response.TaskResponse](s, w).Title).To(Equal("Buy milk"))
}
