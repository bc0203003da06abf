package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/rpc"
)

// ---- mock implementations ----

type mockUserCommander struct {
	createFn   func(cqrs.CreateUserCommand) (*models.UserView, error)
	updateFn   func(cqrs.UpdateUserCommand) (*models.UserView, error)
	deleteFn   func(cqrs.DeleteUserCommand) error
	validateFn func(cqrs.ValidateUserCommand) (*models.UserView, error)
}

func (m *mockUserCommander) CreateUser(_ context.Context, cmd cqrs.CreateUserCommand) (*models.UserView, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserCommander) UpdateUser(_ context.Context, cmd cqrs.UpdateUserCommand) (*models.UserView, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserCommander) DeleteUser(_ context.Context, cmd cqrs.DeleteUserCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return fmt.Errorf("not configured")
}
func (m *mockUserCommander) ValidateUser(_ context.Context, cmd cqrs.ValidateUserCommand) (*models.UserView, error) {
	if m.validateFn != nil {
		return m.validateFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockUserQuerier struct {
	getFn  func(cqrs.GetUserQuery) (*models.UserView, error)
	listFn func(cqrs.ListUsersQuery) (*models.Page[*models.UserView], error)
}

func (m *mockUserQuerier) GetUser(_ context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserQuerier) ListUsers(_ context.Context, q cqrs.ListUsersQuery) (*models.Page[*models.UserView], error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeAuthUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

func newUserTestRouter(cmds UserCommander, qrys UserQuerier, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewUserHandler(cmds, qrys).Routes(r, fakeAuthUser(authUserID))
	return r
}

func userDoRequest(router *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var uTestUserView = &models.UserView{
	ID: "usr-001", Username: "alice", FirstName: "Alice", Email: "alice@example.com",
	Phone: "+441234567890", CreatedAt: time.Now(), UpdatedAt: time.Now(),
}

func uValidCreateBody() map[string]any {
	return map[string]any{
		"username": "alice", "firstName": "Alice", "lastName": "Smith",
		"email": "alice@example.com", "password": "secret1", "phone": "+441234567890",
	}
}

// ---- tests ----

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		createFn       func(cqrs.CreateUserCommand) (*models.UserView, error)
		expectedStatus int
	}{
		{
			name:           "success - creates new user",
			body:           uValidCreateBody(),
			createFn:       func(cqrs.CreateUserCommand) (*models.UserView, error) { return uTestUserView, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name: "conflict - email already registered",
			body: uValidCreateBody(),
			createFn: func(cqrs.CreateUserCommand) (*models.UserView, error) {
				return nil, apperr.Conflict("User with this email already exists")
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "bad request - missing required fields",
			body:           map[string]any{"email": "alice@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - invalid email format",
			body:           map[string]any{"email": "not-valid", "password": "secret1"},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockUserCommander{createFn: tt.createFn}
			router := newUserTestRouter(cmds, &mockUserQuerier{}, "")
			w := userDoRequest(router, http.MethodPost, "/users", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateUserResponseEnvelope(t *testing.T) {
	cmds := &mockUserCommander{createFn: func(cmd cqrs.CreateUserCommand) (*models.UserView, error) {
		if cmd.Password != "secret1" {
			t.Errorf("password not passed through")
		}
		return uTestUserView, nil
	}}
	router := newUserTestRouter(cmds, &mockUserQuerier{}, "")
	w := userDoRequest(router, http.MethodPost, "/users", uValidCreateBody())

	var resp struct {
		Success    bool            `json:"success"`
		StatusCode int             `json:"statusCode"`
		Message    string          `json:"message"`
		Data       models.UserView `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.StatusCode != http.StatusCreated || resp.Data.ID != "usr-001" {
		t.Errorf("unexpected envelope: %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("response leaks password: %s", w.Body.String())
	}
}

func TestListUsers(t *testing.T) {
	var got cqrs.ListUsersQuery
	qrys := &mockUserQuerier{listFn: func(q cqrs.ListUsersQuery) (*models.Page[*models.UserView], error) {
		got = q
		return &models.Page[*models.UserView]{Data: []*models.UserView{uTestUserView}, Total: 1, Skip: q.Skip, Take: q.Take}, nil
	}}
	router := newUserTestRouter(&mockUserCommander{}, qrys, "usr-001")

	w := userDoRequest(router, http.MethodGet, "/users?skip=5&take=500", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d; body: %s", w.Code, w.Body.String())
	}
	if got.Skip != 5 || got.Take != 100 {
		t.Errorf("expected skip=5 take=100, got skip=%d take=%d", got.Skip, got.Take)
	}
}

func TestGetUser(t *testing.T) {
	tests := []struct {
		name           string
		urlUserID      string
		getFn          func(cqrs.GetUserQuery) (*models.UserView, error)
		expectedStatus int
	}{
		{
			name:           "success - fetch user details",
			urlUserID:      "usr-001",
			getFn:          func(cqrs.GetUserQuery) (*models.UserView, error) { return uTestUserView, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found - user does not exist",
			urlUserID:      "usr-999",
			getFn:          func(q cqrs.GetUserQuery) (*models.UserView, error) { return nil, apperr.NotFound("User", q.UserID) },
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "internal - storage failure",
			urlUserID:      "usr-001",
			getFn:          func(cqrs.GetUserQuery) (*models.UserView, error) { return nil, fmt.Errorf("connection refused") },
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{}, &mockUserQuerier{getFn: tt.getFn}, "usr-001")
			w := userDoRequest(router, http.MethodGet, "/users/"+tt.urlUserID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	forbidOthers := func(cmd cqrs.UpdateUserCommand) (*models.UserView, error) {
		if cmd.UserID != cmd.RequestingUserID {
			return nil, apperr.Forbidden("You can only update your own user details")
		}
		return uTestUserView, nil
	}
	tests := []struct {
		name           string
		urlUserID      string
		authUserID     string
		body           any
		updateFn       func(cqrs.UpdateUserCommand) (*models.UserView, error)
		expectedStatus int
	}{
		{
			name:      "success - update own user details",
			urlUserID: "usr-001", authUserID: "usr-001",
			body:           map[string]any{"firstName": "Alicia"},
			updateFn:       forbidOthers,
			expectedStatus: http.StatusOK,
		},
		{
			name:      "forbidden - update another user's details",
			urlUserID: "usr-002", authUserID: "usr-001",
			body:           map[string]any{"firstName": "Mallory"},
			updateFn:       forbidOthers,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "not found - user does not exist",
			urlUserID: "usr-999", authUserID: "usr-999",
			body: map[string]any{"phone": "123"},
			updateFn: func(cmd cqrs.UpdateUserCommand) (*models.UserView, error) {
				return nil, apperr.NotFound("User", cmd.UserID)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:      "bad request - malformed body",
			urlUserID: "usr-001", authUserID: "usr-001",
			body:           []string{"not", "an", "object"},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockUserCommander{updateFn: tt.updateFn}
			router := newUserTestRouter(cmds, &mockUserQuerier{}, tt.authUserID)
			w := userDoRequest(router, http.MethodPut, "/users/"+tt.urlUserID, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteUser(t *testing.T) {
	tests := []struct {
		name           string
		urlUserID      string
		authUserID     string
		deleteFn       func(cqrs.DeleteUserCommand) error
		expectedStatus int
	}{
		{
			name:      "success - delete own user",
			urlUserID: "usr-001", authUserID: "usr-001",
			deleteFn:       func(cqrs.DeleteUserCommand) error { return nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:      "forbidden - delete another user",
			urlUserID: "usr-002", authUserID: "usr-001",
			deleteFn: func(cqrs.DeleteUserCommand) error {
				return apperr.Forbidden("You can only delete your own account")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "not found - user does not exist",
			urlUserID: "usr-999", authUserID: "usr-999",
			deleteFn:       func(cmd cqrs.DeleteUserCommand) error { return apperr.NotFound("User", cmd.UserID) },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockUserCommander{deleteFn: tt.deleteFn}
			router := newUserTestRouter(cmds, &mockUserQuerier{}, tt.authUserID)
			w := userDoRequest(router, http.MethodDelete, "/users/"+tt.urlUserID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUserCommands(t *testing.T) {
	r := rpc.NewRouter("user", rpc.NewMemoryTransport(), zerolog.Nop())
	NewUserHandler(
		&mockUserCommander{validateFn: func(cmd cqrs.ValidateUserCommand) (*models.UserView, error) {
			if cmd.Password != "secret1" {
				return nil, apperr.Unauthorized("Invalid credentials")
			}
			return uTestUserView, nil
		}},
		&mockUserQuerier{getFn: func(q cqrs.GetUserQuery) (*models.UserView, error) {
			if q.UserID != "usr-001" {
				return nil, apperr.NotFound("User", q.UserID)
			}
			return uTestUserView, nil
		}},
	).RegisterCommands(r)

	env, _ := rpc.NewEnvelope(contracts.GetUser, contracts.IDRequest{ID: "usr-001"}, "")
	if reply := r.Dispatch(context.Background(), env); !reply.OK {
		t.Errorf("get_user failed: %+v", reply.Error)
	}

	env, _ = rpc.NewEnvelope(contracts.GetUser, contracts.IDRequest{ID: "missing"}, "")
	reply := r.Dispatch(context.Background(), env)
	if reply.OK || reply.Error.Kind != apperr.KindNotFound {
		t.Errorf("expected NotFound for missing user, got %+v", reply)
	}

	env, _ = rpc.NewEnvelope(contracts.ValidateUser, contracts.ValidateUserRequest{Email: "alice@example.com", Password: "wrong"}, "")
	reply = r.Dispatch(context.Background(), env)
	if reply.OK || reply.Error.Kind != apperr.KindUnauthorized {
		t.Errorf("expected Unauthorized for wrong password, got %+v", reply)
	}

	env, _ = rpc.NewEnvelope(contracts.ValidateUser, map[string]string{"password": "secret1"}, "")
	reply = r.Dispatch(context.Background(), env)
	if reply.OK || reply.Error.Kind != apperr.KindValidation {
		t.Errorf("expected Validation without username or email, got %+v", reply)
	}
}
