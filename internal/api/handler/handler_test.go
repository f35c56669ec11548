package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagescope/user-service/internal/api/middleware"
	"github.com/pagescope/user-service/internal/core/domain"
	"github.com/pagescope/user-service/internal/core/ports"
)

// stubAccounts implements ports.AccountService with per-test functions.
type stubAccounts struct {
	registerFn func(ctx context.Context, data domain.Payload) (*domain.User, error)
	loginFn    func(ctx context.Context, data domain.Payload) (*ports.AuthResult, error)
	updateFn   func(ctx context.Context, id string, caller domain.Claims, data domain.Payload) (*ports.AuthResult, error)
	deleteFn   func(ctx context.Context, id string, caller domain.Claims) (*domain.User, error)
	listFn     func(ctx context.Context, page string, n int) (*ports.UserList, error)
	getFn      func(ctx context.Context, page, id string) (*domain.User, error)
	renewFn    func(ctx context.Context, token string) (string, error)
}

func (s *stubAccounts) Register(ctx context.Context, data domain.Payload) (*domain.User, error) {
	return s.registerFn(ctx, data)
}

func (s *stubAccounts) Login(ctx context.Context, data domain.Payload) (*ports.AuthResult, error) {
	return s.loginFn(ctx, data)
}

func (s *stubAccounts) Update(ctx context.Context, id string, caller domain.Claims, data domain.Payload) (*ports.AuthResult, error) {
	return s.updateFn(ctx, id, caller, data)
}

func (s *stubAccounts) Delete(ctx context.Context, id string, caller domain.Claims) (*domain.User, error) {
	return s.deleteFn(ctx, id, caller)
}

func (s *stubAccounts) List(ctx context.Context, page string, n int) (*ports.UserList, error) {
	return s.listFn(ctx, page, n)
}

func (s *stubAccounts) Get(ctx context.Context, page, id string) (*domain.User, error) {
	return s.getFn(ctx, page, id)
}

func (s *stubAccounts) RenewToken(ctx context.Context, token string) (string, error) {
	return s.renewFn(ctx, token)
}

type request struct {
	method   string
	body     string
	params   map[string]string
	identity *domain.Claims
	headers  map[string]string
}

func newContext(r request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, "/", body)
	if r.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(r.params) > 0 {
		names := make([]string, 0, len(r.params))
		values := make([]string, 0, len(r.params))
		for name, value := range r.params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if r.identity != nil {
		middleware.SetIdentity(c, *r.identity)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func admin() *domain.Claims {
	return &domain.Claims{ID: "a1", Role: domain.RoleAdmin, Page: "siteA"}
}

func client() *domain.Claims {
	return &domain.Claims{ID: "u1", Role: domain.RoleClient, Page: "siteA"}
}

func TestAccountHandler_Register(t *testing.T) {
	stub := &stubAccounts{registerFn: func(_ context.Context, data domain.Payload) (*domain.User, error) {
		assert.Equal(t, "ana1", data["nick"])
		assert.True(t, data.Has("surname"), "null values must stay present")
		return &domain.User{ID: "id1", Nick: "ana1", Password: "hash", Role: domain.RoleClient}, nil
	}}
	c, rec := newContext(request{method: http.MethodPost, body: `{"nick":"ana1","surname":null}`})

	require.NoError(t, NewAccountHandler(stub).Register(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "id1", user["_id"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "role")
}

func TestAccountHandler_Register_ServiceError(t *testing.T) {
	stub := &stubAccounts{registerFn: func(context.Context, domain.Payload) (*domain.User, error) {
		return nil, domain.ErrUserExists
	}}
	c, _ := newContext(request{method: http.MethodPost, body: `{}`})

	err := NewAccountHandler(stub).Register(c)

	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestAccountHandler_Register_MalformedBody(t *testing.T) {
	stub := &stubAccounts{registerFn: func(context.Context, domain.Payload) (*domain.User, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	c, _ := newContext(request{method: http.MethodPost, body: `{"nick":`})

	err := NewAccountHandler(stub).Register(c)

	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestAccountHandler_Login(t *testing.T) {
	stub := &stubAccounts{loginFn: func(_ context.Context, data domain.Payload) (*ports.AuthResult, error) {
		assert.Equal(t, "ana1", data["login"])
		return &ports.AuthResult{User: &domain.User{ID: "id1"}, Token: "tok"}, nil
	}}
	c, rec := newContext(request{method: http.MethodPost, body: `{"login":"ana1","password":"x","page":"siteA"}`})

	require.NoError(t, NewAccountHandler(stub).Login(c))

	body := decode(t, rec)
	assert.Equal(t, "tok", body["token"])
	assert.Equal(t, "login successful", body["message"])
}

func TestAccountHandler_RenewToken(t *testing.T) {
	stub := &stubAccounts{renewFn: func(_ context.Context, token string) (string, error) {
		assert.Equal(t, "abc", token)
		return "abc2", nil
	}}
	c, rec := newContext(request{method: http.MethodPost, headers: map[string]string{middleware.TokenHeader: `"abc"`}})

	require.NoError(t, NewAccountHandler(stub).RenewToken(c))

	assert.Equal(t, "abc2", decode(t, rec)["token"])
}

func TestUserHandler_Update_DefaultsToCaller(t *testing.T) {
	stub := &stubAccounts{updateFn: func(_ context.Context, id string, caller domain.Claims, data domain.Payload) (*ports.AuthResult, error) {
		assert.Equal(t, "u1", id)
		assert.Equal(t, "u1", caller.ID)
		assert.Equal(t, "Anna", data["name"])
		return &ports.AuthResult{User: &domain.User{ID: "u1", Name: "Anna"}, Token: "new"}, nil
	}}
	c, rec := newContext(request{method: http.MethodPut, body: `{"name":"Anna"}`, identity: client()})

	require.NoError(t, NewUserHandler(stub).Update(c))

	body := decode(t, rec)
	assert.Equal(t, "user updated", body["message"])
	assert.Equal(t, "new", body["token"])
}

func TestUserHandler_Update_PathIDWins(t *testing.T) {
	stub := &stubAccounts{updateFn: func(_ context.Context, id string, _ domain.Claims, data domain.Payload) (*ports.AuthResult, error) {
		assert.Equal(t, "u2", id)
		assert.NotContains(t, data, "id")
		return &ports.AuthResult{User: &domain.User{ID: id}}, nil
	}}
	c, _ := newContext(request{method: http.MethodPut, body: `{"name":"Bo"}`, params: map[string]string{"id": "u2"}, identity: admin()})

	assert.NoError(t, NewUserHandler(stub).Update(c))
}

func TestUserHandler_Update_EmptyBodyReachesService(t *testing.T) {
	stub := &stubAccounts{updateFn: func(_ context.Context, _ string, _ domain.Claims, data domain.Payload) (*ports.AuthResult, error) {
		assert.Empty(t, data)
		return nil, domain.ErrEmptyUpdate
	}}
	c, _ := newContext(request{method: http.MethodPut, identity: client()})

	assert.ErrorIs(t, NewUserHandler(stub).Update(c), domain.ErrEmptyUpdate)
}

func TestUserHandler_Update_WithoutIdentity(t *testing.T) {
	c, _ := newContext(request{method: http.MethodPut, body: `{"name":"Anna"}`})

	assert.ErrorIs(t, NewUserHandler(&stubAccounts{}).Update(c), domain.ErrMissingToken)
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubAccounts{deleteFn: func(_ context.Context, id string, caller domain.Claims) (*domain.User, error) {
		assert.Equal(t, "u2", id)
		assert.Equal(t, "a1", caller.ID)
		return &domain.User{ID: "u2"}, nil
	}}
	c, rec := newContext(request{method: http.MethodDelete, params: map[string]string{"id": "u2"}, identity: admin()})

	require.NoError(t, NewUserHandler(stub).Delete(c))

	body := decode(t, rec)
	assert.Equal(t, "user deleted", body["message"])
	assert.Equal(t, "u2", body["user"].(map[string]any)["_id"])
}

func TestUserHandler_List(t *testing.T) {
	next := "/api/v1/user/list/3"
	stub := &stubAccounts{listFn: func(_ context.Context, page string, n int) (*ports.UserList, error) {
		assert.Equal(t, "siteA", page)
		assert.Equal(t, 2, n)
		return &ports.UserList{Page: 2, TotalPages: 3, Limit: 10, TotalUsers: 25, Next: &next, Users: []*domain.User{}}, nil
	}}
	c, rec := newContext(request{method: http.MethodGet, params: map[string]string{"page": "2"}, identity: admin()})

	require.NoError(t, NewUserHandler(stub).List(c))

	body := decode(t, rec)
	assert.EqualValues(t, 3, body["total_pages"])
	assert.EqualValues(t, 25, body["total_users"])
	assert.Equal(t, next, body["next"])
	assert.NotContains(t, body, "prev")
}

func TestUserHandler_List_DefaultPage(t *testing.T) {
	stub := &stubAccounts{listFn: func(_ context.Context, _ string, n int) (*ports.UserList, error) {
		assert.Equal(t, 1, n)
		return &ports.UserList{Page: 1, TotalPages: 1}, nil
	}}
	c, _ := newContext(request{method: http.MethodGet, identity: admin()})

	assert.NoError(t, NewUserHandler(stub).List(c))
}

func TestUserHandler_List_BadPage(t *testing.T) {
	for _, page := range []string{"abc", "-1"} {
		c, _ := newContext(request{method: http.MethodGet, params: map[string]string{"page": page}, identity: admin()})

		err := NewUserHandler(&stubAccounts{}).List(c)

		assert.ErrorIs(t, err, domain.ErrInvalidPayload, "page %q", page)
	}
}

func TestUserHandler_One(t *testing.T) {
	cases := []struct {
		name     string
		id       string
		identity *domain.Claims
		wantPage string
		wantID   string
		wantErr  error
	}{
		{name: "self", identity: client(), wantPage: "siteA", wantID: "u1"},
		{name: "by id", id: "u9", identity: client(), wantPage: "siteA", wantID: "u9"},
		{name: "anonymous by id", id: "u9", wantPage: domain.RoleClient, wantID: "u9"},
		{name: "anonymous without id", wantErr: domain.ErrIdentityRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubAccounts{getFn: func(_ context.Context, page, id string) (*domain.User, error) {
				assert.Equal(t, tc.wantPage, page)
				assert.Equal(t, tc.wantID, id)
				return &domain.User{ID: id}, nil
			}}
			r := request{method: http.MethodGet, identity: tc.identity}
			if tc.id != "" {
				r.params = map[string]string{"id": tc.id}
			}
			c, rec := newContext(r)

			err := NewUserHandler(stub).One(c)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, decode(t, rec)["data"].(map[string]any)["_id"])
		})
	}
}
