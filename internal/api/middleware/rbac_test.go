package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pagescope/user-service/internal/core/domain"
)

func runRBAC(t *testing.T, identity *domain.Claims, roles ...string) (bool, error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if identity != nil {
		SetIdentity(c, *identity)
	}

	called := false
	err := RBAC(roles...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return called, err
}

func TestRBAC_Allows(t *testing.T) {
	called, err := runRBAC(t, &domain.Claims{ID: "a1", Role: domain.RoleAdmin}, domain.RoleAdmin, domain.RoleClient)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRBAC_Forbids(t *testing.T) {
	called, err := runRBAC(t, &domain.Claims{ID: "u1", Role: domain.RoleClient}, domain.RoleAdmin)
	if called {
		t.Fatalf("next handler should not be called")
	}
	if !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}
}

func TestRBAC_NoIdentity(t *testing.T) {
	_, err := runRBAC(t, nil, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestRBAC_OpenRoleSets(t *testing.T) {
	if called, err := runRBAC(t, nil); err != nil || !called {
		t.Fatalf("empty role set should admit anyone: %v", err)
	}
	if called, err := runRBAC(t, &domain.Claims{Role: "role_guest"}, domain.RoleAdmin, domain.RoleOptional); err != nil || !called {
		t.Fatalf("optional role set should admit any role: %v", err)
	}
}
