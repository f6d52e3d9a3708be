package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-system/internal/core/domain"
)

type stubPrincipals struct {
	users  map[string]*domain.User
	admins map[string]*domain.Admin
}

func (s *stubPrincipals) ResolveUser(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *stubPrincipals) ResolveAdmin(_ context.Context, id string) (*domain.Admin, error) {
	a, ok := s.admins[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return a, nil
}

func signToken(t *testing.T, secret, sub, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": sub + "@example.com",
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func approvedPrincipals() *stubPrincipals {
	return &stubPrincipals{
		users: map[string]*domain.User{
			"u1": {ID: "u1", Status: domain.UserApproved, IsEmailVerified: true},
		},
		admins: map[string]*domain.Admin{
			"a1": {ID: "a1", IsEmailVerified: true},
		},
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "u1", domain.RoleUser))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth("secret", approvedPrincipals())
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != "u1" {
			t.Fatalf("user_id not set")
		}
		if c.Get("role") != domain.RoleUser {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret", approvedPrincipals())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()

	for _, header := range []string{
		"Token abc",
		"Bearer not-a-token",
		"Bearer " + signToken(t, "wrong-secret", "u1", domain.RoleUser),
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		mw := Auth("secret", approvedPrincipals())
		handler := mw(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})

		err := handler(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %v", header, err)
		}
	}
}

func TestAuthMiddleware_DeletedPrincipal(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "gone", domain.RoleUser))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret", approvedPrincipals())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted account, got %v", err)
	}
}

func TestAuthMiddleware_AccountGates(t *testing.T) {
	e := echo.New()
	principals := &stubPrincipals{
		users: map[string]*domain.User{
			"unverified": {ID: "unverified", Status: domain.UserApproved, IsEmailVerified: false},
			"pending":    {ID: "pending", Status: domain.UserPending, IsEmailVerified: true},
			"rejected":   {ID: "rejected", Status: domain.UserRejected, IsEmailVerified: true},
		},
		admins: map[string]*domain.Admin{},
	}

	cases := []struct {
		sub  string
		want error
	}{
		{"unverified", domain.ErrEmailNotVerified},
		{"pending", domain.ErrAccountNotApproved},
		{"rejected", domain.ErrAccountRejected},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", tc.sub, domain.RoleUser))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		mw := Auth("secret", principals)
		handler := mw(func(c echo.Context) error {
			t.Fatalf("%s: should not reach next", tc.sub)
			return nil
		})

		if err := handler(c); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.sub, tc.want, err)
		}
	}
}
