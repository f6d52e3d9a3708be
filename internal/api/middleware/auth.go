package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// PrincipalResolver re-resolves a token subject against current account
// state, so revoked or still-unapproved accounts lose access as soon as the
// database says so, not when the token expires.
type PrincipalResolver interface {
	ResolveUser(ctx context.Context, id string) (*domain.User, error)
	ResolveAdmin(ctx context.Context, id string) (*domain.Admin, error)
}

// Auth validates the JWT, re-resolves the principal and injects claims into
// context under "user_id", "email" and "role".
func Auth(jwtSecret string, principals PrincipalResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims["sub"].(string)
			role, _ := claims["role"].(string)
			if sub == "" || role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			if err := checkPrincipal(c.Request().Context(), principals, sub, role); err != nil {
				return err
			}

			c.Set("user_id", sub)
			c.Set("email", claims["email"])
			c.Set("role", role)

			return next(c)
		}
	}
}

func checkPrincipal(ctx context.Context, principals PrincipalResolver, id, role string) error {
	switch role {
	case domain.RoleAdmin:
		admin, err := principals.ResolveAdmin(ctx, id)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
		}
		if !admin.IsEmailVerified {
			return domain.ErrEmailNotVerified
		}
	case domain.RoleUser:
		user, err := principals.ResolveUser(ctx, id)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
		}
		if !user.IsEmailVerified {
			return domain.ErrEmailNotVerified
		}
		switch user.Status {
		case domain.UserPending:
			return domain.ErrAccountNotApproved
		case domain.UserRejected:
			return domain.ErrAccountRejected
		}
	default:
		return echo.NewHTTPError(http.StatusUnauthorized, "unknown role")
	}
	return nil
}
