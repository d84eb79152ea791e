package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"assetdesk/internal/common"
)

// SessionClaims is the token payload issued by the backend's auth service.
type SessionClaims struct {
	UserID uuid.UUID `json:"uid"`
	Name   string    `json:"name"`
	Email  string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (c *SessionClaims) Session() common.Session {
	return common.Session{UserID: c.UserID, Name: c.Name, Email: c.Email}
}

// JWTConfig validates HS256 tokens and stores the resulting common.Session
// in the request context.
func JWTConfig(secret string) echojwt.Config {
	return echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(SessionClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*SessionClaims)
			if !ok || claims.UserID == uuid.Nil {
				return
			}
			ctx := common.WithSession(c.Request().Context(), claims.Session())
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.SendUnauthorizedError(c)
		},
	}
}

// RequireSession rejects requests whose token carried no user id.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := common.SessionFromContext(c.Request().Context()); !ok {
				return common.SendUnauthorizedError(c)
			}
			return next(c)
		}
	}
}

// IssueToken signs a session token. It is used by the CLI and tests; the
// dashboard backend issues production tokens.
func IssueToken(secret string, session common.Session, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := &SessionClaims{
		UserID: session.UserID,
		Name:   session.Name,
		Email:  session.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
