package webserver

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// SessionClaims carries the authenticated operator identity in the
// bearer token.
type SessionClaims struct {
	UserID     int64  `json:"uid,string"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Approved   bool   `json:"approved"`
	jwt.RegisteredClaims
}

// NewToken signs session claims valid for 24 hours.
func NewToken(secret string, claims *SessionClaims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func sessionMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(SessionClaims)
		},
	})
}

// CurrentSession extracts the verified claims from the request context.
// It returns nil on public routes.
func CurrentSession(c echo.Context) *SessionClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
