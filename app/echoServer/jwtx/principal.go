// app/echoServer/jwtx/principal.go
package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Principal is the authenticated caller, extracted from the verified token.
type Principal struct {
	UserID int64
	Role   string
}

func FromContext(c echo.Context) (Principal, error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return Principal{}, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid jwt claims")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return Principal{}, errors.New("sub missing in claims")
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return Principal{}, errors.New("role missing in claims")
	}
	return Principal{UserID: int64(sub), Role: role}, nil
}
