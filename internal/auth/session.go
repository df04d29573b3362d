package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var errEmptySecret = errors.New("empty signing secret")

// SessionCookie issues and reads the signed cookie that carries a browser
// session. The value is an HS256 JWT whose subject is the user id; nothing is
// kept server-side.
type SessionCookie struct {
	Name     string
	password []byte
	Secure   bool
}

func NewSessionCookie(name, password string, secure bool) *SessionCookie {
	return &SessionCookie{Name: name, password: []byte(password), Secure: secure}
}

// Set writes the session cookie for userID.
func (s *SessionCookie) Set(c *gin.Context, userID string) error {
	value, err := s.sign(userID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, value, 0, "/", "", s.Secure, true)
	return nil
}

// Clear expires the cookie in the browser.
func (s *SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}

func (s *SessionCookie) sign(userID string) (string, error) {
	if len(s.password) == 0 {
		return "", errEmptySecret
	}
	claims := jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.password)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return value, nil
}

// userID returns the id carried by a cookie value.
func (s *SessionCookie) userID(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		return s.password, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidCredential
	}
	return claims.Subject, nil
}
