package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"explorer-be/internal/auth"
	"explorer-be/internal/entities"
	"explorer-be/internal/logging"
	"explorer-be/internal/models"
)

const userKey = "user"

// CurrentUser returns the user resolved by one of the auth middlewares.
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok && user != nil
}

// resolve runs the authenticator and stores the user on success. Credential
// failures are only logged at debug level.
func resolve(c *gin.Context, a auth.Authenticator) error {
	user, err := a.Authenticate(c.Request)
	if err == nil {
		c.Set(userKey, user)
		return nil
	}

	log := logging.Ctx(c.Request.Context())
	switch {
	case errors.Is(err, auth.ErrNoCredential):
	case errors.Is(err, auth.ErrInvalidCredential):
		log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("credential rejected")
	default:
		log.Error().Err(err).Msg("authentication lookup failed")
	}
	return err
}

// RequireToken rejects requests without a valid bearer token with 401.
func RequireToken(a auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := resolve(c, a)
		if err == nil {
			c.Next()
			return
		}
		if errors.Is(err, auth.ErrNoCredential) || errors.Is(err, auth.ErrInvalidCredential) {
			message := "Missing authentication"
			if errors.Is(err, auth.ErrInvalidCredential) {
				message = "Invalid credentials"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Unauthorized",
				Message: message,
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "An internal server error occurred",
		})
	}
}

func optional(a auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = resolve(c, a)
		c.Next()
	}
}

// OptionalToken proceeds anonymously when the token is absent or invalid.
func OptionalToken(a auth.Authenticator) gin.HandlerFunc {
	return optional(a)
}

// RequireSession redirects anonymous browsers to the login page.
func RequireSession(a auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := resolve(c, a); err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// TrySession resolves the session when present and never blocks.
func TrySession(a auth.Authenticator) gin.HandlerFunc {
	return optional(a)
}
