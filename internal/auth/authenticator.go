// Package auth resolves request identity for the browser (signed session
// cookie) and the API (bearer token). Both variants revalidate the subject
// against the user store on every request, so deleting an account revokes
// every outstanding cookie and token for it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"explorer-be/internal/entities"
	"explorer-be/internal/repository"
)

var (
	// ErrNoCredential means the request carried no cookie or token.
	ErrNoCredential = errors.New("no credential presented")
	// ErrInvalidCredential covers bad signatures, expiry and deleted subjects.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Authenticator resolves the user behind a request.
//
// It returns ErrNoCredential when nothing was presented, an error wrapping
// ErrInvalidCredential when the credential was rejected, and any other error
// when the user store could not be reached.
type Authenticator interface {
	Authenticate(r *http.Request) (*entities.User, error)
}

// UserFinder is the part of the user store the authenticators need.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*entities.User, error)
}

// resolveSubject is the existence check shared by both variants.
func resolveSubject(ctx context.Context, users UserFinder, id string) (*entities.User, error) {
	user, err := users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: subject %q no longer exists", ErrInvalidCredential, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subject: %w", err)
	}
	return user, nil
}

type SessionAuthenticator struct {
	cookie *SessionCookie
	users  UserFinder
}

func NewSessionAuthenticator(cookie *SessionCookie, users UserFinder) *SessionAuthenticator {
	return &SessionAuthenticator{cookie: cookie, users: users}
}

func (a *SessionAuthenticator) Authenticate(r *http.Request) (*entities.User, error) {
	c, err := r.Cookie(a.cookie.Name)
	if err != nil || c.Value == "" {
		return nil, ErrNoCredential
	}
	id, err := a.cookie.userID(c.Value)
	if err != nil {
		return nil, err
	}
	return resolveSubject(r.Context(), a.users, id)
}

type TokenAuthenticator struct {
	tokens *TokenService
	users  UserFinder
}

func NewTokenAuthenticator(tokens *TokenService, users UserFinder) *TokenAuthenticator {
	return &TokenAuthenticator{tokens: tokens, users: users}
}

func (a *TokenAuthenticator) Authenticate(r *http.Request) (*entities.User, error) {
	raw := bearerToken(r.Header.Get("Authorization"))
	if raw == "" {
		return nil, ErrNoCredential
	}
	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	return resolveSubject(r.Context(), a.users, claims.ID)
}

// bearerToken accepts both "Bearer <token>" and a bare token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
