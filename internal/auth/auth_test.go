package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explorer-be/internal/entities"
	"explorer-be/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func seedUser(t *testing.T) (repository.UserRepository, *entities.User) {
	t.Helper()
	users := repository.NewMemoryStore().Users()
	u, err := users.Create(context.Background(), &entities.User{
		FirstName: "Ludmila", LastName: "Bulat", Email: "ludmila@example.com", PasswordHash: "h",
	})
	require.NoError(t, err)
	return users, u
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", 0)
	token, err := svc.Generate(&entities.User{ID: "u1", Email: "a@example.com"})
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.ID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_RejectsExpiredAndForeignTokens(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.Generate(&entities.User{ID: "u1"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidCredential)

	other, err := NewTokenService("other-secret", time.Hour).Generate(&entities.User{ID: "u1"})
	require.NoError(t, err)
	_, err = svc.Parse(other)
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		ID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestTokenAuthenticator(t *testing.T) {
	users, u := seedUser(t)
	tokens := NewTokenService("secret", time.Hour)
	authn := NewTokenAuthenticator(tokens, users)

	token, err := tokens.Generate(u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/pois", nil)
	_, err = authn.Authenticate(req)
	assert.ErrorIs(t, err, ErrNoCredential)

	for _, header := range []string{"Bearer " + token, token} {
		req.Header.Set("Authorization", header)
		got, err := authn.Authenticate(req)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	}

	require.NoError(t, users.Delete(context.Background(), u.ID))
	_, err = authn.Authenticate(req)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

type failingFinder struct{}

func (failingFinder) FindByID(context.Context, string) (*entities.User, error) {
	return nil, errors.New("connection refused")
}

func TestResolveSubject_StoreFailureIsNotInvalidCredential(t *testing.T) {
	_, err := resolveSubject(context.Background(), failingFinder{}, "u1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCredential))
}

func TestSessionAuthenticator(t *testing.T) {
	users, u := seedUser(t)
	cookie := NewSessionCookie("explorer", "a-long-cookie-password", false)
	authn := NewSessionAuthenticator(cookie, users)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	require.NoError(t, cookie.Set(c, u.ID))

	issued := rec.Result().Cookies()
	require.Len(t, issued, 1)
	assert.True(t, issued[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, issued[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	_, err := authn.Authenticate(req)
	assert.ErrorIs(t, err, ErrNoCredential)

	req.AddCookie(issued[0])
	got, err := authn.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	tampered := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	tampered.AddCookie(&http.Cookie{Name: "explorer", Value: issued[0].Value + "x"})
	_, err = authn.Authenticate(tampered)
	assert.ErrorIs(t, err, ErrInvalidCredential)

	require.NoError(t, users.Delete(context.Background(), u.ID))
	_, err = authn.Authenticate(req)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestSessionCookie_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	NewSessionCookie("explorer", "pw", false).Clear(c)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc"))
	assert.Equal(t, "abc", bearerToken("abc"))
	assert.Empty(t, bearerToken("  "))
}

func TestTokenService_ExpiresAfterOneHour(t *testing.T) {
	issued := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", DefaultTokenTTL)
	svc.now = func() time.Time { return issued }
	token, err := svc.Generate(&entities.User{ID: "u1", Email: "a@example.com"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = svc.Parse(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
