package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) (Service, *MockUserService) {
	t.Helper()
	hash, err := user.HashPassword("secret1")
	require.NoError(t, err)

	users := NewMockUserService(user.User{
		ID:           "user-1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
	})
	log, _ := test.NewNullLogger()
	return NewAuthService(users, NewJWTManager(testSecret, time.Hour), log), users
}

func TestLogin_TokenResolvesToSameUser(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	loggedIn, token, err := svc.Login(ctx, "Alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", loggedIn.ID)
	assert.NotEmpty(t, token)

	userID, err := svc.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, _, err := svc.Login(context.Background(), "bob@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_StoreFailure(t *testing.T) {
	svc, users := newTestAuthService(t)
	users.shouldFail = true

	_, _, err := svc.Login(context.Background(), "alice@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInternalError)
}

func TestResolveToken_SubjectNoLongerExists(t *testing.T) {
	svc, users := newTestAuthService(t)
	ctx := context.Background()

	_, token, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	delete(users.users, "alice@example.com")

	_, err = svc.ResolveToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTAccessTokenMiddleware(t *testing.T) {
	svc, _ := newTestAuthService(t)
	_, token, err := svc.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	var seenUserID string
	protected := svc.JWTAccessTokenMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", token, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"bad token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protected.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, "user-1", seenUserID)
			} else {
				assert.Empty(t, seenUserID)
			}
		})
	}
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	userID, ok := UserIDFromContext(ContextWithUserID(context.Background(), "user-9"))
	assert.True(t, ok)
	assert.Equal(t, "user-9", userID)
}
