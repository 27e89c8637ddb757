package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go-storefront/internal/auth"
	"go-storefront/internal/commerce"
	mock "go-storefront/internal/mock/commerce"
	"go-storefront/internal/pkg/bus"
)

func newTestStore(t *testing.T) (*auth.Store, *mock.MockClient, *bus.Bus) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	signals := bus.New()
	return auth.NewStore(auth.Deps{Client: client, Signals: signals}), client, signals
}

func testUser() *commerce.User {
	return &commerce.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
}

func unauthorized() *commerce.APIError {
	return &commerce.APIError{Status: http.StatusUnauthorized, Message: "Not authenticated"}
}

func TestStore_Init(t *testing.T) {
	t.Run("guest when the session is unauthorized", func(t *testing.T) {
		store, client, _ := newTestStore(t)
		client.EXPECT().GetSession(gomock.Any()).Return(commerce.Session{}, unauthorized())

		store.Init(context.Background())

		assert.False(t, store.IsAuthenticated())
		assert.True(t, store.Ready())
	})

	t.Run("restores the signed-in user", func(t *testing.T) {
		store, client, _ := newTestStore(t)
		client.EXPECT().GetSession(gomock.Any()).
			Return(commerce.Session{User: testUser(), Token: "tok"}, nil)

		store.Init(context.Background())

		require.True(t, store.IsAuthenticated())
		assert.Equal(t, "ada@example.com", store.User().Email)
	})

	t.Run("treats an unreachable API as signed out", func(t *testing.T) {
		store, client, _ := newTestStore(t)
		client.EXPECT().GetSession(gomock.Any()).
			Return(commerce.Session{}, commerce.ErrUpstreamUnavailable)

		store.Init(context.Background())

		assert.False(t, store.IsAuthenticated())
		assert.True(t, store.Ready())
	})
}

func TestStore_Login(t *testing.T) {
	t.Run("success stores the user", func(t *testing.T) {
		store, client, _ := newTestStore(t)
		creds := commerce.Credentials{Email: "ada@example.com", Password: "hunter2"}
		client.EXPECT().Login(gomock.Any(), creds).
			Return(commerce.Session{User: testUser(), Token: "tok"}, nil)

		result := store.Login(context.Background(), creds)

		require.True(t, result.Success)
		assert.Equal(t, "ada@example.com", result.User.Email)
		assert.True(t, store.IsAuthenticated())
	})

	t.Run("rejection surfaces the upstream message", func(t *testing.T) {
		store, client, _ := newTestStore(t)
		client.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(commerce.Session{}, &commerce.APIError{Status: http.StatusUnauthorized, Message: "Invalid email or password"})

		result := store.Login(context.Background(), commerce.Credentials{Email: "ada@example.com", Password: "wrong"})

		assert.False(t, result.Success)
		assert.Equal(t, "Invalid email or password", result.Error)
		assert.False(t, store.IsAuthenticated())
	})
}

func TestStore_Register(t *testing.T) {
	t.Run("conflict carries the field errors", func(t *testing.T) {
		store, client, _ := newTestStore(t)
		client.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(commerce.Session{}, &commerce.APIError{
				Status:  http.StatusBadRequest,
				Message: "Email already registered",
				Errors:  map[string]string{"email": "Email already registered"},
			})

		result := store.Register(context.Background(), commerce.RegisterRequest{Email: "ada@example.com"})

		assert.False(t, result.Success)
		assert.Equal(t, "Email already registered", result.Errors["email"])
	})

	t.Run("success signs the user in", func(t *testing.T) {
		store, client, _ := newTestStore(t)
		client.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(commerce.Session{User: testUser(), Token: "tok"}, nil)

		result := store.Register(context.Background(), commerce.RegisterRequest{Email: "ada@example.com"})

		require.True(t, result.Success)
		assert.True(t, store.IsAuthenticated())
	})
}

func TestStore_Logout(t *testing.T) {
	t.Run("clears the user even when the remote call fails", func(t *testing.T) {
		store, client, _ := newTestStore(t)
		client.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(commerce.Session{User: testUser(), Token: "tok"}, nil)
		store.Login(context.Background(), commerce.Credentials{Email: "ada@example.com", Password: "hunter2"})

		client.EXPECT().Logout(gomock.Any()).Return(commerce.ErrUpstreamUnavailable)
		store.Logout(context.Background())

		assert.False(t, store.IsAuthenticated())
	})
}

func TestStore_SessionExpiredSignal(t *testing.T) {
	store, client, signals := newTestStore(t)
	client.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(commerce.Session{User: testUser(), Token: "tok"}, nil)
	store.Login(context.Background(), commerce.Credentials{Email: "ada@example.com", Password: "hunter2"})
	require.True(t, store.IsAuthenticated())

	signals.Publish(bus.TopicSessionExpired)

	assert.False(t, store.IsAuthenticated())
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestStore_SignOutIfExpired(t *testing.T) {
	login := func(t *testing.T, exp time.Time) *auth.Store {
		t.Helper()
		store, client, _ := newTestStore(t)
		client.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(commerce.Session{
				User:  testUser(),
				Token: signToken(t, jwt.MapClaims{"exp": exp.Unix()}),
			}, nil)
		store.Login(context.Background(), commerce.Credentials{Email: "ada@example.com", Password: "hunter2"})
		return store
	}

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("stale token signs the visitor out locally", func(t *testing.T) {
		store := login(t, now.Add(-time.Hour))

		assert.True(t, store.SignOutIfExpired(now))
		assert.False(t, store.IsAuthenticated())
	})

	t.Run("fresh token is kept", func(t *testing.T) {
		store := login(t, now.Add(time.Hour))

		assert.False(t, store.SignOutIfExpired(now))
		assert.True(t, store.IsAuthenticated())
	})

	t.Run("guest is a no-op", func(t *testing.T) {
		store, _, _ := newTestStore(t)
		assert.False(t, store.SignOutIfExpired(now))
	})
}

func TestStore_Init_SkipsRemoteForStaleToken(t *testing.T) {
	store, client, _ := newTestStore(t)
	client.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(commerce.Session{
			User:  testUser(),
			Token: signToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()}),
		}, nil)
	store.Login(context.Background(), commerce.Credentials{Email: "ada@example.com", Password: "hunter2"})

	// No GetSession expectation: a plainly stale token never hits the API.
	store.Init(context.Background())

	assert.False(t, store.IsAuthenticated())
	assert.True(t, store.Ready())
}

func TestTokenExpired(t *testing.T) {
	sign := signToken

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty token", func(t *testing.T) {
		assert.True(t, auth.TokenExpired("", now))
	})

	t.Run("malformed token", func(t *testing.T) {
		assert.True(t, auth.TokenExpired("not.a.jwt", now))
	})

	t.Run("no exp claim survives", func(t *testing.T) {
		token := sign(t, jwt.MapClaims{"sub": "ada@example.com"})
		assert.False(t, auth.TokenExpired(token, now))
	})

	t.Run("past exp", func(t *testing.T) {
		token := sign(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()})
		assert.True(t, auth.TokenExpired(token, now))
	})

	t.Run("future exp", func(t *testing.T) {
		token := sign(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
		assert.False(t, auth.TokenExpired(token, now))
	})
}
