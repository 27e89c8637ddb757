package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go-storefront/internal/commerce"
	"go-storefront/internal/middleware"
	mock "go-storefront/internal/mock/commerce"
	"go-storefront/internal/pkg/bus"
	"go-storefront/internal/session"
	"go-storefront/internal/storage"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.RequestIDHeader))
	})

	t.Run("generates_an_id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), w.Body.String())
	})

	t.Run("honors_a_supplied_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
	})
}

func TestSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	blob, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	manager := session.NewManager(session.Deps{
		NewClient: func(_ *bus.Bus) commerce.Client {
			client := mock.NewMockClient(ctrl)
			client.EXPECT().GetCart(gomock.Any()).
				Return(commerce.CartSnapshot{}, commerce.ErrUpstreamUnavailable).
				AnyTimes()
			client.EXPECT().GetSession(gomock.Any()).
				Return(commerce.Session{}, commerce.ErrUpstreamUnavailable).
				AnyTimes()
			return client
		},
		Storage: blob,
	})

	r := gin.New()
	r.Use(middleware.SessionMiddleware(manager))
	r.GET("/whoami", func(c *gin.Context) {
		sess := middleware.SessionFromContext(c)
		require.NotNil(t, sess)
		c.String(http.StatusOK, sess.ID)
	})

	t.Run("mints_a_cookie_for_new_visitors", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, session.CookieName, cookies[0].Name)
		assert.Equal(t, cookies[0].Value, w.Body.String())
	})

	t.Run("reuses_the_cookie_session", func(t *testing.T) {
		first := httptest.NewRecorder()
		r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		cookie := first.Result().Cookies()[0]

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(cookie)
		second := httptest.NewRecorder()
		r.ServeHTTP(second, req)

		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Empty(t, second.Result().Cookies(), "no new cookie for a returning visitor")
	})
}
