package session

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	cookie.Store
	regenerated int
}

func (s *countingStore) Regenerate(*http.Request, string) error {
	s.regenerated++
	return nil
}

func newEngine() *gin.Engine {
	engine, _ := newCountingEngine()
	return engine
}

func newCountingEngine() (*gin.Engine, *countingStore) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	store := &countingStore{Store: cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))}
	engine.Use(sessions.Sessions(CookieName, store))
	engine.Use(Store(store))
	engine.GET("/visit", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set("theme", "dark")
		_ = s.Save()
	})
	engine.GET("/theme", func(c *gin.Context) {
		theme, _ := sessions.Default(c).Get("theme").(string)
		c.String(http.StatusOK, theme)
	})
	engine.GET("/login", func(c *gin.Context) {
		SetMaxAge(c, 3600)
		_ = SetLoginAccount(c, 7)
		c.Status(http.StatusOK)
	})
	engine.GET("/whoami", func(c *gin.Context) {
		id, ok := GetLoginAccountId(c)
		if !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.String(http.StatusOK, strconv.Itoa(id))
	})
	engine.GET("/logout", func(c *gin.Context) {
		_ = ClearSession(c)
		c.Status(http.StatusOK)
	})
	return engine, store
}

func do(engine *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestLoginRoundTrip(t *testing.T) {
	engine := newEngine()

	assert.Equal(t, http.StatusUnauthorized, do(engine, "/whoami", nil).Code)

	login := do(engine, "/login", nil)
	cookies := login.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)

	w := do(engine, "/whoami", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Body.String())
}

func TestClearSessionExpiresCookie(t *testing.T) {
	engine := newEngine()
	cookies := do(engine, "/login", nil).Result().Cookies()

	logout := do(engine, "/logout", cookies)
	expired := logout.Result().Cookies()
	require.NotEmpty(t, expired)
	assert.Negative(t, expired[0].MaxAge)

	assert.Equal(t, http.StatusUnauthorized, do(engine, "/whoami", expired).Code)
}

func TestLoginStartsNewSession(t *testing.T) {
	engine, store := newCountingEngine()
	visit := do(engine, "/visit", nil).Result().Cookies()
	assert.Equal(t, "dark", do(engine, "/theme", visit).Body.String())

	login := do(engine, "/login", visit).Result().Cookies()
	require.Len(t, login, 1)
	assert.Equal(t, 1, store.regenerated)
	assert.Empty(t, do(engine, "/theme", login).Body.String())
	assert.Equal(t, "7", do(engine, "/whoami", login).Body.String())
}
