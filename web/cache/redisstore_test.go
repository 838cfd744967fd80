package cache

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "drinkrate"

func newStoreEngine(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	store := NewRedisStore(rdb, []byte("0123456789abcdef0123456789abcdef"))
	engine.Use(sessions.Sessions(cookieName, store))
	engine.Use(func(c *gin.Context) { c.Set("store", store) })
	engine.GET("/set", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Options(sessions.Options{Path: "/", MaxAge: 600})
		s.Set("account", 3)
		require.NoError(t, s.Save())
	})
	engine.GET("/get", func(c *gin.Context) {
		v, _ := sessions.Default(c).Get("account").(int)
		c.String(http.StatusOK, strconv.Itoa(v))
	})
	engine.GET("/regenerate", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Clear()
		store := c.MustGet("store").(*RedisStore)
		require.NoError(t, store.Regenerate(c.Request, cookieName))
		s.Set("account", 4)
		require.NoError(t, s.Save())
	})
	engine.GET("/clear", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Clear()
		s.Options(sessions.Options{Path: "/", MaxAge: -1})
		require.NoError(t, s.Save())
	})
	return engine, mr
}

func request(engine *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRedisStoreRoundTrip(t *testing.T) {
	engine, mr := newStoreEngine(t)

	cookies := request(engine, "/set", nil).Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, 600, cookies[0].MaxAge)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], sessionKeyPrefix)
	assert.Equal(t, 600*time.Second, mr.TTL(keys[0]))

	assert.Equal(t, "3", request(engine, "/get", cookies).Body.String())
}

func TestRedisStoreClearDeletesRecord(t *testing.T) {
	engine, mr := newStoreEngine(t)
	cookies := request(engine, "/set", nil).Result().Cookies()

	cleared := request(engine, "/clear", cookies).Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.Empty(t, mr.Keys())

	// the old cookie no longer resolves to a session
	assert.Equal(t, "0", request(engine, "/get", cookies).Body.String())
}

func TestRedisStoreIgnoresForgedCookie(t *testing.T) {
	engine, _ := newStoreEngine(t)
	forged := []*http.Cookie{{Name: cookieName, Value: "not-a-signed-id"}}
	assert.Equal(t, "0", request(engine, "/get", forged).Body.String())
}

func TestRedisStoreExpiredRecord(t *testing.T) {
	engine, mr := newStoreEngine(t)
	cookies := request(engine, "/set", nil).Result().Cookies()

	mr.FastForward(601 * time.Second)
	assert.Equal(t, "0", request(engine, "/get", cookies).Body.String())
}

func TestRedisStoreRegenerateIssuesNewId(t *testing.T) {
	engine, mr := newStoreEngine(t)
	old := request(engine, "/set", nil).Result().Cookies()
	require.Len(t, old, 1)
	oldKeys := mr.Keys()
	require.Len(t, oldKeys, 1)

	renewed := request(engine, "/regenerate", old).Result().Cookies()
	require.Len(t, renewed, 1)
	latest := renewed[0]
	assert.NotEqual(t, old[0].Value, latest.Value)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.NotEqual(t, oldKeys[0], keys[0])

	assert.Equal(t, "0", request(engine, "/get", old).Body.String())
	assert.Equal(t, "4", request(engine, "/get", []*http.Cookie{latest}).Body.String())
}

func TestInitRedisEmbedded(t *testing.T) {
	require.NoError(t, InitRedis(""))
	t.Cleanup(func() { _ = Close() })

	assert.NotNil(t, miniRedis)
	require.NotNil(t, GetClient())
	assert.NoError(t, GetClient().Ping(t.Context()).Err())
}
