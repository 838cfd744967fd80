// Package session keeps the authenticated account id in the gin session.
package session

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "drinkrate"

	loginAccountId = "LOGIN_ACCOUNT_ID"
	storeKey       = "session_store"
)

// Regenerator is implemented by stores that keep session data server side
// and can issue a new session id.
type Regenerator interface {
	Regenerate(r *http.Request, name string) error
}

// Store makes the session store available to SetLoginAccount.
func Store(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(storeKey, store)
		c.Next()
	}
}

// SetLoginAccount marks the session as authenticated for accountId. Values
// from before login are dropped and a server side session gets a new id.
func SetLoginAccount(c *gin.Context, accountId int) error {
	s := sessions.Default(c)
	s.Clear()
	if v, ok := c.Get(storeKey); ok {
		if r, ok := v.(Regenerator); ok {
			if err := r.Regenerate(c.Request, CookieName); err != nil {
				return err
			}
		}
	}
	s.Set(loginAccountId, accountId)
	return s.Save()
}

// SetMaxAge sets the cookie lifetime in seconds. It takes effect on the next
// save of the session.
func SetMaxAge(c *gin.Context, maxAge int) {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     cookiePath(c),
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetLoginAccountId returns the account id of an authenticated session.
func GetLoginAccountId(c *gin.Context) (int, bool) {
	s := sessions.Default(c)
	if obj := s.Get(loginAccountId); obj != nil {
		if id, ok := obj.(int); ok {
			return id, true
		}
	}
	return 0, false
}

// ClearSession drops all session values and expires the cookie.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:     cookiePath(c),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return s.Save()
}

func cookiePath(c *gin.Context) string {
	if p := c.GetString("base_path"); p != "" {
		return p
	}
	return "/"
}
