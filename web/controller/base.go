// Package controller maps HTTP requests onto the account and drink services.
package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/drinkrate/drinkrate/database/model"
	"github.com/drinkrate/drinkrate/logger"
	"github.com/drinkrate/drinkrate/web/service"
	"github.com/drinkrate/drinkrate/web/session"

	"github.com/gin-gonic/gin"
)

// accountIdKey holds the authenticated account id on the gin context.
const accountIdKey = "account_id"

// AccountResolver confirms that a session's account still exists.
type AccountResolver interface {
	GetAccount(id int) (*model.Account, error)
}

// BaseController provides the authentication check shared by all controllers.
type BaseController struct {
	accounts AccountResolver
}

// checkLogin lets the request through only for a session whose account
// exists. Browsers are redirected to the registration form, API callers get 401.
func (a *BaseController) checkLogin(c *gin.Context) {
	if id, ok := session.GetLoginAccountId(c); ok {
		_, err := a.accounts.GetAccount(id)
		if err == nil {
			c.Set(accountIdKey, id)
			c.Next()
			return
		}
		if !errors.Is(err, service.ErrNotFound) {
			jsonError(c, err, nil)
			c.Abort()
			return
		}
		logger.Warningf("[%s] session refers to missing account %d", requestId(c), id)
		_ = session.ClearSession(c)
	}

	if wantsHTML(c) {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path")+"frontend#register")
	} else {
		jsonError(c, fmt.Errorf("%w: %s %s", service.ErrUnauthenticated, c.Request.Method, c.Request.URL.Path), nil)
	}
	c.Abort()
}

// currentAccountId returns the id stored by checkLogin.
func currentAccountId(c *gin.Context) int {
	return c.GetInt(accountIdKey)
}

// isAjax checks if the request is an AJAX request.
func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

func wantsHTML(c *gin.Context) bool {
	return !isAjax(c) && strings.Contains(c.GetHeader("Accept"), "text/html")
}
