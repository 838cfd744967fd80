package controller

import (
	"net/http"

	"github.com/drinkrate/drinkrate/logger"
	"github.com/drinkrate/drinkrate/web/entity"
	"github.com/drinkrate/drinkrate/web/locale"
	"github.com/drinkrate/drinkrate/web/service"
	"github.com/drinkrate/drinkrate/web/session"

	"github.com/gin-gonic/gin"
)

// IndexController serves the landing routes and the account endpoints.
type IndexController struct {
	BaseController

	accountService service.AccountService
	settingService service.SettingService

	frontend []byte
}

// NewIndexController registers the routes on g. frontend is the HTML client
// served at /frontend.
func NewIndexController(g *gin.RouterGroup, frontend []byte) *IndexController {
	a := &IndexController{frontend: frontend}
	a.accounts = &a.accountService
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/frontend", a.frontendPage)
	g.GET("/health", a.health)

	g.POST("/register", a.register)
	g.POST("/login", a.login)
	g.GET("/logout", a.logout)
	g.POST("/logout", a.logout)
}

func (a *IndexController) index(c *gin.Context) {
	c.String(http.StatusOK, locale.I18n(c, "greeting"))
}

func (a *IndexController) frontendPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", a.frontend)
}

func (a *IndexController) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (a *IndexController) register(c *gin.Context) {
	var form entity.CredentialsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonMsg(c, http.StatusBadRequest, "register.invalid")
		return
	}

	id, err := a.accountService.Register(form.Username, form.Password)
	if err != nil {
		jsonError(c, err, errorMessages{
			service.ErrInvalidInput: "register.invalid",
			service.ErrConflict:     "register.duplicate",
		})
		return
	}

	logger.Infof("[%s] account %q registered with id %d", requestId(c), form.Username, id)
	c.JSON(http.StatusCreated, entity.RegisterResult{
		Message: locale.I18n(c, "register.success"),
		Id:      id,
	})
}

func (a *IndexController) login(c *gin.Context) {
	var form entity.CredentialsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonMsg(c, http.StatusBadRequest, "login.malformed")
		return
	}

	account := a.accountService.Verify(form.Username, form.Password)
	if account == nil {
		logger.Warningf("[%s] failed login for %q", requestId(c), form.Username)
		jsonMsg(c, http.StatusUnauthorized, "login.invalid")
		return
	}

	sessionMaxAge, err := a.settingService.GetSessionMaxAge()
	if err != nil {
		logger.Warning("Unable to get session's max age from DB")
		sessionMaxAge = 60
	}
	session.SetMaxAge(c, sessionMaxAge*60)
	if err := session.SetLoginAccount(c, account.Id); err != nil {
		jsonError(c, err, nil)
		return
	}

	logger.Infof("[%s] %s logged in successfully", requestId(c), account.Username)
	c.JSON(http.StatusOK, entity.LoginResult{
		Message:  locale.I18n(c, "login.success"),
		Redirect: c.GetString("base_path") + "frontend",
	})
}

// logout is idempotent: anonymous callers get the same answer.
func (a *IndexController) logout(c *gin.Context) {
	if id, ok := session.GetLoginAccountId(c); ok {
		logger.Infof("[%s] account %d logged out", requestId(c), id)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to save session after clearing:", err)
	}
	jsonMsg(c, http.StatusOK, "logout.success")
}
