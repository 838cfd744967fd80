package controller

import (
	"errors"
	"net/http"

	"github.com/drinkrate/drinkrate/logger"
	"github.com/drinkrate/drinkrate/web/entity"
	"github.com/drinkrate/drinkrate/web/locale"
	"github.com/drinkrate/drinkrate/web/middleware"
	"github.com/drinkrate/drinkrate/web/service"

	"github.com/gin-gonic/gin"
)

// errorMessages overrides the message key used for an error class.
type errorMessages map[error]string

var errorClasses = []struct {
	err    error
	status int
	key    string
}{
	{service.ErrInvalidInput, http.StatusBadRequest, "request.invalid"},
	{service.ErrUnauthenticated, http.StatusUnauthorized, "auth.required"},
	{service.ErrNotFound, http.StatusNotFound, "drink.notFound"},
	{service.ErrConflict, http.StatusBadRequest, "request.invalid"},
}

// classify returns the status code and default message key for err. Errors
// outside the known classes are store faults.
func classify(err error) (error, int, string) {
	for _, class := range errorClasses {
		if errors.Is(err, class.err) {
			return class.err, class.status, class.key
		}
	}
	return nil, http.StatusInternalServerError, "request.internal"
}

// jsonError logs err and answers with the matching status and message.
func jsonError(c *gin.Context, err error, messages errorMessages) {
	class, status, key := classify(err)
	if k, ok := messages[class]; ok && class != nil {
		key = k
	}
	if status >= http.StatusInternalServerError {
		logger.Errorf("[%s] %s %s: %v", requestId(c), c.Request.Method, c.Request.URL.Path, err)
	} else {
		logger.Warningf("[%s] %s %s: %v", requestId(c), c.Request.Method, c.Request.URL.Path, err)
	}
	jsonMsg(c, status, key)
}

// jsonMsg sends {"message": ...} with the localized text of key.
func jsonMsg(c *gin.Context, status int, key string) {
	c.JSON(status, entity.Msg{Message: locale.I18n(c, key)})
}

func requestId(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}
