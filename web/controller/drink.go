package controller

import (
	"net/http"
	"strconv"

	"github.com/drinkrate/drinkrate/database/model"
	"github.com/drinkrate/drinkrate/web/entity"
	"github.com/drinkrate/drinkrate/web/locale"
	"github.com/drinkrate/drinkrate/web/service"

	"github.com/gin-gonic/gin"
)

var drinkErrors = errorMessages{
	service.ErrInvalidInput: "drink.noData",
	service.ErrConflict:     "drink.duplicate",
	service.ErrNotFound:     "drink.notFound",
}

// DrinkController exposes the drinks of the logged in account.
type DrinkController struct {
	BaseController

	drinkService service.DrinkService
}

func NewDrinkController(g *gin.RouterGroup, accounts AccountResolver) *DrinkController {
	a := &DrinkController{}
	a.accounts = accounts
	a.initRouter(g)
	return a
}

func (a *DrinkController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/drinks")
	g.Use(a.checkLogin)

	g.GET("", a.list)
	g.POST("", a.create)
	g.GET("/:id", a.get)
	g.PUT("/:id", a.update)
	g.DELETE("/:id", a.delete)
}

// drinkId parses the :id parameter. A malformed id cannot name a drink, so
// it is answered like a missing one.
func drinkId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, http.StatusNotFound, "drink.notFound")
		return 0, false
	}
	return id, true
}

func toView(d model.Drink) entity.DrinkView {
	return entity.DrinkView{
		Id:          d.Id,
		Name:        d.Name,
		Price:       d.Price,
		Rating:      d.Rating,
		Description: d.Description,
	}
}

func (a *DrinkController) list(c *gin.Context) {
	drinks, err := a.drinkService.List(currentAccountId(c))
	if err != nil {
		jsonError(c, err, drinkErrors)
		return
	}
	views := make([]entity.DrinkView, 0, len(drinks))
	for _, d := range drinks {
		views = append(views, toView(d))
	}
	c.JSON(http.StatusOK, entity.DrinkList{Drinks: views})
}

func (a *DrinkController) get(c *gin.Context) {
	id, ok := drinkId(c)
	if !ok {
		return
	}
	drink, err := a.drinkService.Get(currentAccountId(c), id)
	if err != nil {
		jsonError(c, err, drinkErrors)
		return
	}
	c.JSON(http.StatusOK, entity.DrinkDetail{
		Name:        drink.Name,
		Price:       drink.Price,
		Rating:      drink.Rating,
		Description: drink.Description,
	})
}

func (a *DrinkController) create(c *gin.Context) {
	var form entity.DrinkForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonMsg(c, http.StatusBadRequest, "drink.noData")
		return
	}
	id, err := a.drinkService.Create(currentAccountId(c), form)
	if err != nil {
		jsonError(c, err, drinkErrors)
		return
	}
	c.JSON(http.StatusCreated, entity.CreatedDrink{
		Id:      id,
		Message: locale.I18n(c, "drink.created"),
	})
}

func (a *DrinkController) update(c *gin.Context) {
	id, ok := drinkId(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		jsonMsg(c, http.StatusBadRequest, "drink.invalid")
		return
	}
	patch, err := entity.ParseDrinkPatch(body)
	if err != nil {
		jsonMsg(c, http.StatusBadRequest, "drink.invalid")
		return
	}
	if err := a.drinkService.Update(currentAccountId(c), id, patch); err != nil {
		jsonError(c, err, drinkErrors)
		return
	}
	jsonMsg(c, http.StatusOK, "drink.updated")
}

func (a *DrinkController) delete(c *gin.Context) {
	id, ok := drinkId(c)
	if !ok {
		return
	}
	if err := a.drinkService.Delete(currentAccountId(c), id); err != nil {
		jsonError(c, err, drinkErrors)
		return
	}
	jsonMsg(c, http.StatusOK, "drink.deleted")
}
