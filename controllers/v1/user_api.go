package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"docflow-backend/controllers"
	"docflow-backend/lib/rbac"
	usershandler "docflow-backend/lib/users"
	"docflow-backend/middleware"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	usersapimodels "docflow-backend/models/api/users"
)

type userApiController struct {
	controllers.BaseAPIController
}

func InitUserApiRouters(app fiber.Router) {
	controller := userApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Post("", middleware.RequirePermission(models.UsersModule, models.CreatePermission), controller.create)
		router.Post("find", middleware.RequirePermission(models.UsersModule, models.ViewPermission), controller.find)
		router.Get("permissions", controller.permissions)
		router.Get(":id", middleware.RequirePermission(models.UsersModule, models.ViewPermission), controller.get)
	})
}

// @Summary Создание пользователя
// @Tags Пользователи
// @Description Создание пользователя
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	usersapimodels.CreateUserData	true	"request body"
// @Success 200 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *userApiController) create(ctx *fiber.Ctx) error {
	var payload usersapimodels.CreateUserData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := usershandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Список пользователей
// @Tags Пользователи
// @Description Список пользователей
// @Param   Authorization		header	string					true	"Authorization token"
// @Param	body 				body	apimodels.Pagination	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/find [post]
func (c *userApiController) find(ctx *fiber.Ctx) error {
	var payload apimodels.Pagination
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := usershandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка пользователей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Полномочия текущего пользователя
// @Tags Пользователи
// @Description Полномочия текущего пользователя
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/permissions [get]
func (c *userApiController) permissions(ctx *fiber.Ctx) error {
	result := rbac.Instance.GetPermissions(middleware.GetActorRole(ctx))
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Получение пользователя
// @Tags Пользователи
// @Description Получение пользователя
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [get]
func (c *userApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := usershandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
