package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"docflow-backend/controllers"
	audithandler "docflow-backend/lib/audit"
	policyhandler "docflow-backend/lib/policy"
	"docflow-backend/middleware"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
)

type activityApiController struct {
	controllers.BaseAPIController
}

func InitActivityApiRouters(app fiber.Router) {
	controller := activityApiController{}
	app.Route("activity", func(router fiber.Router) {
		router.Post("my", middleware.RequirePermission(models.ActivityModule, models.ViewPermission), controller.my)
		router.Post("user/:id", middleware.RequirePermission(models.ActivityModule, models.ViewPermission), controller.byUser)
	})
	app.Route("acceptances", func(router fiber.Router) {
		router.Get("my", middleware.RequirePermission(models.PoliciesModule, models.ViewPermission), controller.myAcceptances)
	})
}

// @Summary Мои действия
// @Tags Журнал аудита
// @Description Журнал действий текущего пользователя
// @Param   Authorization		header	string					true	"Authorization token"
// @Param	body 				body	apimodels.Pagination	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]activityapimodels.ActivityView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/activity/my [post]
func (c *activityApiController) my(ctx *fiber.Ctx) error {
	var payload apimodels.Pagination
	if len(ctx.Body()) > 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	result, err := audithandler.Instance.ListByUser(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала действий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Действия пользователя
// @Tags Журнал аудита
// @Description Журнал действий пользователя
// @Param   Authorization		header	string					true	"Authorization token"
// @Param	body 				body	apimodels.Pagination	true	"request body"
// @Param   id          		path    string  				true    "user ID"
// @Success 200 {object} apimodels.Response{data=[]activityapimodels.ActivityView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/activity/user/{id} [post]
func (c *activityApiController) byUser(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload apimodels.Pagination
	if len(ctx.Body()) > 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	result, err := audithandler.Instance.ListByUser(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала действий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Мои ознакомления
// @Tags Журнал аудита
// @Description Список ознакомлений текущего пользователя
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]policyapimodels.AcceptanceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/acceptances/my [get]
func (c *activityApiController) myAcceptances(ctx *fiber.Ctx) error {
	result, err := policyhandler.Instance.ListMy(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка ознакомлений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
