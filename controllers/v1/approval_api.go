package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"docflow-backend/controllers"
	approvalhandler "docflow-backend/lib/approval"
	"docflow-backend/middleware"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	approvalapimodels "docflow-backend/models/api/approval"
)

type approvalApiController struct {
	controllers.BaseAPIController
}

func InitApprovalApiRouters(app fiber.Router) {
	controller := approvalApiController{}
	app.Route("approvals", func(router fiber.Router) {
		router.Get("my", middleware.RequirePermission(models.ApprovalsModule, models.ViewPermission), controller.my)
		router.Post(":id/approve", middleware.RequirePermission(models.ApprovalsModule, models.ResolvePermission), controller.approve)
		router.Post(":id/reject", middleware.RequirePermission(models.ApprovalsModule, models.ResolvePermission), controller.reject)
	})
}

// @Summary Мои согласования
// @Tags Согласования
// @Description Список нерешенных согласований текущего пользователя
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/my [get]
func (c *approvalApiController) my(ctx *fiber.Ctx) error {
	result, err := approvalhandler.Instance.ListMy(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка согласований")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Согласовать
// @Tags Согласования
// @Description Положительное решение по согласованию
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	approvalapimodels.ResolveData	true	"request body"
// @Param   id          		path    string  						true    "rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/{id}/approve [post]
func (c *approvalApiController) approve(ctx *fiber.Ctx) error {
	return c.resolve(ctx, models.AStateApproved, "Ошибка согласования")
}

// @Summary Отклонить
// @Tags Согласования
// @Description Отрицательное решение по согласованию
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	approvalapimodels.ResolveData	true	"request body"
// @Param   id          		path    string  						true    "rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/{id}/reject [post]
func (c *approvalApiController) reject(ctx *fiber.Ctx) error {
	return c.resolve(ctx, models.AStateRejected, "Ошибка отклонения")
}

func (c *approvalApiController) resolve(ctx *fiber.Ctx, decision models.ApprovalState, hMsg string) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ResolveData
	if len(ctx.Body()) > 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	result, err := approvalhandler.Instance.Resolve(middleware.GetActor(ctx), id, decision, payload.Comments)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
