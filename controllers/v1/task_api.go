package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"docflow-backend/controllers"
	audithandler "docflow-backend/lib/audit"
	taskhandler "docflow-backend/lib/task"
	"docflow-backend/middleware"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	taskapimodels "docflow-backend/models/api/task"
)

type taskApiController struct {
	controllers.BaseAPIController
}

func InitTaskApiRouters(app fiber.Router) {
	controller := taskApiController{}
	app.Route("tasks", func(router fiber.Router) {
		router.Post("", middleware.RequirePermission(models.TasksModule, models.CreatePermission), controller.create)
		router.Post("find", middleware.RequirePermission(models.TasksModule, models.ViewPermission), controller.find)
		router.Post("export/xlsx", middleware.RequirePermission(models.ExportModule, models.ExportPermission), controller.exportXlsx)
		router.Get(":id", middleware.RequirePermission(models.TasksModule, models.ViewPermission), controller.get)
		router.Post(":id/transition", middleware.RequirePermission(models.TasksModule, models.FlowPermission), controller.transition)
		router.Post(":id/review", middleware.RequirePermission(models.TasksModule, models.FlowPermission), controller.requestReview)
		router.Get(":id/activity", middleware.RequirePermission(models.ActivityModule, models.ViewPermission), controller.activity)
	})
}

// @Summary Создание задачи
// @Tags Задачи
// @Description Создание задачи
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	taskapimodels.TaskCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=taskapimodels.TaskView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/tasks [post]
func (c *taskApiController) create(ctx *fiber.Ctx) error {
	var payload taskapimodels.TaskCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := taskhandler.Instance.Create(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Список задач
// @Tags Задачи
// @Description Список задач с фильтром
// @Param   Authorization		header	string						true	"Authorization token"
// @Param	body 				body	taskapimodels.TaskFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]taskapimodels.TaskView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/tasks/find [post]
func (c *taskApiController) find(ctx *fiber.Ctx) error {
	var payload taskapimodels.TaskFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := taskhandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка задач")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Выгрузка реестра задач
// @Tags Задачи
// @Description Выгрузка реестра задач в xlsx
// @Param   Authorization		header	string						true	"Authorization token"
// @Param	body 				body	taskapimodels.TaskFilter	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/tasks/export/xlsx [post]
func (c *taskApiController) exportXlsx(ctx *fiber.Ctx) error {
	var payload taskapimodels.TaskFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buf, err := taskhandler.Instance.ExportXls(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки реестра задач")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="tasks.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Получение задачи
// @Tags Задачи
// @Description Получение задачи
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=taskapimodels.TaskView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/tasks/{id} [get]
func (c *taskApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := taskhandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Смена статуса задачи
// @Tags Задачи
// @Description Перевод задачи по машине состояний
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body 				body	taskapimodels.TaskTransitionData	true	"request body"
// @Param   id          		path    string  							true    "rec ID"
// @Success 200 {object} apimodels.Response{data=taskapimodels.TaskView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/tasks/{id}/transition [post]
func (c *taskApiController) transition(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload taskapimodels.TaskTransitionData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := taskhandler.Instance.Transition(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка смены статуса задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Запрос подтверждения выполнения задачи
// @Tags Задачи
// @Description Создание согласования для постановщика по задаче в работе
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=taskapimodels.TaskView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/tasks/{id}/review [post]
func (c *taskApiController) requestReview(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := taskhandler.Instance.RequestReview(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка запроса подтверждения выполнения задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Журнал аудита задачи
// @Tags Задачи
// @Description Журнал аудита задачи в порядке записи
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]activityapimodels.ActivityView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/tasks/{id}/activity [get]
func (c *taskApiController) activity(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := audithandler.Instance.ListByEntity(models.EntityTypeTask, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала аудита задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
