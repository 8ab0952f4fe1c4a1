package apiv1

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"docflow-backend/controllers"
	approvalhandler "docflow-backend/lib/approval"
	audithandler "docflow-backend/lib/audit"
	documenthandler "docflow-backend/lib/document"
	filestorage "docflow-backend/lib/file-storage"
	policyhandler "docflow-backend/lib/policy"
	"docflow-backend/middleware"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	documentapimodels "docflow-backend/models/api/document"
)

type documentApiController struct {
	controllers.BaseAPIController
}

func InitDocumentApiRouters(app fiber.Router) {
	controller := documentApiController{}
	app.Route("documents", func(router fiber.Router) {
		router.Post("", middleware.RequirePermission(models.DocumentsModule, models.CreatePermission), controller.create)
		router.Post("find", middleware.RequirePermission(models.DocumentsModule, models.ViewPermission), controller.find)
		router.Post("export/xlsx", middleware.RequirePermission(models.ExportModule, models.ExportPermission), controller.exportXlsx)
		router.Get("files/:fileId", middleware.RequirePermission(models.DocumentsModule, models.ViewPermission), controller.downloadFile)
		router.Get(":id", middleware.RequirePermission(models.DocumentsModule, models.ViewPermission), controller.get)
		router.Put(":id", middleware.RequirePermission(models.DocumentsModule, models.EditPermission), controller.update)
		router.Post(":id/submit", middleware.RequirePermission(models.DocumentsModule, models.FlowPermission), controller.submit)
		router.Post(":id/amend", middleware.RequirePermission(models.DocumentsModule, models.FlowPermission), controller.amend)
		router.Get(":id/versions", middleware.RequirePermission(models.DocumentsModule, models.ViewPermission), controller.versions)
		router.Get(":id/activity", middleware.RequirePermission(models.ActivityModule, models.ViewPermission), controller.activity)
		router.Get(":id/approvals", middleware.RequirePermission(models.ApprovalsModule, models.ViewPermission), controller.approvals)
		router.Get(":id/approval-sheet", middleware.RequirePermission(models.ExportModule, models.ExportPermission), controller.approvalSheet)
		router.Post(":id/accept", middleware.RequirePermission(models.PoliciesModule, models.ViewPermission), controller.accept)
		router.Get(":id/acceptances", middleware.RequirePermission(models.PoliciesModule, models.ManagePermission), controller.acceptances)
		router.Post(":id/files", middleware.RequirePermission(models.DocumentsModule, models.FilesPermission), controller.uploadFile)
		router.Get(":id/files", middleware.RequirePermission(models.DocumentsModule, models.ViewPermission), controller.listFiles)
	})
}

// @Summary Создание документа
// @Tags Документы
// @Description Создание документа в статусе черновика
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body 				body	documentapimodels.DocumentCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents [post]
func (c *documentApiController) create(ctx *fiber.Ctx) error {
	var payload documentapimodels.DocumentCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := documenthandler.Instance.Create(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Список документов
// @Tags Документы
// @Description Список документов с фильтром
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body 				body	documentapimodels.DocumentFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/find [post]
func (c *documentApiController) find(ctx *fiber.Ctx) error {
	var payload documentapimodels.DocumentFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := documenthandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка документов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Выгрузка реестра документов
// @Tags Документы
// @Description Выгрузка реестра документов в xlsx
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body 				body	documentapimodels.DocumentFilter	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/export/xlsx [post]
func (c *documentApiController) exportXlsx(ctx *fiber.Ctx) error {
	var payload documentapimodels.DocumentFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buf, err := documenthandler.Instance.ExportXls(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки реестра документов")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="documents.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Получение документа
// @Tags Документы
// @Description Получение документа
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id} [get]
func (c *documentApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := documenthandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Изменение содержимого документа
// @Tags Документы
// @Description Изменение содержимого черновика с инкрементом версии
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body 				body	documentapimodels.DocumentUpdateData	true	"request body"
// @Param   id          		path    string  								true    "rec ID"
// @Success 200 {object} apimodels.Response{data=documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id} [put]
func (c *documentApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload documentapimodels.DocumentUpdateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := documenthandler.Instance.Update(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Отправка документа на согласование
// @Tags Документы
// @Description Отправка черновика или отклоненного документа на согласование
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body 				body	documentapimodels.DocumentSubmitData	true	"request body"
// @Param   id          		path    string  								true    "rec ID"
// @Success 200 {object} apimodels.Response{data=documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/submit [post]
func (c *documentApiController) submit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload documentapimodels.DocumentSubmitData
	if len(ctx.Body()) > 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	result, err := documenthandler.Instance.Submit(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отправки документа на согласование")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Возврат документа в черновик
// @Tags Документы
// @Description Возврат согласованного документа в черновик для правок
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/amend [post]
func (c *documentApiController) amend(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := documenthandler.Instance.Amend(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка возврата документа в черновик")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary История версий документа
// @Tags Документы
// @Description История версий документа от старых к новым
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]documentapimodels.DocumentVersionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/versions [get]
func (c *documentApiController) versions(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := documenthandler.Instance.ListVersions(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения истории версий документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Журнал аудита документа
// @Tags Документы
// @Description Журнал аудита документа в порядке записи
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]activityapimodels.ActivityView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/activity [get]
func (c *documentApiController) activity(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := audithandler.Instance.ListByEntity(models.EntityTypeDocument, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала аудита документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Согласования документа
// @Tags Документы
// @Description Список согласований документа
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/approvals [get]
func (c *documentApiController) approvals(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := approvalhandler.Instance.ListByEntity(models.EntityTypeDocument, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка согласований документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Лист согласования
// @Tags Документы
// @Description Выгрузка листа согласования документа в pdf
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/approval-sheet [get]
func (c *documentApiController) approvalSheet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	pdfFile, err := documenthandler.Instance.ApprovalSheetPdf(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования листа согласования")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="approval-sheet.pdf"`)
	return ctx.Status(fiber.StatusOK).Send(pdfFile)
}

// @Summary Ознакомление с документом
// @Tags Документы
// @Description Фиксация ознакомления пользователя с согласованным документом
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/accept [post]
func (c *documentApiController) accept(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = policyhandler.Instance.Accept(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка фиксации ознакомления")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Список ознакомлений
// @Tags Документы
// @Description Список ознакомлений с документом
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]policyapimodels.AcceptanceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/acceptances [get]
func (c *documentApiController) acceptances(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := policyhandler.Instance.ListByDocument(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка ознакомлений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Загрузка вложения
// @Tags Документы
// @Description Загрузка вложения документа
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Param   file				formData file	true	"вложение"
// @Success 200 {object} apimodels.Response{data=filesapimodels.FileView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/files [post]
func (c *documentApiController) uploadFile(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось получить файл из запроса"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось прочитать файл из запроса"))
	}
	defer file.Close()
	contentType := fileHeader.Header.Get(fiber.HeaderContentType)
	result, err := filestorage.Instance.UploadDocumentFile(ctx.Context(), middleware.GetActor(ctx), id, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки вложения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Список вложений
// @Tags Документы
// @Description Список вложений документа
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]filesapimodels.FileView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/files [get]
func (c *documentApiController) listFiles(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := filestorage.Instance.ListByDocument(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка вложений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Скачивание вложения
// @Tags Документы
// @Description Скачивание вложения документа
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   fileId          	path    string  true    "file ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/files/{fileId} [get]
func (c *documentApiController) downloadFile(ctx *fiber.Ctx) error {
	fileID, err := c.GetIDByKey(ctx, "fileId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, data, err := filestorage.Instance.GetFile(ctx.Context(), fileID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка скачивания вложения")
	}
	ctx.Set(fiber.HeaderContentType, rec.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", rec.Name))
	return ctx.Status(fiber.StatusOK).Send(data)
}
