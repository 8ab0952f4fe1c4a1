package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"docflow-backend/lib/apperr"
	"docflow-backend/middleware"
	apimodels "docflow-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := ctx.Params(key)
	if id == "" {
		return "", errors.Errorf("не указан идентификатор записи (%v)", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("api", ctx.Path()).
		WithField("user_id", middleware.GetUserID(ctx))
}

// SendError переводит структурированные ошибки движка в HTTP статусы
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
	case apperr.KindForbidden:
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(err.Error()))
	case apperr.KindUnauthenticated:
		return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(err.Error()))
	case apperr.KindInvalidTransition, apperr.KindConflict, apperr.KindVersionConflict, apperr.KindAlreadyResolved:
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
	case apperr.KindStorageUnavailable:
		logger.WithError(err).Error(hMsg)
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError(hMsg))
	}
	logger.WithError(err).Error(hMsg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(hMsg))
}
