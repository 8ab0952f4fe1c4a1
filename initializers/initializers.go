package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	"docflow-backend/config"
	"docflow-backend/fiberlog"
	approvalhandler "docflow-backend/lib/approval"
	approverpolicy "docflow-backend/lib/approver-policy"
	audithandler "docflow-backend/lib/audit"
	documenthandler "docflow-backend/lib/document"
	xlsexport "docflow-backend/lib/export/xls"
	notifyhandler "docflow-backend/lib/notify"
	policyhandler "docflow-backend/lib/policy"
	"docflow-backend/lib/rbac"
	taskhandler "docflow-backend/lib/task"
	usershandler "docflow-backend/lib/users"
	connectionhub "docflow-backend/lib/ws/hub/connection-hub"
	"docflow-backend/models"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	connectionhub.Init()
	rbac.NewHandler()
	xlsexport.NewHandler()
	notifyhandler.NewHandler()
	audithandler.NewHandler()
	approverpolicy.NewHandler()
	usershandler.NewHandler()
	approvalhandler.NewHandler()
	documenthandler.NewHandler()
	taskhandler.NewHandler()
	policyhandler.NewHandler()
	InitFileStorage()

	// решения по согласованиям продвигают родительскую сущность
	approvalhandler.RegisterAdvancer(models.EntityTypeDocument, documenthandler.Instance)
	approvalhandler.RegisterAdvancer(models.EntityTypeTask, taskhandler.Instance)

	if err := usershandler.Instance.SeedAdmin(); err != nil {
		log.WithError(err).Error("ошибка создания учетной записи администратора")
	}
}
