package rbac

import "docflow-backend/models"

// Таблица полномочий: роль -> модуль -> разрешения.
// Проверяется централизованно, а не точечными сравнениями ролей в коде.
var capabilityTable = map[models.UserRole]map[models.Module][]models.Permission{
	models.UserRoleAdmin: {
		models.UsersModule:     {models.CreatePermission, models.ViewPermission, models.ManagePermission},
		models.DocumentsModule: {models.CreatePermission, models.EditPermission, models.ViewPermission, models.FlowPermission, models.ManagePermission, models.FilesPermission},
		models.TasksModule:     {models.CreatePermission, models.ViewPermission, models.FlowPermission, models.ManagePermission},
		models.ApprovalsModule: {models.ViewPermission, models.ResolvePermission, models.ManagePermission},
		models.PoliciesModule:  {models.ViewPermission, models.ManagePermission},
		models.ActivityModule:  {models.ViewPermission},
		models.ExportModule:    {models.ExportPermission},
	},
	models.UserRoleManager: {
		models.UsersModule:     {models.ViewPermission},
		models.DocumentsModule: {models.CreatePermission, models.EditPermission, models.ViewPermission, models.FlowPermission, models.ManagePermission, models.FilesPermission},
		models.TasksModule:     {models.CreatePermission, models.ViewPermission, models.FlowPermission, models.ManagePermission},
		models.ApprovalsModule: {models.ViewPermission, models.ResolvePermission, models.ManagePermission},
		models.PoliciesModule:  {models.ViewPermission},
		models.ActivityModule:  {models.ViewPermission},
		models.ExportModule:    {models.ExportPermission},
	},
	models.UserRoleCoordinator: {
		models.UsersModule:     {models.ViewPermission},
		models.DocumentsModule: {models.CreatePermission, models.EditPermission, models.ViewPermission, models.FlowPermission, models.ManagePermission, models.FilesPermission},
		models.TasksModule:     {models.CreatePermission, models.ViewPermission, models.FlowPermission, models.ManagePermission},
		models.ApprovalsModule: {models.ViewPermission, models.ResolvePermission},
		models.PoliciesModule:  {models.ViewPermission},
		models.ActivityModule:  {models.ViewPermission},
		models.ExportModule:    {models.ExportPermission},
	},
	models.UserRoleAnalyst: {
		models.UsersModule:     {models.ViewPermission},
		models.DocumentsModule: {models.CreatePermission, models.EditPermission, models.ViewPermission, models.FlowPermission, models.FilesPermission},
		models.TasksModule:     {models.CreatePermission, models.ViewPermission, models.FlowPermission},
		models.ApprovalsModule: {models.ViewPermission, models.ResolvePermission},
		models.PoliciesModule:  {models.ViewPermission},
		models.ActivityModule:  {models.ViewPermission},
		models.ExportModule:    {models.ExportPermission},
	},
	models.UserRoleOperator: {
		models.DocumentsModule: {models.CreatePermission, models.EditPermission, models.ViewPermission, models.FlowPermission, models.FilesPermission},
		models.TasksModule:     {models.CreatePermission, models.ViewPermission, models.FlowPermission},
		models.ApprovalsModule: {models.ViewPermission, models.ResolvePermission},
		models.PoliciesModule:  {models.ViewPermission},
		models.ActivityModule:  {models.ViewPermission},
	},
}
