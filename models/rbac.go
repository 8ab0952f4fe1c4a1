package models

type Module string

const (
	UsersModule     Module = "USERS"
	DocumentsModule Module = "DOCUMENTS"
	TasksModule     Module = "TASKS"
	ApprovalsModule Module = "APPROVALS"
	PoliciesModule  Module = "POLICIES"
	ActivityModule  Module = "ACTIVITY"
	ExportModule    Module = "EXPORT"
)

type Permission string

const (
	CreatePermission  Permission = "CREATE"
	EditPermission    Permission = "EDIT"
	ViewPermission    Permission = "VIEW"
	ManagePermission  Permission = "MANAGE"
	FlowPermission    Permission = "FLOW"
	ResolvePermission Permission = "RESOLVE"
	ExportPermission  Permission = "EXPORT"
	FilesPermission   Permission = "FILES"
)
