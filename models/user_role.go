package models

type UserRole string

const (
	UserRoleAdmin       UserRole = "ADMIN"
	UserRoleManager     UserRole = "MANAGER"
	UserRoleCoordinator UserRole = "COORDINATOR"
	UserRoleAnalyst     UserRole = "ANALYST"
	UserRoleOperator    UserRole = "OPERATOR"
)

var roleHumanName = map[UserRole]string{
	UserRoleAdmin:       "Администратор",
	UserRoleManager:     "Руководитель",
	UserRoleCoordinator: "Координатор",
	UserRoleAnalyst:     "Аналитик",
	UserRoleOperator:    "Оператор",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsValid() bool {
	_, exist := roleHumanName[r]
	return exist
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

// роли, которым разрешено решать согласование вместо назначенного согласующего
func (r UserRole) AllowApprovalOverride() bool {
	return r == UserRoleAdmin || r == UserRoleManager
}

// роли, которым разрешено менять чужие документы и задачи
func (r UserRole) AllowEntityModeration() bool {
	return r == UserRoleAdmin || r == UserRoleManager || r == UserRoleCoordinator
}

const SystemUser = "Система"

// SystemActorID - служебный идентификатор действий, выполняемых самим движком
const SystemActorID = "system"
