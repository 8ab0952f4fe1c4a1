package rbac

import (
	"slices"

	"docflow-backend/models"
)

type Provider interface {
	HasPermission(role models.UserRole, module models.Module, permission models.Permission) bool
	GetPermissions(role models.UserRole) map[models.Module][]models.Permission
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		permissions: capabilityTable,
	}
}

type impl struct {
	permissions map[models.UserRole]map[models.Module][]models.Permission
}

func (i *impl) HasPermission(role models.UserRole, module models.Module, permission models.Permission) bool {
	modules, ok := i.permissions[role]
	if !ok {
		return false
	}
	return slices.Contains(modules[module], permission)
}

// заполнение структуры для фронта
func (i *impl) GetPermissions(role models.UserRole) map[models.Module][]models.Permission {
	result := map[models.Module][]models.Permission{}
	for module, permissions := range i.permissions[role] {
		result[module] = slices.Clone(permissions)
	}
	return result
}
