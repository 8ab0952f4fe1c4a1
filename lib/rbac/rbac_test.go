package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"

	"docflow-backend/models"
)

func TestRbac(t *testing.T) {
	NewHandler()

	t.Run(`capability table check`, func(t *testing.T) {
		require.Equal(t, true, Instance.HasPermission(models.UserRoleAdmin, models.UsersModule, models.CreatePermission))
		require.Equal(t, false, Instance.HasPermission(models.UserRoleManager, models.UsersModule, models.CreatePermission))
		require.Equal(t, false, Instance.HasPermission(models.UserRoleOperator, models.UsersModule, models.ViewPermission))

		require.Equal(t, true, Instance.HasPermission(models.UserRoleOperator, models.DocumentsModule, models.CreatePermission))
		require.Equal(t, false, Instance.HasPermission(models.UserRoleOperator, models.DocumentsModule, models.ManagePermission))
		require.Equal(t, true, Instance.HasPermission(models.UserRoleCoordinator, models.DocumentsModule, models.ManagePermission))

		require.Equal(t, false, Instance.HasPermission(models.UserRoleOperator, models.ExportModule, models.ExportPermission))
		require.Equal(t, true, Instance.HasPermission(models.UserRoleAnalyst, models.ExportModule, models.ExportPermission))
	})

	t.Run(`unknown role check`, func(t *testing.T) {
		require.Equal(t, false, Instance.HasPermission(models.UserRole("GUEST"), models.DocumentsModule, models.ViewPermission))
	})

	t.Run(`permissions map check`, func(t *testing.T) {
		permissions := Instance.GetPermissions(models.UserRoleOperator)
		require.NotEmpty(t, permissions[models.DocumentsModule])
		require.Empty(t, permissions[models.UsersModule])
	})
}
