package models_test

import (
	"testing"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPermissionsRejectsUnknown(t *testing.T) {
	var admin models.Admin

	err := admin.SetPermissions([]models.Permission{models.PermManageVehicles, "delete_everything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete_everything")
	assert.Empty(t, admin.Permissions)
}

func TestHasPermission(t *testing.T) {
	var admin models.Admin
	require.NoError(t, admin.SetPermissions([]models.Permission{models.PermManageUsers, models.PermViewReports}))

	assert.True(t, admin.HasPermission(models.PermManageUsers))
	assert.True(t, admin.HasPermission(models.PermViewReports))
	assert.False(t, admin.HasPermission(models.PermManageAdmins))
}

func TestSuperAdminHasEveryPermission(t *testing.T) {
	admin := models.Admin{IsSuperAdmin: true}
	for perm := range models.AllPermissions {
		assert.True(t, admin.HasPermission(perm), string(perm))
	}
}

func TestPermissionListSurvivesRoundTrip(t *testing.T) {
	var admin models.Admin
	require.NoError(t, admin.SetPermissions(models.DefaultAdminPermissions))
	assert.ElementsMatch(t, models.DefaultAdminPermissions, admin.PermissionList())
}

func TestPermissionListToleratesCorruptColumn(t *testing.T) {
	admin := models.Admin{Permissions: "{not json"}
	assert.Nil(t, admin.PermissionList())

	empty := models.Admin{}
	assert.Nil(t, empty.PermissionList())
}

func TestPasswordHashing(t *testing.T) {
	var user models.User
	require.NoError(t, user.SetPassword("correct horse"))
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.NoError(t, user.CheckPassword("correct horse"))
	assert.Error(t, user.CheckPassword("wrong"))
}

func TestValidRating(t *testing.T) {
	for _, ok := range []int{1, 3, 5} {
		assert.True(t, models.ValidRating(ok), ok)
	}
	for _, bad := range []int{0, 6, -2} {
		assert.False(t, models.ValidRating(bad), bad)
	}
}
