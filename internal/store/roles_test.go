package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleViewer, RoleMember, RoleAdmin, RoleOwner} {
		assert.True(t, ValidRole(role))
	}
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("Owner"))
}

func TestHasRoleHierarchy(t *testing.T) {
	assert.True(t, HasRole(RoleOwner, RoleViewer))
	assert.True(t, HasRole(RoleOwner, RoleOwner))
	assert.True(t, HasRole(RoleAdmin, RoleMember))
	assert.True(t, HasRole(RoleMember, RoleMember))

	assert.False(t, HasRole(RoleViewer, RoleMember))
	assert.False(t, HasRole(RoleMember, RoleAdmin))
	assert.False(t, HasRole(RoleAdmin, RoleOwner))
}

func TestHasRoleUnknownNeverQualifies(t *testing.T) {
	assert.False(t, HasRole("superuser", RoleViewer))
	assert.False(t, HasRole(RoleOwner, "superuser"))
	assert.False(t, HasRole("", ""))
}
