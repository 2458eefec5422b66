// AngelaMos | 2026
// entity_test.go

package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role        Role
		valid       bool
		isAdmin     bool
		canModerate bool
	}{
		{RoleUser, true, false, false},
		{RoleModerator, true, false, true},
		{RoleAdmin, true, true, true},
		{Role("superuser"), false, false, false},
		{Role(""), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.Valid())
			assert.Equal(t, tt.isAdmin, tt.role.IsAdmin())
			assert.Equal(t, tt.canModerate, tt.role.CanModerate())
		})
	}
}

func TestIsModerator(t *testing.T) {
	assert.True(t, RoleModerator.IsModerator())
	assert.False(t, RoleAdmin.IsModerator())
	assert.False(t, RoleUser.IsModerator())
}
