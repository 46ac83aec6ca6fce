package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
		ok    bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"STAFF", RoleStaff, true},
		{"MEMBER", RoleMember, true},
		{"admin", "", false},
		{"OFFICER", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		role, ok := ParseRole(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, role, "input %q", tt.input)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleStaff.Valid())
	assert.True(t, RoleMember.Valid())
	assert.False(t, Role("SUPERUSER").Valid())
	assert.False(t, Role("").Valid())
}

func TestRoleCanApprove(t *testing.T) {
	assert.True(t, RoleAdmin.CanApprove())
	assert.True(t, RoleStaff.CanApprove())
	assert.False(t, RoleMember.CanApprove())
}

func TestRoleCanViewAllRecords(t *testing.T) {
	assert.True(t, RoleAdmin.CanViewAllRecords())
	assert.True(t, RoleStaff.CanViewAllRecords())
	assert.False(t, RoleMember.CanViewAllRecords())
}
