package services

import (
	"testing"

	"saccolink/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestCanRepayOwnerOnly(t *testing.T) {
	const ownerUserID = uint(7)

	owner := Actor{UserID: ownerUserID, Role: domain.RoleMember}
	assert.True(t, canRepay(owner, ownerUserID))

	otherMember := Actor{UserID: 8, Role: domain.RoleMember}
	assert.False(t, canRepay(otherMember, ownerUserID))

	staff := Actor{UserID: 9, Role: domain.RoleStaff}
	assert.False(t, canRepay(staff, ownerUserID))

	admin := Actor{UserID: 10, Role: domain.RoleAdmin}
	assert.False(t, canRepay(admin, ownerUserID))
}
