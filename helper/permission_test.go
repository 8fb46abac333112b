package helper

import (
	"testing"

	"venue_manager/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermission(t *testing.T) {
	cases := []struct {
		role, perm string
		want       bool
	}{
		{constants.ROLE_ADMIN, PermAccountsManage, true},
		{constants.ROLE_MANAGER, PermInvoicesWrite, true},
		{constants.ROLE_MANAGER, PermAccountsManage, false},
		{constants.ROLE_STAFF, PermBookingsWrite, true},
		{constants.ROLE_STAFF, PermInvoicesRead, false},
		{constants.ROLE_VIEWER, PermReportsRead, true},
		{constants.ROLE_VIEWER, PermBookingsWrite, false},
		{"UNKNOWN", PermBookingsRead, false},
	}
	for _, tc := range cases {
		t.Run(tc.role+" "+tc.perm, func(t *testing.T) {
			assert.Equal(t, tc.want, HasPermission(tc.role, tc.perm))
		})
	}
}

func TestParsePermissions(t *testing.T) {
	roles, err := ParsePermissions([]byte("roles:\n  CHEF:\n    - calendar:read\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"calendar:read"}, roles["CHEF"])

	_, err = ParsePermissions([]byte("roles: {}\n"))
	assert.Error(t, err)
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	grants := PermissionsFor(constants.ROLE_STAFF)
	require.NotEmpty(t, grants)
	grants[0] = "*"
	assert.False(t, HasPermission(constants.ROLE_STAFF, PermAccountsManage))
}
