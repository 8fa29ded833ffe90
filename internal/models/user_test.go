package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleListHas(t *testing.T) {
	roles := RoleList{RoleStudent, RoleL1Reviewer}
	require.True(t, roles.Has(RoleStudent))
	require.True(t, roles.HasAny(RoleAdmin, RoleL1Reviewer))
	require.False(t, roles.Has(RoleL2Reviewer))
	require.False(t, roles.HasAny(RoleAdmin, RoleSupervisor))
	require.False(t, RoleList(nil).Has(RoleStudent))
}

func TestRoleListValueScanRoundTrip(t *testing.T) {
	roles := RoleList{RoleL2Reviewer, RoleSupervisor}
	value, err := roles.Value()
	require.NoError(t, err)
	require.Equal(t, "L2_REVIEWER,SUPERVISOR", value)

	var scanned RoleList
	require.NoError(t, scanned.Scan(value))
	require.Equal(t, roles, scanned)
}

func TestRoleListScanEdgeCases(t *testing.T) {
	var roles RoleList
	require.NoError(t, roles.Scan(nil))
	require.Nil(t, roles)

	require.NoError(t, roles.Scan(""))
	require.Nil(t, roles)

	require.NoError(t, roles.Scan([]byte(" STUDENT , ADMIN ")))
	require.Equal(t, RoleList{RoleStudent, RoleAdmin}, roles)

	require.Error(t, roles.Scan(42))
}

func TestJWTClaimsUnitScoping(t *testing.T) {
	unit := "unit-7"
	claims := &JWTClaims{UserID: "u-1", Roles: RoleList{RoleL2Reviewer}, UnitID: &unit}
	require.True(t, claims.HasRole(RoleL2Reviewer))
	require.True(t, claims.InUnit("unit-7"))
	require.False(t, claims.InUnit("unit-8"))

	var nilClaims *JWTClaims
	require.False(t, nilClaims.HasRole(RoleAdmin))
	require.False(t, nilClaims.InUnit("unit-7"))
}
