package permission_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAbsensi/GoAbsensi/internal/permission"
)

const (
	userGuru   uint64 = 1
	userNobody uint64 = 2
)

func guruStore() *fakeStore {
	s := newFakeStore()
	s.grants[userGuru] = []permission.RoleGrant{
		{Resource: "izin", Action: "create"},
		{Resource: "izin", Action: "read"},
	}

	return s
}

func TestResolve_NoRolesNoOverrides(t *testing.T) {
	set, err := permission.NewResolver(newFakeStore()).Resolve(context.Background(), userNobody)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestResolve_RoleGrants(t *testing.T) {
	set, err := permission.NewResolver(guruStore()).Resolve(context.Background(), userGuru)
	require.NoError(t, err)
	assert.Equal(t, []string{"izin:create", "izin:read"}, set.Strings())
}

func TestResolve_OverrideRevokesRoleGrant(t *testing.T) {
	store := guruStore()
	store.overrides[userGuru] = []permission.Override{permission.NewOverride("izin", "read", false)}

	set, err := permission.NewResolver(store).Resolve(context.Background(), userGuru)
	require.NoError(t, err)
	assert.Equal(t, []string{"izin:create"}, set.Strings())
}

func TestResolve_OverrideGrantsWithoutRole(t *testing.T) {
	store := guruStore()
	store.overrides[userGuru] = []permission.Override{permission.NewOverride("Lokasi", "Update", true)}

	set, err := permission.NewResolver(store).Resolve(context.Background(), userGuru)
	require.NoError(t, err)
	assert.True(t, set.Can("lokasi", "update"))
	assert.True(t, set.Can("izin", "read"))
}

func TestResolve_RevokeOfUngrantedKeyIsNoop(t *testing.T) {
	store := guruStore()
	store.overrides[userGuru] = []permission.Override{permission.NewOverride("pegawai", "delete", false)}

	set, err := permission.NewResolver(store).Resolve(context.Background(), userGuru)
	require.NoError(t, err)
	assert.Equal(t, []string{"izin:create", "izin:read"}, set.Strings())
}

func TestResolve_DropsUnknownActions(t *testing.T) {
	store := newFakeStore()
	store.grants[userGuru] = []permission.RoleGrant{
		{Resource: "izin", Action: "approve"},
		{Resource: "IZIN", Action: " Read"},
		{Resource: "", Action: "read"},
	}
	store.overrides[userGuru] = []permission.Override{permission.NewOverride("izin", "export", true)}

	set, err := permission.NewResolver(store).Resolve(context.Background(), userGuru)
	require.NoError(t, err)
	assert.Equal(t, []string{"izin:read"}, set.Strings())
}

func TestResolve_Idempotent(t *testing.T) {
	store := guruStore()
	store.overrides[userGuru] = []permission.Override{permission.NewOverride("shift", "read", true)}
	resolver := permission.NewResolver(store)

	first, err := resolver.Resolve(context.Background(), userGuru)
	require.NoError(t, err)

	second, err := resolver.Resolve(context.Background(), userGuru)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	store := guruStore()
	store.fail = true

	set, err := permission.NewResolver(store).Resolve(context.Background(), userGuru)
	require.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, set)
}
