package postgres

import (
	"context"
	"testing"

	"ministry/internal/domain/constants"
	"ministry/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_IsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db))
	require.NoError(t, Seed(ctx, db))

	refs := NewReferenceRepository(db)
	countries, err := refs.ListCountries(ctx)
	require.NoError(t, err)
	assert.Len(t, countries, len(seedCountries))

	methods, err := refs.ListPaymentMethods(ctx, true)
	require.NoError(t, err)
	assert.Len(t, methods, len(seedPaymentMethods))

	roles := NewRoleRepository(db)
	admin, err := roles.FindRoleBySlug(ctx, constants.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin.IsSystem)
	assert.Len(t, admin.Permissions, len(constants.AllPermissions()))

	member, err := roles.FindRoleBySlug(ctx, constants.RoleMember)
	require.NoError(t, err)
	assert.Empty(t, member.Permissions)
}
