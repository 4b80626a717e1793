package impl

import (
	"context"
	"testing"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addressInput(label string, typ entity.AddressType, isDefault bool) *usecase.AddressInput {
	return &usecase.AddressInput{
		Type:          typ,
		Label:         label,
		RecipientName: "Ada Obi",
		Phone:         "+2348000000000",
		Line1:         "12 Mission Street",
		City:          "Enugu",
		IsDefault:     isDefault,
	}
}

func defaultsByType(t *testing.T, srv usecase.AddressUsecase, userID uuid.UUID) map[entity.AddressType][]string {
	t.Helper()

	list, err := srv.List(context.Background(), userID)
	require.NoError(t, err)

	out := make(map[entity.AddressType][]string)
	for _, a := range list {
		if a.IsDefault {
			out[a.Type] = append(out[a.Type], a.Label)
		}
	}

	return out
}

func TestAddressService_OneDefaultPerType(t *testing.T) {
	f := newFixture(t)
	srv := NewAddressService(AddressServiceParams{TxManager: f.tx, AddressRepo: f.addresses, Logger: f.logger})
	ctx := context.Background()
	userID := uuid.New()

	home, err := srv.Create(ctx, userID, addressInput("home", "", false))
	require.NoError(t, err)
	assert.True(t, home.IsDefault, "first address of a type becomes default")
	assert.Equal(t, entity.AddressTypeShipping, home.Type)

	office, err := srv.Create(ctx, userID, addressInput("office", entity.AddressTypeShipping, true))
	require.NoError(t, err)
	assert.True(t, office.IsDefault)

	_, err = srv.Create(ctx, userID, addressInput("invoices", entity.AddressTypeBilling, false))
	require.NoError(t, err)

	assert.Equal(t, map[entity.AddressType][]string{
		entity.AddressTypeShipping: {"office"},
		entity.AddressTypeBilling:  {"invoices"},
	}, defaultsByType(t, srv, userID))

	_, err = srv.SetDefault(ctx, userID, home.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, defaultsByType(t, srv, userID)[entity.AddressTypeShipping])

	// unsetting the flag on the default keeps it default
	updated, err := srv.Update(ctx, userID, home.ID, addressInput("home", entity.AddressTypeShipping, false))
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
}

func TestAddressService_DeleteRules(t *testing.T) {
	f := newFixture(t)
	srv := NewAddressService(AddressServiceParams{TxManager: f.tx, AddressRepo: f.addresses, Logger: f.logger})
	ctx := context.Background()
	userID := uuid.New()

	home, err := srv.Create(ctx, userID, addressInput("home", entity.AddressTypeShipping, false))
	require.NoError(t, err)
	office, err := srv.Create(ctx, userID, addressInput("office", entity.AddressTypeShipping, false))
	require.NoError(t, err)
	assert.False(t, office.IsDefault)

	assert.ErrorIs(t, srv.Delete(ctx, userID, home.ID), domainerrors.ErrDefaultAddressDelete)
	require.NoError(t, srv.Delete(ctx, userID, office.ID))

	_, err = srv.Get(ctx, uuid.New(), home.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAddressNotFound)
}

func TestAddressService_TypeChangeKeepsDefaults(t *testing.T) {
	f := newFixture(t)
	srv := NewAddressService(AddressServiceParams{TxManager: f.tx, AddressRepo: f.addresses, Logger: f.logger})
	ctx := context.Background()
	userID := uuid.New()

	home, err := srv.Create(ctx, userID, addressInput("home", entity.AddressTypeShipping, false))
	require.NoError(t, err)
	require.True(t, home.IsDefault)
	office, err := srv.Create(ctx, userID, addressInput("office", entity.AddressTypeShipping, false))
	require.NoError(t, err)

	moved, err := srv.Update(ctx, userID, home.ID, addressInput("home", entity.AddressTypeBilling, false))
	require.NoError(t, err)
	assert.Equal(t, entity.AddressTypeBilling, moved.Type)
	assert.True(t, moved.IsDefault, "first address of the new type becomes default")

	assert.Equal(t, map[entity.AddressType][]string{
		entity.AddressTypeShipping: {"office"},
		entity.AddressTypeBilling:  {"home"},
	}, defaultsByType(t, srv, userID))

	assert.ErrorIs(t, srv.Delete(ctx, userID, office.ID), domainerrors.ErrDefaultAddressDelete)

	// the last address of a type leaves nothing to promote
	_, err = srv.Update(ctx, userID, office.ID, addressInput("office", entity.AddressTypeBilling, false))
	require.NoError(t, err)
	defaults := defaultsByType(t, srv, userID)
	assert.Empty(t, defaults[entity.AddressTypeShipping])
	assert.Equal(t, []string{"home"}, defaults[entity.AddressTypeBilling])
}
