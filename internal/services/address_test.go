package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/pointers"
)

func TestAddressService_UpsertReconciles(t *testing.T) {
	h := newHarness(t, nil)
	draft := types.AddressDraft{
		FirstName: "Jane", AddressLine1: "123 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Phone: "111",
	}

	first, err := h.addresses.Upsert(h.dbc, draft)
	require.NoError(t, err)

	draft.FirstName = "Janet"
	draft.Phone = "222"
	second, err := h.addresses.Upsert(h.dbc, draft)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Janet", second.FirstName)
	assert.Equal(t, "222", second.Phone)

	draft.ZipCode = "62702"
	third, err := h.addresses.Upsert(h.dbc, draft)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestAddressService_CreateRequiresCompleteAddress(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.addresses.Create(h.dbc, types.AddressDraft{FirstName: "Jane", City: "Springfield"})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "address_line1")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestAddressService_Update(t *testing.T) {
	h := newHarness(t, nil)
	addr, err := h.addresses.Create(h.dbc, types.AddressDraft{
		FirstName: "Jane", AddressLine1: "123 Main St", City: "Springfield", State: "IL", ZipCode: "62701",
	})
	require.NoError(t, err)

	got, err := h.addresses.Update(h.dbc, addr.ID, types.AddressPatch{AddressLine2: pointers.String("Apt 4")})
	require.NoError(t, err)
	assert.Equal(t, "Apt 4", got.AddressLine2)
	assert.Equal(t, "Jane", got.FirstName)

	_, err = h.addresses.Update(h.dbc, addr.ID, types.AddressPatch{State: pointers.String("Illinois")})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)

	_, err = h.addresses.Update(h.dbc, addr.ID+50, types.AddressPatch{City: pointers.String("X")})
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestAddressService_DeleteCascades(t *testing.T) {
	h := newHarness(t, nil)
	res, err := h.uploads.Upload(context.Background(), uploadCSV(
		uploadRow("Jane", "123 Main St", "Springfield", "62701", "", "A"),
		uploadRow("John", "9 Elm St", "Springfield", "62702", "", "B"),
	), "orders.csv")
	require.NoError(t, err)

	// The depot is the ship-from of both shipments.
	require.NoError(t, h.addresses.Delete(h.dbc, *res.Shipments[0].ShipFromID))

	assert.EqualValues(t, 0, h.count(t, &types.Shipment{}))
	assert.EqualValues(t, 0, h.count(t, &types.Package{}))
	assert.EqualValues(t, 2, h.count(t, &types.Address{}))

	assert.ErrorIs(t, h.addresses.Delete(h.dbc, 4242), pkgerrors.ErrNotFound)
}

func TestPackageService_DeleteRemovesOwnerShipment(t *testing.T) {
	h := newHarness(t, nil)
	res, err := h.uploads.Upload(context.Background(), uploadCSV(
		uploadRow("Jane", "123 Main St", "Springfield", "62701", "", "A"),
	), "orders.csv")
	require.NoError(t, err)

	require.NoError(t, h.packages.Delete(h.dbc, res.Shipments[0].PackageID))
	assert.EqualValues(t, 0, h.count(t, &types.Shipment{}))
	assert.EqualValues(t, 0, h.count(t, &types.Package{}))
}
