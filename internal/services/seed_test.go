package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
)

func TestLoadSeed_Default(t *testing.T) {
	data, err := LoadSeed(nil)
	require.NoError(t, err)
	require.Len(t, data.ShippingServices, 2)
	assert.Equal(t, types.ServicePriority, data.ShippingServices[0].Name)
	assert.Equal(t, "0.10", data.ShippingServices[0].PerOzRate.StringFixed(2))
	assert.Len(t, data.SavedAddresses, 3)
	assert.Len(t, data.SavedPackages, 3)
	assert.Equal(t, 8, data.SavedPackages[1].Package.WeightOz)
}

func TestSeed_Idempotent(t *testing.T) {
	h := newHarness(t, nil)
	data, err := LoadSeed(nil)
	require.NoError(t, err)

	report, err := h.seed.Seed(h.dbc, data)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{Services: 2, SavedAddresses: 3, SavedPackages: 3}, *report)

	report, err = h.seed.Seed(h.dbc, data)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{}, *report)

	assert.EqualValues(t, 2, h.count(t, &types.ShippingService{}))
	assert.EqualValues(t, 3, h.count(t, &types.SavedAddress{}))
	assert.EqualValues(t, 3, h.count(t, &types.Address{}))

	presets, err := h.saved.ListPackages(h.dbc)
	require.NoError(t, err)
	require.Len(t, presets, 3)
	assert.Equal(t, "Light Package", presets[0].Name)
	require.NotNil(t, presets[0].Package)
	assert.Equal(t, 16, presets[0].Package.TotalWeightOz())
}

func TestSeed_RejectsUnknownService(t *testing.T) {
	h := newHarness(t, nil)
	data, err := LoadSeed(strings.NewReader("shipping_services:\n  - name: overnight\n    base_price: \"9.00\"\n"))
	require.NoError(t, err)

	_, err = h.seed.Seed(h.dbc, data)
	require.Error(t, err)
	assert.EqualValues(t, 0, h.count(t, &types.ShippingService{}))
}

func TestSavedService_PresetsOwnTheirRows(t *testing.T) {
	h := newHarness(t, nil)

	sa, err := h.saved.CreateAddress(h.dbc, "Home", types.AddressDraft{
		FirstName: "Jane", AddressLine1: "123 Main St", City: "Springfield", State: "IL", ZipCode: "62701",
	})
	require.NoError(t, err)
	require.NotNil(t, sa.Address)
	assert.Equal(t, "Springfield", sa.Address.City)

	_, err = h.saved.CreateAddress(h.dbc, "  ", types.AddressDraft{})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)

	// Deleting the address removes its preset.
	require.NoError(t, h.addresses.Delete(h.dbc, sa.AddressID))
	_, err = h.saved.GetAddress(h.dbc, sa.ID)
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)

	sp, err := h.saved.CreatePackage(h.dbc, "Box", types.PackageDraft{WeightLbs: 1})
	require.NoError(t, err)

	// A preset's package cannot be claimed by a shipment.
	to, err := h.addresses.Create(h.dbc, types.AddressDraft{
		FirstName: "Jane", AddressLine1: "1 Elm St", City: "Springfield", State: "IL", ZipCode: "62701",
	})
	require.NoError(t, err)
	_, err = h.shipments.Create(h.dbc, types.ShipmentInput{ShipToID: to.ID, PackageID: sp.PackageID})
	assert.ErrorIs(t, err, pkgerrors.ErrConflict)

	require.NoError(t, h.saved.DeletePackage(h.dbc, sp.ID))
	assert.ErrorIs(t, h.saved.DeletePackage(h.dbc, sp.ID), pkgerrors.ErrNotFound)
}
