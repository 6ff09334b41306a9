package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos/testutil"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/modules/shipping/pricing"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/pointers"
	"github.com/shiplabel/shiplabel-backend/internal/platform/addressval"
)

// uploadTwo materializes two shipments of 24 oz and 8 oz.
func uploadTwo(t *testing.T, h *harness) []*types.Shipment {
	t.Helper()
	res, err := h.uploads.Upload(context.Background(), uploadCSV(
		uploadRow("Jane", "123 Main St", "Springfield", "62701", "", "A"),
		uploadRow("John", "9 Elm St", "Springfield", "62702", "", "B"),
	), "orders.csv")
	require.NoError(t, err)
	require.Len(t, res.Shipments, 2)

	pkg := res.Shipments[1].Package
	_, err = h.packages.Update(h.dbc, pkg.ID, types.PackagePatch{WeightLbs: pointers.Int(0), WeightOz: pointers.Int(8)})
	require.NoError(t, err)
	return res.Shipments
}

func TestShipmentService_CreateWithServicePricesShipment(t *testing.T) {
	h := newHarness(t, nil)
	priority, _ := h.seedServices(t)
	ctx := context.Background()
	to := testutil.SeedAddress(t, ctx, h.db, "9 Elm St", "Austin", "78701")
	pkg := testutil.SeedPackage(t, ctx, h.db, 1, 0)

	sh, err := h.shipments.Create(h.dbc, types.ShipmentInput{
		ShipToID:          to.ID,
		PackageID:         pkg.ID,
		OrderNumber:       "X-1",
		ShippingServiceID: pointers.Uint(priority.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, sh.Status)
	require.True(t, sh.ShippingPrice.Valid)
	assert.True(t, sh.ShippingPrice.Decimal.Equal(decimal.RequireFromString("6.60")))

	_, err = h.shipments.Create(h.dbc, types.ShipmentInput{ShipToID: to.ID, PackageID: pkg.ID})
	assert.ErrorIs(t, err, pkgerrors.ErrConflict)

	_, err = h.shipments.Create(h.dbc, types.ShipmentInput{ShipToID: to.ID + 100, PackageID: pkg.ID})
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestShipmentService_UpdateRepricesAndClears(t *testing.T) {
	h := newHarness(t, nil)
	_, ground := h.seedServices(t)
	shipments := uploadTwo(t, h)

	patch := types.ShipmentPatch{ShippingServiceID: types.NullableID{Set: true, Value: pointers.Uint(ground.ID)}}
	got, err := h.shipments.Update(h.dbc, shipments[0].ID, patch)
	require.NoError(t, err)
	require.True(t, got.ShippingPrice.Valid)
	assert.Equal(t, "3.70", got.ShippingPrice.Decimal.StringFixed(2))

	// A heavier package reprices the owner.
	_, err = h.packages.Update(h.dbc, got.PackageID, types.PackagePatch{WeightLbs: pointers.Int(2)})
	require.NoError(t, err)
	got, err = h.shipments.Get(h.dbc, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.50", got.ShippingPrice.Decimal.StringFixed(2))

	got, err = h.shipments.Update(h.dbc, got.ID, types.ShipmentPatch{ShippingServiceID: types.NullableID{Set: true}})
	require.NoError(t, err)
	assert.Nil(t, got.ShippingServiceID)
	assert.False(t, got.ShippingPrice.Valid)

	status := types.ShipmentStatus("shipped")
	_, err = h.shipments.Update(h.dbc, got.ID, types.ShipmentPatch{Status: &status})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestShipmentService_BulkAssignService(t *testing.T) {
	h := newHarness(t, nil)
	_, ground := h.seedServices(t)
	shipments := uploadTwo(t, h)
	ids := []uint{shipments[0].ID, shipments[1].ID}

	n, err := h.shipments.BulkAssignService(h.dbc, ids, pricing.OptionCheapest, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := h.shipmentRepo.GetByIDs(h.dbc, ids)
	require.NoError(t, err)
	for _, sh := range rows {
		require.NotNil(t, sh.ShippingServiceID)
		assert.Equal(t, ground.ID, *sh.ShippingServiceID)
	}
	assert.Equal(t, "3.70", rows[0].ShippingPrice.Decimal.StringFixed(2))
	assert.Equal(t, "2.90", rows[1].ShippingPrice.Decimal.StringFixed(2))

	total, err := h.shipments.TotalPrice(h.dbc)
	require.NoError(t, err)
	assert.Equal(t, "6.60", total.StringFixed(2))
}

func TestShipmentService_BulkAssignUnresolvableTouchesNothing(t *testing.T) {
	h := newHarness(t, nil)
	h.seedServices(t)
	shipments := uploadTwo(t, h)

	_, err := h.shipments.BulkAssignService(h.dbc, []uint{shipments[0].ID}, "overnight", nil)
	require.ErrorIs(t, err, pricing.ErrUnresolvableService)

	got, err := h.shipments.Get(h.dbc, shipments[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got.ShippingServiceID)

	total, err := h.shipments.TotalPrice(h.dbc)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestShipmentService_BulkUpdate(t *testing.T) {
	h := newHarness(t, nil)
	shipments := uploadTwo(t, h)
	ids := []uint{shipments[0].ID, shipments[1].ID, 9999}

	status := types.StatusReady
	n, err := h.shipments.BulkUpdate(h.dbc, ids, types.ShipmentPatch{Status: &status, OrderNumber: pointers.String("BATCH")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := h.shipmentRepo.List(h.dbc)
	require.NoError(t, err)
	for _, sh := range rows {
		assert.Equal(t, types.StatusReady, sh.Status)
		assert.Equal(t, "BATCH", sh.OrderNumber)
	}

	_, err = h.shipments.BulkUpdate(h.dbc, ids, types.ShipmentPatch{PackageID: pointers.Uint(shipments[0].PackageID)})
	assert.ErrorIs(t, err, pkgerrors.ErrConflict)
}

func TestShipmentService_UnknownPatchFieldRejected(t *testing.T) {
	var patch types.ShipmentPatch
	err := types.DecodePatch([]byte(`{"status":"ready","weight":3}`), &patch)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestShipmentService_BulkDeleteRemovesPackages(t *testing.T) {
	h := newHarness(t, nil)
	shipments := uploadTwo(t, h)

	n, err := h.shipments.BulkDelete(h.dbc, []uint{shipments[0].ID, shipments[1].ID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.EqualValues(t, 0, h.count(t, &types.Shipment{}))
	assert.EqualValues(t, 0, h.count(t, &types.Package{}))
	assert.EqualValues(t, 3, h.count(t, &types.Address{}))

	err = h.shipments.Delete(h.dbc, shipments[0].ID)
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestShipmentService_ValidateAddress(t *testing.T) {
	validator := stubValidator{result: func(a types.AddressDraft) addressval.Result {
		if a.City == "Nowhere" {
			return addressval.Result{Valid: false, Address: a, Message: addressval.UnavailableMessage}
		}
		a.AddressLine1 = "123 MAIN ST"
		a.ZipCode = "62701-1234"
		return addressval.Result{Valid: true, Address: a, Provider: "usps"}
	}}
	h := newHarness(t, validator)
	res, err := h.uploads.Upload(context.Background(), uploadCSV(
		uploadRow("Jane", "123 Main St", "Springfield", "62701", "", "A"),
		uploadRow("Lost", "1 Gone Rd", "Nowhere", "00001", "", "B"),
	), "orders.csv")
	require.NoError(t, err)
	good, bad := res.Shipments[0], res.Shipments[1]

	out, err := h.shipments.ValidateAddress(h.dbc, good.ID, "")
	require.NoError(t, err)
	require.True(t, out.IsValid)
	assert.Equal(t, "123 MAIN ST", out.ValidatedAddress.AddressLine1)
	assert.Equal(t, "Jane", out.ValidatedAddress.FirstName)

	got, err := h.shipments.Get(h.dbc, good.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusValidated, got.Status)
	assert.Equal(t, "62701-1234", got.ShipTo.ZipCode)

	out, err = h.shipments.ValidateAddress(h.dbc, bad.ID, SideTo)
	require.NoError(t, err)
	assert.False(t, out.IsValid)
	assert.Nil(t, out.ValidatedAddress)
	require.NotNil(t, out.Error)
	assert.Equal(t, addressval.UnavailableMessage, *out.Error)

	_, err = h.shipments.ValidateAddress(h.dbc, good.ID, "sideways")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestShipmentService_ValidateMissingShipFrom(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	to := testutil.SeedAddress(t, ctx, h.db, "9 Elm St", "Austin", "78701")
	pkg := testutil.SeedPackage(t, ctx, h.db, 1, 0)
	sh := testutil.SeedShipment(t, ctx, h.db, to, pkg)

	_, err := h.shipments.ValidateAddress(h.dbc, sh.ID, SideFrom)
	assert.ErrorIs(t, err, ErrMissingAddress)

	out, err := h.shipments.BulkValidateAddresses(h.dbc, []uint{sh.ID}, SideFrom)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Error)
	assert.Equal(t, "Ship from address not found", *out[0].Error)
}
