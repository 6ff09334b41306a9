package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/modules/shipping/ingestion"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
)

// failingPackageRepo fails the nth package insert.
type failingPackageRepo struct {
	repos.PackageRepo
	failOn int
	calls  int
}

func (r *failingPackageRepo) Create(dbc dbctx.Context, pkgs []*types.Package) ([]*types.Package, error) {
	r.calls++
	if r.calls == r.failOn {
		return nil, errors.New("disk full")
	}
	return r.PackageRepo.Create(dbc, pkgs)
}

func TestUpload_CreatesPendingShipments(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	res, err := h.uploads.Upload(ctx, uploadCSV(
		uploadRow("Jane", "123 Main St", "Springfield", "62701", "5551234567", "A-1"),
		uploadRow("John", "9 Elm St", "Springfield", "62702", "", ""),
	), "orders.csv")
	require.NoError(t, err)
	require.Len(t, res.Shipments, 2)
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.BatchID)

	first := res.Shipments[0]
	assert.Equal(t, types.StatusPending, first.Status)
	assert.Nil(t, first.ShippingServiceID)
	assert.False(t, first.ShippingPrice.Valid)
	require.NotNil(t, first.ShipFrom)
	assert.Equal(t, "502 W Arrow Hwy, STE P", first.ShipFrom.AddressLine1)
	require.NotNil(t, first.Package)
	assert.Equal(t, 24, first.Package.TotalWeightOz())
	assert.Equal(t, "A-1", first.OrderNumber)
	assert.Equal(t, "ORD-4", res.Shipments[1].OrderNumber)

	// Both rows share the depot, so it is stored once.
	assert.Equal(t, *first.ShipFromID, *res.Shipments[1].ShipFromID)
	assert.EqualValues(t, 3, h.count(t, &types.Address{}))
	assert.Equal(t, 2, h.rec[OutcomeCreated])
	assert.Equal(t, 2, h.rec[ingestion.OutcomeParsed])
}

func TestUpload_AddressesConvergeAcrossUploads(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.uploads.Upload(ctx, uploadCSV(uploadRow("Jane", "123 Main St", "Springfield", "62701", "5550000001", "A")), "a.csv")
	require.NoError(t, err)
	res, err := h.uploads.Upload(ctx, uploadCSV(uploadRow("Janet", "123 Main St", "Springfield", "62701", "5550000002", "B")), "b.csv")
	require.NoError(t, err)

	assert.EqualValues(t, 2, h.count(t, &types.Address{}))
	assert.EqualValues(t, 2, h.count(t, &types.Package{}))

	to, err := h.addressRepo.GetByID(h.dbc, res.Shipments[0].ShipToID)
	require.NoError(t, err)
	assert.Equal(t, "Janet", to.FirstName)
	assert.Equal(t, "5550000002", to.Phone)
}

func TestUpload_FailedRowRollsBackAlone(t *testing.T) {
	failing := &failingPackageRepo{failOn: 2}
	h := newHarness(t, nil, withPackageRepo(func(inner repos.PackageRepo) repos.PackageRepo {
		failing.PackageRepo = inner
		return failing
	}))

	res, err := h.uploads.Upload(context.Background(), uploadCSV(
		uploadRow("Jane", "123 Main St", "Springfield", "62701", "", "A"),
		uploadRow("Only", "77 Lost Ln", "Nowhere", "00001", "", "B"),
		uploadRow("Jim", "5 Oak Ave", "Springfield", "62703", "", "C"),
	), "orders.csv")
	require.NoError(t, err)
	require.Len(t, res.Shipments, 2)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Error creating shipment 2:")
	assert.Contains(t, res.Errors[0], "disk full")

	found, err := h.addressRepo.FindByKey(h.dbc, types.AddressKey{AddressLine1: "77 Lost Ln", City: "Nowhere", ZipCode: "00001"})
	require.NoError(t, err)
	assert.Nil(t, found, "ship-to of the failed row must be rolled back")
	assert.Equal(t, 1, h.rec[OutcomeMaterializeFailed])
}

func TestUpload_InvalidDraftIsReportedPerRow(t *testing.T) {
	h := newHarness(t, nil)

	bad := strings.Replace(uploadRow("Jane", "123 Main St", "Springfield", "62701", "", "A"), ",IL,", ",ILL,", 1)
	res, err := h.uploads.Upload(context.Background(), uploadCSV(
		bad,
		uploadRow("Jim", "5 Oak Ave", "Springfield", "62703", "", "C"),
	), "orders.csv")
	require.NoError(t, err)
	require.Len(t, res.Shipments, 1)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Error creating shipment 1:")
	assert.Contains(t, res.Errors[0], "ship_to.state")
}

func TestUpload_NoValidShipments(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.uploads.Upload(context.Background(), uploadCSV(
		uploadRow("", "123 Main St", "Springfield", "62701", "", "A"),
		strings.Replace(uploadRow("Jim", "5 Oak Ave", "Springfield", "62703", "", "C"), ",IL,1,", ",IL,-1,", 1),
	), "orders.csv")

	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)
	assert.ErrorIs(t, err, ErrNoValidShipments)
	require.Len(t, uerr.Result.Errors, 1)
	assert.Contains(t, uerr.Result.Errors[0], "Error parsing row 4:")
	assert.EqualValues(t, 0, h.count(t, &types.Shipment{}))
}

func TestUpload_NoShipmentsCreated(t *testing.T) {
	failing := &failingPackageRepo{failOn: 1}
	h := newHarness(t, nil, withPackageRepo(func(inner repos.PackageRepo) repos.PackageRepo {
		failing.PackageRepo = inner
		return failing
	}))

	_, err := h.uploads.Upload(context.Background(), uploadCSV(
		uploadRow("Jane", "123 Main St", "Springfield", "62701", "", "A"),
	), "orders.csv")

	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)
	assert.ErrorIs(t, err, ErrNoShipmentsCreated)
	require.Len(t, uerr.Result.Errors, 1)
	assert.Contains(t, uerr.Result.Errors[0], "Error creating shipment 1:")
}

func TestUpload_TooFewRows(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.uploads.Upload(context.Background(), []byte(uploadHeader), "orders.csv")

	var ierr *ingestion.IngestError
	require.ErrorAs(t, err, &ierr)
	assert.ErrorIs(t, err, ingestion.ErrTooFewRows)
}
