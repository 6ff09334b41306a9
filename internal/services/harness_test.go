package services

import (
	"context"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos"
	"github.com/shiplabel/shiplabel-backend/internal/data/repos/testutil"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	"github.com/shiplabel/shiplabel-backend/internal/platform/addressval"
)

type countingRecorder map[string]int

func (c countingRecorder) ObserveUploadRow(outcome string) { c[outcome]++ }

type stubValidator struct {
	result func(types.AddressDraft) addressval.Result
}

func (v stubValidator) Validate(_ context.Context, addr types.AddressDraft) addressval.Result {
	return v.result(addr)
}

func (v stubValidator) ValidateMany(ctx context.Context, addrs []types.AddressDraft) []addressval.Result {
	out := make([]addressval.Result, len(addrs))
	for i, a := range addrs {
		out[i] = v.Validate(ctx, a)
	}
	return out
}

type harness struct {
	db  *gorm.DB
	dbc dbctx.Context
	txr dbctx.Transactor
	rec countingRecorder

	addressRepo   repos.AddressRepo
	packageRepo   repos.PackageRepo
	shipmentRepo  repos.ShipmentRepo
	serviceRepo   repos.ShippingServiceRepo
	savedAddrRepo repos.SavedAddressRepo
	savedPkgRepo  repos.SavedPackageRepo

	addresses AddressService
	packages  PackageService
	shipments ShipmentService
	uploads   UploadService
	saved     SavedService
	seed      SeedService
}

type harnessOption func(h *harness)

func withPackageRepo(wrap func(repos.PackageRepo) repos.PackageRepo) harnessOption {
	return func(h *harness) { h.packageRepo = wrap(h.packageRepo) }
}

func newHarness(t *testing.T, validator AddressValidator, opts ...harnessOption) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	h := &harness{
		db:            db,
		dbc:           dbctx.Context{Ctx: context.Background()},
		txr:           dbctx.NewTransactor(db),
		rec:           countingRecorder{},
		addressRepo:   repos.NewAddressRepo(db, log),
		packageRepo:   repos.NewPackageRepo(db, log),
		shipmentRepo:  repos.NewShipmentRepo(db, log),
		serviceRepo:   repos.NewShippingServiceRepo(db, log),
		savedAddrRepo: repos.NewSavedAddressRepo(db, log),
		savedPkgRepo:  repos.NewSavedPackageRepo(db, log),
	}
	for _, opt := range opts {
		opt(h)
	}
	if validator == nil {
		validator = stubValidator{result: func(a types.AddressDraft) addressval.Result {
			return addressval.Result{Valid: false, Address: a, Message: addressval.UnavailableMessage}
		}}
	}
	h.addresses = NewAddressService(h.txr, log, h.addressRepo, h.packageRepo, h.shipmentRepo, h.savedAddrRepo)
	h.packages = NewPackageService(h.txr, log, h.packageRepo, h.shipmentRepo, h.savedPkgRepo)
	h.shipments = NewShipmentService(h.txr, log, h.shipmentRepo, h.addressRepo, h.packageRepo, h.serviceRepo, h.savedPkgRepo, validator)
	h.uploads = NewUploadService(h.txr, log, h.rec, h.addresses, h.packageRepo, h.shipmentRepo)
	h.saved = NewSavedService(h.txr, log, h.addressRepo, h.packageRepo, h.savedAddrRepo, h.savedPkgRepo)
	h.seed = NewSeedService(h.txr, log, h.serviceRepo, h.addressRepo, h.packageRepo, h.savedAddrRepo, h.savedPkgRepo)
	return h
}

func (h *harness) seedServices(t *testing.T) (priority, ground *types.ShippingService) {
	t.Helper()
	return testutil.SeedServices(t, context.Background(), h.db)
}

func (h *harness) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := h.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

const uploadHeader = "From,,,,,,,To,,,,,,,Package,,,,,Contact,,Reference,\n" +
	"first,last,addr1,addr2,city,zip,state,first,last,addr1,addr2,city,zip,state,lbs,oz,l,w,h,phone1,phone2,order,sku\n"

// uploadRow builds one 23-column row shipping from the San Dimas depot.
func uploadRow(toFirst, toLine1, toCity, toZip, phone, order string) string {
	cells := []string{
		"Print TTS", "", `"502 W Arrow Hwy, STE P"`, "", "San Dimas", "91773", "CA",
		toFirst, "Doe", toLine1, "", toCity, toZip, "IL",
		"1", "8", "10", "8", "4",
		phone, "", order, "SKU-1",
	}
	return strings.Join(cells, ",")
}

func uploadCSV(rows ...string) []byte {
	return []byte(uploadHeader + strings.Join(rows, "\n") + "\n")
}
