package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/modules/shipping/pricing"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
	"github.com/shiplabel/shiplabel-backend/internal/platform/addressval"
)

// AddressValidator is the address-normalization capability used by ValidateAddress.
type AddressValidator interface {
	Validate(ctx context.Context, addr types.AddressDraft) addressval.Result
	ValidateMany(ctx context.Context, addrs []types.AddressDraft) []addressval.Result
}

// ErrMissingAddress means the shipment has no address on the requested side.
var ErrMissingAddress = fmt.Errorf("address not found: %w", pkgerrors.ErrInvalidArgument)

// Address sides accepted by ValidateAddress.
const (
	SideFrom = "from"
	SideTo   = "to"
)

type AddressValidation struct {
	ShipmentID       uint
	IsValid          bool
	ValidatedAddress *types.Address
	Error            *string
}

type ShipmentService interface {
	Create(dbc dbctx.Context, in types.ShipmentInput) (*types.Shipment, error)
	Get(dbc dbctx.Context, id uint) (*types.Shipment, error)
	List(dbc dbctx.Context) ([]*types.Shipment, error)
	Update(dbc dbctx.Context, id uint, patch types.ShipmentPatch) (*types.Shipment, error)
	Delete(dbc dbctx.Context, id uint) error

	BulkUpdate(dbc dbctx.Context, ids []uint, patch types.ShipmentPatch) (int, error)
	BulkDelete(dbc dbctx.Context, ids []uint) (int, error)
	BulkAssignService(dbc dbctx.Context, ids []uint, option string, serviceID *uint) (int, error)
	TotalPrice(dbc dbctx.Context) (decimal.Decimal, error)
	ValidateAddress(dbc dbctx.Context, id uint, side string) (*AddressValidation, error)
	BulkValidateAddresses(dbc dbctx.Context, ids []uint, side string) ([]*AddressValidation, error)
}

type shipmentService struct {
	txr           dbctx.Transactor
	log           *logger.Logger
	shipments     repos.ShipmentRepo
	addresses     repos.AddressRepo
	packages      repos.PackageRepo
	services      repos.ShippingServiceRepo
	savedPackages repos.SavedPackageRepo
	validator     AddressValidator
}

func NewShipmentService(
	txr dbctx.Transactor,
	baseLog *logger.Logger,
	shipments repos.ShipmentRepo,
	addresses repos.AddressRepo,
	packages repos.PackageRepo,
	services repos.ShippingServiceRepo,
	savedPackages repos.SavedPackageRepo,
	validator AddressValidator,
) ShipmentService {
	serviceLog := baseLog.With("service", "ShipmentService")
	return &shipmentService{
		txr:           txr,
		log:           serviceLog,
		shipments:     shipments,
		addresses:     addresses,
		packages:      packages,
		services:      services,
		savedPackages: savedPackages,
		validator:     validator,
	}
}

func (s *shipmentService) Create(dbc dbctx.Context, in types.ShipmentInput) (*types.Shipment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var id uint
	err := s.txr.InTx(dbc, func(inner dbctx.Context) error {
		if _, err := s.addresses.GetByID(inner, in.ShipToID); err != nil {
			return err
		}
		if in.ShipFromID != nil {
			if _, err := s.addresses.GetByID(inner, *in.ShipFromID); err != nil {
				return err
			}
		}
		pkg, err := s.claimPackage(inner, in.PackageID, 0)
		if err != nil {
			return err
		}

		status := in.Status
		if status == "" {
			status = types.StatusPending
		}
		sh := &types.Shipment{
			ShipFromID:  in.ShipFromID,
			ShipToID:    in.ShipToID,
			PackageID:   pkg.ID,
			OrderNumber: in.OrderNumber,
			Status:      status,
		}
		if in.ShippingServiceID != nil {
			svc, err := s.services.GetByID(inner, *in.ShippingServiceID)
			if err != nil {
				return err
			}
			sh.AssignService(svc, pkg, pricing.Price)
		}
		if _, err := s.shipments.Create(inner, []*types.Shipment{sh}); err != nil {
			return fmt.Errorf("create shipment: %w", err)
		}
		id = sh.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Created shipment", "shipment_id", id)
	return s.shipments.GetByID(dbc, id)
}

func (s *shipmentService) Get(dbc dbctx.Context, id uint) (*types.Shipment, error) {
	return s.shipments.GetByID(dbc, id)
}

func (s *shipmentService) List(dbc dbctx.Context) ([]*types.Shipment, error) {
	return s.shipments.List(dbc)
}

func (s *shipmentService) Update(dbc dbctx.Context, id uint, patch types.ShipmentPatch) (*types.Shipment, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	err := s.txr.InTx(dbc, func(inner dbctx.Context) error {
		sh, err := s.shipments.GetByID(inner, id)
		if err != nil {
			return err
		}
		if err := s.applyPatch(inner, sh, patch); err != nil {
			return err
		}
		return s.shipments.Save(inner, sh)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Updated shipment", "shipment_id", id)
	return s.shipments.GetByID(dbc, id)
}

// applyPatch resolves references, applies the patch and refreshes the cached price when the
// service or package changed.
func (s *shipmentService) applyPatch(dbc dbctx.Context, sh *types.Shipment, patch types.ShipmentPatch) error {
	if patch.ShipToID != nil {
		if _, err := s.addresses.GetByID(dbc, *patch.ShipToID); err != nil {
			return err
		}
	}
	if patch.ShipFromID.Set && patch.ShipFromID.Value != nil {
		if _, err := s.addresses.GetByID(dbc, *patch.ShipFromID.Value); err != nil {
			return err
		}
	}

	pkg := sh.Package
	repackaged := false
	if patch.PackageID != nil && *patch.PackageID != sh.PackageID {
		claimed, err := s.claimPackage(dbc, *patch.PackageID, sh.ID)
		if err != nil {
			return err
		}
		pkg = claimed
		sh.PackageID = claimed.ID
		sh.Package = claimed
		repackaged = true
	}

	patch.ApplyScalars(sh)

	switch {
	case patch.ShippingServiceID.Set && patch.ShippingServiceID.Value == nil:
		sh.AssignService(nil, nil, nil)
	case patch.ShippingServiceID.Set:
		svc, err := s.services.GetByID(dbc, *patch.ShippingServiceID.Value)
		if err != nil {
			return err
		}
		if pkg == nil {
			if pkg, err = s.packages.GetByID(dbc, sh.PackageID); err != nil {
				return err
			}
		}
		sh.AssignService(svc, pkg, pricing.Price)
	case repackaged && sh.ShippingService != nil:
		sh.AssignService(sh.ShippingService, pkg, pricing.Price)
	}
	return nil
}

// claimPackage loads a package that is free to be owned by shipment ownerID (0 for a new one).
func (s *shipmentService) claimPackage(dbc dbctx.Context, packageID, ownerID uint) (*types.Package, error) {
	pkg, err := s.packages.GetByID(dbc, packageID)
	if err != nil {
		return nil, err
	}
	owner, err := s.shipments.GetByPackageID(dbc, packageID)
	if err != nil {
		return nil, err
	}
	if owner != nil && owner.ID != ownerID {
		return nil, fmt.Errorf("package %d belongs to shipment %d: %w", packageID, owner.ID, pkgerrors.ErrConflict)
	}
	presets, err := s.savedPackages.GetByPackageIDs(dbc, []uint{packageID})
	if err != nil {
		return nil, err
	}
	if len(presets) > 0 {
		return nil, fmt.Errorf("package %d is a saved preset: %w", packageID, pkgerrors.ErrConflict)
	}
	return pkg, nil
}

func (s *shipmentService) Delete(dbc dbctx.Context, id uint) error {
	n, err := s.BulkDelete(dbc, []uint{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("shipment %d: %w", id, pkgerrors.ErrNotFound)
	}
	return nil
}

func (s *shipmentService) BulkUpdate(dbc dbctx.Context, ids []uint, patch types.ShipmentPatch) (int, error) {
	if err := patch.Validate(); err != nil {
		return 0, err
	}
	s.log.Info("Bulk updating shipments", "requested", len(ids))

	updated := 0
	err := s.txr.InTx(dbc, func(inner dbctx.Context) error {
		rows, err := s.shipments.GetByIDs(inner, ids)
		if err != nil {
			return err
		}
		if patch.PackageID != nil && len(rows) > 1 {
			return fmt.Errorf("one package cannot be assigned to %d shipments: %w", len(rows), pkgerrors.ErrConflict)
		}
		for _, sh := range rows {
			if err := s.applyPatch(inner, sh, patch); err != nil {
				return err
			}
			if err := s.shipments.Save(inner, sh); err != nil {
				return fmt.Errorf("update shipment %d: %w", sh.ID, err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("Successfully updated shipments", "updated", updated)
	return updated, nil
}

// BulkDelete removes the shipments and the packages they own.
func (s *shipmentService) BulkDelete(dbc dbctx.Context, ids []uint) (int, error) {
	s.log.Info("Bulk deleting shipments", "requested", len(ids))

	var deleted int64
	err := s.txr.InTx(dbc, func(inner dbctx.Context) error {
		rows, err := s.shipments.GetByIDs(inner, ids)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		shipmentIDs := make([]uint, 0, len(rows))
		packageIDs := make([]uint, 0, len(rows))
		for _, sh := range rows {
			shipmentIDs = append(shipmentIDs, sh.ID)
			packageIDs = append(packageIDs, sh.PackageID)
		}
		if deleted, err = s.shipments.DeleteByIDs(inner, shipmentIDs); err != nil {
			return err
		}
		_, err = s.packages.DeleteByIDs(inner, packageIDs)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("Successfully deleted shipments", "deleted", deleted)
	return int(deleted), nil
}

// BulkAssignService resolves the option before any shipment is read.
func (s *shipmentService) BulkAssignService(dbc dbctx.Context, ids []uint, option string, serviceID *uint) (int, error) {
	s.log.Info("Bulk updating shipping service", "requested", len(ids), "option", option)

	catalog, err := s.services.List(dbc)
	if err != nil {
		return 0, err
	}
	resolved, err := pricing.ResolveServiceOption(option, serviceID, catalog)
	if err != nil {
		return 0, err
	}
	var svc *types.ShippingService
	for _, c := range catalog {
		if c.ID == resolved {
			svc = c
		}
	}

	updated := 0
	err = s.txr.InTx(dbc, func(inner dbctx.Context) error {
		rows, err := s.shipments.GetByIDs(inner, ids)
		if err != nil {
			return err
		}
		for _, sh := range rows {
			pkg := sh.Package
			if pkg == nil {
				if pkg, err = s.packages.GetByID(inner, sh.PackageID); err != nil {
					return err
				}
			}
			sh.AssignService(svc, pkg, pricing.Price)
			if err := s.shipments.Save(inner, sh); err != nil {
				return fmt.Errorf("update shipment %d: %w", sh.ID, err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("Successfully updated shipping service", "updated", updated, "service_id", resolved)
	return updated, nil
}

func (s *shipmentService) TotalPrice(dbc dbctx.Context) (decimal.Decimal, error) {
	prices, err := s.shipments.CachedPrices(dbc)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Sum(decimal.Zero, prices...).Round(2)
	s.log.Info("Calculated total price", "total", total.StringFixed(2))
	return total, nil
}

func normalizeSide(side string) (string, error) {
	side = strings.ToLower(strings.TrimSpace(side))
	if side == "" {
		side = SideTo
	}
	if side != SideFrom && side != SideTo {
		return "", fmt.Errorf("type must be %q or %q: %w", SideFrom, SideTo, pkgerrors.ErrInvalidArgument)
	}
	return side, nil
}

func sideAddress(sh *types.Shipment, side string) *types.Address {
	if side == SideFrom {
		return sh.ShipFrom
	}
	return sh.ShipTo
}

// ValidateAddress normalizes one side of a shipment. On success the stored address is
// overwritten and the shipment moves to validated.
func (s *shipmentService) ValidateAddress(dbc dbctx.Context, id uint, side string) (*AddressValidation, error) {
	side, err := normalizeSide(side)
	if err != nil {
		return nil, err
	}
	sh, err := s.shipments.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	addr := sideAddress(sh, side)
	if addr == nil {
		return nil, fmt.Errorf("shipment %d ship %s: %w", id, side, ErrMissingAddress)
	}

	s.log.Info("Validating address", "side", side, "shipment_id", id)
	res := s.validator.Validate(dbc.Ctx, types.DraftFromAddress(addr))
	out := &AddressValidation{ShipmentID: id}
	err = s.txr.InTx(dbc, func(inner dbctx.Context) error {
		return s.applyValidation(inner, sh, addr, res, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkValidateAddresses validates one side of many shipments with concurrent provider calls.
// Shipments without an address on that side get an error entry instead of failing the batch.
func (s *shipmentService) BulkValidateAddresses(dbc dbctx.Context, ids []uint, side string) ([]*AddressValidation, error) {
	side, err := normalizeSide(side)
	if err != nil {
		return nil, err
	}
	rows, err := s.shipments.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*AddressValidation, len(rows))
	drafts := make([]types.AddressDraft, 0, len(rows))
	pending := make([]int, 0, len(rows))
	for i, sh := range rows {
		out[i] = &AddressValidation{ShipmentID: sh.ID}
		addr := sideAddress(sh, side)
		if addr == nil {
			msg := fmt.Sprintf("Ship %s address not found", side)
			out[i].Error = &msg
			continue
		}
		drafts = append(drafts, types.DraftFromAddress(addr))
		pending = append(pending, i)
	}
	s.log.Info("Bulk validating addresses", "side", side, "requested", len(ids), "addresses", len(drafts))

	results := s.validator.ValidateMany(dbc.Ctx, drafts)
	err = s.txr.InTx(dbc, func(inner dbctx.Context) error {
		for j, i := range pending {
			sh := rows[i]
			if err := s.applyValidation(inner, sh, sideAddress(sh, side), results[j], out[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *shipmentService) applyValidation(dbc dbctx.Context, sh *types.Shipment, addr *types.Address, res addressval.Result, out *AddressValidation) error {
	if !res.Valid {
		msg := res.Message
		out.Error = &msg
		return nil
	}
	types.AddressPatchFromDraft(res.Address).Apply(addr)
	if err := s.addresses.Save(dbc, addr); err != nil {
		return fmt.Errorf("save validated address: %w", err)
	}
	sh.Status = types.StatusValidated
	if err := s.shipments.Save(dbc, sh); err != nil {
		return err
	}
	out.IsValid = true
	out.ValidatedAddress = addr
	return nil
}
