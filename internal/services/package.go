package services

import (
	"fmt"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/modules/shipping/pricing"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

type PackageService interface {
	Create(dbc dbctx.Context, draft types.PackageDraft) (*types.Package, error)
	Get(dbc dbctx.Context, id uint) (*types.Package, error)
	List(dbc dbctx.Context) ([]*types.Package, error)
	Update(dbc dbctx.Context, id uint, patch types.PackagePatch) (*types.Package, error)
	Delete(dbc dbctx.Context, id uint) error
}

type packageService struct {
	txr           dbctx.Transactor
	log           *logger.Logger
	packages      repos.PackageRepo
	shipments     repos.ShipmentRepo
	savedPackages repos.SavedPackageRepo
}

func NewPackageService(
	txr dbctx.Transactor,
	baseLog *logger.Logger,
	packages repos.PackageRepo,
	shipments repos.ShipmentRepo,
	savedPackages repos.SavedPackageRepo,
) PackageService {
	serviceLog := baseLog.With("service", "PackageService")
	return &packageService{
		txr:           txr,
		log:           serviceLog,
		packages:      packages,
		shipments:     shipments,
		savedPackages: savedPackages,
	}
}

func (s *packageService) Create(dbc dbctx.Context, draft types.PackageDraft) (*types.Package, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	created, err := s.packages.Create(dbc, []*types.Package{types.NewPackage(draft)})
	if err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}
	s.log.Info("Creating new package", "package_id", created[0].ID)
	return created[0], nil
}

func (s *packageService) Get(dbc dbctx.Context, id uint) (*types.Package, error) {
	return s.packages.GetByID(dbc, id)
}

func (s *packageService) List(dbc dbctx.Context) ([]*types.Package, error) {
	return s.packages.List(dbc)
}

// Update keeps the owning shipment's cached price in step with the package weight.
func (s *packageService) Update(dbc dbctx.Context, id uint, patch types.PackagePatch) (*types.Package, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var out *types.Package
	err := s.txr.InTx(dbc, func(inner dbctx.Context) error {
		pkg, err := s.packages.GetByID(inner, id)
		if err != nil {
			return err
		}
		patch.Apply(pkg)
		if err := s.packages.Save(inner, pkg); err != nil {
			return fmt.Errorf("update package %d: %w", id, err)
		}
		out = pkg

		if !patch.ChangesWeight() {
			return nil
		}
		owner, err := s.shipments.GetByPackageID(inner, id)
		if err != nil {
			return err
		}
		if owner == nil || owner.ShippingService == nil {
			return nil
		}
		owner.AssignService(owner.ShippingService, pkg, pricing.Price)
		if err := s.shipments.Save(inner, owner); err != nil {
			return fmt.Errorf("reprice shipment %d: %w", owner.ID, err)
		}
		s.log.Debug("shipment repriced after package change", "shipment_id", owner.ID, "package_id", id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Updating package", "package_id", id)
	return out, nil
}

// Delete removes the package, the shipment owning it and any preset pointing at it.
func (s *packageService) Delete(dbc dbctx.Context, id uint) error {
	return s.txr.InTx(dbc, func(inner dbctx.Context) error {
		if _, err := s.packages.GetByID(inner, id); err != nil {
			return err
		}
		owner, err := s.shipments.GetByPackageID(inner, id)
		if err != nil {
			return err
		}
		if owner != nil {
			if _, err := s.shipments.DeleteByIDs(inner, []uint{owner.ID}); err != nil {
				return err
			}
		}
		saved, err := s.savedPackages.GetByPackageIDs(inner, []uint{id})
		if err != nil {
			return err
		}
		for _, sp := range saved {
			if _, err := s.savedPackages.DeleteByIDs(inner, []uint{sp.ID}); err != nil {
				return err
			}
		}
		_, err = s.packages.DeleteByIDs(inner, []uint{id})
		return err
	})
}
