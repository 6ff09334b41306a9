package services

import (
	"fmt"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

type AddressService interface {
	// Upsert finds the address by (address_line1, city, zip_code) and overwrites its other
	// fields with the draft, or creates it. Callers own the transaction scope.
	Upsert(dbc dbctx.Context, draft types.AddressDraft) (*types.Address, error)
	Create(dbc dbctx.Context, draft types.AddressDraft) (*types.Address, error)
	Get(dbc dbctx.Context, id uint) (*types.Address, error)
	List(dbc dbctx.Context) ([]*types.Address, error)
	Update(dbc dbctx.Context, id uint, patch types.AddressPatch) (*types.Address, error)
	Delete(dbc dbctx.Context, id uint) error
}

type addressService struct {
	txr            dbctx.Transactor
	log            *logger.Logger
	addresses      repos.AddressRepo
	packages       repos.PackageRepo
	shipments      repos.ShipmentRepo
	savedAddresses repos.SavedAddressRepo
}

func NewAddressService(
	txr dbctx.Transactor,
	baseLog *logger.Logger,
	addresses repos.AddressRepo,
	packages repos.PackageRepo,
	shipments repos.ShipmentRepo,
	savedAddresses repos.SavedAddressRepo,
) AddressService {
	serviceLog := baseLog.With("service", "AddressService")
	return &addressService{
		txr:            txr,
		log:            serviceLog,
		addresses:      addresses,
		packages:       packages,
		shipments:      shipments,
		savedAddresses: savedAddresses,
	}
}

func (s *addressService) Upsert(dbc dbctx.Context, draft types.AddressDraft) (*types.Address, error) {
	existing, err := s.addresses.FindByKey(dbc, draft.Key())
	if err != nil {
		return nil, fmt.Errorf("lookup address: %w", err)
	}
	if existing == nil {
		created, err := s.addresses.Create(dbc, []*types.Address{types.NewAddress(draft)})
		if err != nil {
			return nil, fmt.Errorf("create address: %w", err)
		}
		return created[0], nil
	}

	existing.Reconcile(draft)
	if err := s.addresses.Save(dbc, existing); err != nil {
		return nil, fmt.Errorf("update address %d: %w", existing.ID, err)
	}
	s.log.Debug("address reconciled", "address_id", existing.ID)
	return existing, nil
}

func (s *addressService) Create(dbc dbctx.Context, draft types.AddressDraft) (*types.Address, error) {
	if err := draft.ValidateComplete(); err != nil {
		return nil, err
	}
	created, err := s.addresses.Create(dbc, []*types.Address{types.NewAddress(draft)})
	if err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	s.log.Info("Creating new address", "address_id", created[0].ID)
	return created[0], nil
}

func (s *addressService) Get(dbc dbctx.Context, id uint) (*types.Address, error) {
	return s.addresses.GetByID(dbc, id)
}

func (s *addressService) List(dbc dbctx.Context) ([]*types.Address, error) {
	return s.addresses.List(dbc)
}

func (s *addressService) Update(dbc dbctx.Context, id uint, patch types.AddressPatch) (*types.Address, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var out *types.Address
	err := s.txr.InTx(dbc, func(inner dbctx.Context) error {
		addr, err := s.addresses.GetByID(inner, id)
		if err != nil {
			return err
		}
		patch.Apply(addr)
		if err := s.addresses.Save(inner, addr); err != nil {
			return fmt.Errorf("update address %d: %w", id, err)
		}
		out = addr
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Updating address", "address_id", id)
	return out, nil
}

// Delete removes the address together with every shipment that references it, the packages
// those shipments own and any preset pointing at it.
func (s *addressService) Delete(dbc dbctx.Context, id uint) error {
	return s.txr.InTx(dbc, func(inner dbctx.Context) error {
		if _, err := s.addresses.GetByID(inner, id); err != nil {
			return err
		}
		ids := []uint{id}

		shipments, err := s.shipments.GetByAddressIDs(inner, ids)
		if err != nil {
			return err
		}
		if len(shipments) > 0 {
			shipmentIDs := make([]uint, 0, len(shipments))
			packageIDs := make([]uint, 0, len(shipments))
			for _, sh := range shipments {
				shipmentIDs = append(shipmentIDs, sh.ID)
				packageIDs = append(packageIDs, sh.PackageID)
			}
			if _, err := s.shipments.DeleteByIDs(inner, shipmentIDs); err != nil {
				return err
			}
			if _, err := s.packages.DeleteByIDs(inner, packageIDs); err != nil {
				return err
			}
		}

		saved, err := s.savedAddresses.GetByAddressIDs(inner, ids)
		if err != nil {
			return err
		}
		if len(saved) > 0 {
			savedIDs := make([]uint, 0, len(saved))
			for _, sa := range saved {
				savedIDs = append(savedIDs, sa.ID)
			}
			if _, err := s.savedAddresses.DeleteByIDs(inner, savedIDs); err != nil {
				return err
			}
		}

		if _, err := s.addresses.DeleteByIDs(inner, ids); err != nil {
			return err
		}
		s.log.Info("address deleted", "address_id", id, "shipments", len(shipments))
		return nil
	})
}
