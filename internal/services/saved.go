package services

import (
	"fmt"
	"strings"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

const maxPresetName = 100

// SavedService manages named presets. Creating a preset also creates the address or package
// it owns.
type SavedService interface {
	CreateAddress(dbc dbctx.Context, name string, draft types.AddressDraft) (*types.SavedAddress, error)
	GetAddress(dbc dbctx.Context, id uint) (*types.SavedAddress, error)
	ListAddresses(dbc dbctx.Context) ([]*types.SavedAddress, error)
	DeleteAddress(dbc dbctx.Context, id uint) error

	CreatePackage(dbc dbctx.Context, name string, draft types.PackageDraft) (*types.SavedPackage, error)
	GetPackage(dbc dbctx.Context, id uint) (*types.SavedPackage, error)
	ListPackages(dbc dbctx.Context) ([]*types.SavedPackage, error)
	DeletePackage(dbc dbctx.Context, id uint) error
}

type savedService struct {
	txr            dbctx.Transactor
	log            *logger.Logger
	addresses      repos.AddressRepo
	packages       repos.PackageRepo
	savedAddresses repos.SavedAddressRepo
	savedPackages  repos.SavedPackageRepo
}

func NewSavedService(
	txr dbctx.Transactor,
	baseLog *logger.Logger,
	addresses repos.AddressRepo,
	packages repos.PackageRepo,
	savedAddresses repos.SavedAddressRepo,
	savedPackages repos.SavedPackageRepo,
) SavedService {
	return &savedService{
		txr:            txr,
		log:            baseLog.With("service", "SavedService"),
		addresses:      addresses,
		packages:       packages,
		savedAddresses: savedAddresses,
		savedPackages:  savedPackages,
	}
}

func checkPresetName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxPresetName {
		ve := &types.ValidationError{Fields: map[string]string{"name": fmt.Sprintf("must be 1-%d characters", maxPresetName)}}
		return "", ve
	}
	return name, nil
}

func (s *savedService) CreateAddress(dbc dbctx.Context, name string, draft types.AddressDraft) (*types.SavedAddress, error) {
	name, err := checkPresetName(name)
	if err != nil {
		return nil, err
	}
	if err := draft.ValidateComplete(); err != nil {
		return nil, err
	}
	var id uint
	err = s.txr.InTx(dbc, func(inner dbctx.Context) error {
		created, err := s.addresses.Create(inner, []*types.Address{types.NewAddress(draft)})
		if err != nil {
			return fmt.Errorf("create address: %w", err)
		}
		saved, err := s.savedAddresses.Create(inner, []*types.SavedAddress{{Name: name, AddressID: created[0].ID}})
		if err != nil {
			return fmt.Errorf("create saved address: %w", err)
		}
		id = saved[0].ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Created saved address", "saved_address_id", id, "name", name)
	return s.savedAddresses.GetByID(dbc, id)
}

func (s *savedService) GetAddress(dbc dbctx.Context, id uint) (*types.SavedAddress, error) {
	return s.savedAddresses.GetByID(dbc, id)
}

func (s *savedService) ListAddresses(dbc dbctx.Context) ([]*types.SavedAddress, error) {
	return s.savedAddresses.List(dbc)
}

func (s *savedService) DeleteAddress(dbc dbctx.Context, id uint) error {
	n, err := s.savedAddresses.DeleteByIDs(dbc, []uint{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("saved address %d: %w", id, pkgerrors.ErrNotFound)
	}
	return nil
}

func (s *savedService) CreatePackage(dbc dbctx.Context, name string, draft types.PackageDraft) (*types.SavedPackage, error) {
	name, err := checkPresetName(name)
	if err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	var id uint
	err = s.txr.InTx(dbc, func(inner dbctx.Context) error {
		created, err := s.packages.Create(inner, []*types.Package{types.NewPackage(draft)})
		if err != nil {
			return fmt.Errorf("create package: %w", err)
		}
		saved, err := s.savedPackages.Create(inner, []*types.SavedPackage{{Name: name, PackageID: created[0].ID}})
		if err != nil {
			return fmt.Errorf("create saved package: %w", err)
		}
		id = saved[0].ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Created saved package", "saved_package_id", id, "name", name)
	return s.savedPackages.GetByID(dbc, id)
}

func (s *savedService) GetPackage(dbc dbctx.Context, id uint) (*types.SavedPackage, error) {
	return s.savedPackages.GetByID(dbc, id)
}

func (s *savedService) ListPackages(dbc dbctx.Context) ([]*types.SavedPackage, error) {
	return s.savedPackages.List(dbc)
}

func (s *savedService) DeletePackage(dbc dbctx.Context, id uint) error {
	n, err := s.savedPackages.DeleteByIDs(dbc, []uint{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("saved package %d: %w", id, pkgerrors.ErrNotFound)
	}
	return nil
}
