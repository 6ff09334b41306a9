package services

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

//go:embed seeddata/default.yaml
var defaultSeed []byte

type SeedData struct {
	ShippingServices []SeedShippingService `yaml:"shipping_services"`
	SavedAddresses   []SeedSavedAddress    `yaml:"saved_addresses"`
	SavedPackages    []SeedSavedPackage    `yaml:"saved_packages"`
}

type SeedShippingService struct {
	Name      types.ServiceName `yaml:"name"`
	BasePrice decimal.Decimal   `yaml:"base_price"`
	PerOzRate decimal.Decimal   `yaml:"per_oz_rate"`
}

type SeedAddress struct {
	FirstName    string `yaml:"first_name"`
	LastName     string `yaml:"last_name"`
	AddressLine1 string `yaml:"address_line1"`
	AddressLine2 string `yaml:"address_line2"`
	City         string `yaml:"city"`
	State        string `yaml:"state"`
	ZipCode      string `yaml:"zip_code"`
	Phone        string `yaml:"phone"`
}

func (a SeedAddress) draft() types.AddressDraft {
	return types.AddressDraft{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		ZipCode:      a.ZipCode,
		Phone:        a.Phone,
	}
}

type SeedSavedAddress struct {
	Name    string      `yaml:"name"`
	Address SeedAddress `yaml:"address"`
}

type SeedPackage struct {
	Length    decimal.Decimal `yaml:"length"`
	Width     decimal.Decimal `yaml:"width"`
	Height    decimal.Decimal `yaml:"height"`
	WeightLbs int             `yaml:"weight_lbs"`
	WeightOz  int             `yaml:"weight_oz"`
	ItemSKU   string          `yaml:"item_sku"`
}

func (p SeedPackage) draft() types.PackageDraft {
	return types.PackageDraft{
		Length:    p.Length,
		Width:     p.Width,
		Height:    p.Height,
		WeightLbs: p.WeightLbs,
		WeightOz:  p.WeightOz,
		ItemSKU:   p.ItemSKU,
	}
}

type SeedSavedPackage struct {
	Name    string      `yaml:"name"`
	Package SeedPackage `yaml:"package"`
}

// SeedReport counts rows created by one Seed call. Existing rows are left untouched.
type SeedReport struct {
	Services       int
	SavedAddresses int
	SavedPackages  int
}

// LoadSeed decodes a seed file. A nil reader yields the built-in data.
func LoadSeed(r io.Reader) (*SeedData, error) {
	var raw []byte
	if r == nil {
		raw = defaultSeed
	} else {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &data, nil
}

type SeedService interface {
	Seed(dbc dbctx.Context, data *SeedData) (*SeedReport, error)
}

type seedService struct {
	txr            dbctx.Transactor
	log            *logger.Logger
	services       repos.ShippingServiceRepo
	addresses      repos.AddressRepo
	packages       repos.PackageRepo
	savedAddresses repos.SavedAddressRepo
	savedPackages  repos.SavedPackageRepo
}

func NewSeedService(
	txr dbctx.Transactor,
	baseLog *logger.Logger,
	services repos.ShippingServiceRepo,
	addresses repos.AddressRepo,
	packages repos.PackageRepo,
	savedAddresses repos.SavedAddressRepo,
	savedPackages repos.SavedPackageRepo,
) SeedService {
	return &seedService{
		txr:            txr,
		log:            baseLog.With("service", "SeedService"),
		services:       services,
		addresses:      addresses,
		packages:       packages,
		savedAddresses: savedAddresses,
		savedPackages:  savedPackages,
	}
}

// Seed creates whatever is missing by name in a single transaction.
func (s *seedService) Seed(dbc dbctx.Context, data *SeedData) (*SeedReport, error) {
	report := &SeedReport{}
	err := s.txr.InTx(dbc, func(inner dbctx.Context) error {
		for _, svc := range data.ShippingServices {
			if !svc.Name.Valid() {
				return fmt.Errorf("seed: unknown shipping service %q", svc.Name)
			}
			existing, err := s.services.GetByName(inner, svc.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			row := &types.ShippingService{Name: svc.Name, BasePrice: svc.BasePrice, PerOzRate: svc.PerOzRate}
			if _, err := s.services.Create(inner, []*types.ShippingService{row}); err != nil {
				return fmt.Errorf("seed service %s: %w", svc.Name, err)
			}
			report.Services++
		}

		for _, sa := range data.SavedAddresses {
			existing, err := s.savedAddresses.GetByName(inner, sa.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			draft := sa.Address.draft()
			if err := draft.Validate(); err != nil {
				return fmt.Errorf("seed saved address %q: %w", sa.Name, err)
			}
			created, err := s.addresses.Create(inner, []*types.Address{types.NewAddress(draft)})
			if err != nil {
				return err
			}
			if _, err := s.savedAddresses.Create(inner, []*types.SavedAddress{{Name: sa.Name, AddressID: created[0].ID}}); err != nil {
				return fmt.Errorf("seed saved address %q: %w", sa.Name, err)
			}
			report.SavedAddresses++
		}

		for _, sp := range data.SavedPackages {
			existing, err := s.savedPackages.GetByName(inner, sp.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			draft := sp.Package.draft()
			if err := draft.Validate(); err != nil {
				return fmt.Errorf("seed saved package %q: %w", sp.Name, err)
			}
			created, err := s.packages.Create(inner, []*types.Package{types.NewPackage(draft)})
			if err != nil {
				return err
			}
			if _, err := s.savedPackages.Create(inner, []*types.SavedPackage{{Name: sp.Name, PackageID: created[0].ID}}); err != nil {
				return fmt.Errorf("seed saved package %q: %w", sp.Name, err)
			}
			report.SavedPackages++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Seed complete", "services", report.Services, "saved_addresses", report.SavedAddresses, "saved_packages", report.SavedPackages)
	return report, nil
}
