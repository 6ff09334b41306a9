package shipping

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shiplabel/shiplabel-backend/internal/data/db"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

type SavedAddressRepo interface {
	Create(dbc dbctx.Context, saved []*types.SavedAddress) ([]*types.SavedAddress, error)
	GetByID(dbc dbctx.Context, id uint) (*types.SavedAddress, error)
	GetByName(dbc dbctx.Context, name string) (*types.SavedAddress, error)
	GetByAddressIDs(dbc dbctx.Context, addressIDs []uint) ([]*types.SavedAddress, error)
	List(dbc dbctx.Context) ([]*types.SavedAddress, error)
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type savedAddressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedAddressRepo(db *gorm.DB, baseLog *logger.Logger) SavedAddressRepo {
	repoLog := baseLog.With("repo", "SavedAddressRepo")
	return &savedAddressRepo{db: db, log: repoLog}
}

func (r *savedAddressRepo) Create(dbc dbctx.Context, saved []*types.SavedAddress) ([]*types.SavedAddress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(saved) == 0 {
		return []*types.SavedAddress{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Omit(clause.Associations).Create(&saved).Error; err != nil {
		return nil, db.TranslateError(err)
	}
	return saved, nil
}

func (r *savedAddressRepo) GetByID(dbc dbctx.Context, id uint) (*types.SavedAddress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SavedAddress
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Address").
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("saved address %d: %w", id, pkgerrors.ErrNotFound)
	}
	return results[0], nil
}

// GetByName returns nil when no preset carries the name.
func (r *savedAddressRepo) GetByName(dbc dbctx.Context, name string) (*types.SavedAddress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SavedAddress
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Address").
		Where("name = ?", name).
		Order("id ASC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *savedAddressRepo) GetByAddressIDs(dbc dbctx.Context, addressIDs []uint) ([]*types.SavedAddress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SavedAddress
	if len(addressIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("address_id IN ?", addressIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *savedAddressRepo) List(dbc dbctx.Context) ([]*types.SavedAddress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SavedAddress
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Address").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *savedAddressRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.SavedAddress{})
	return res.RowsAffected, res.Error
}

type SavedPackageRepo interface {
	Create(dbc dbctx.Context, saved []*types.SavedPackage) ([]*types.SavedPackage, error)
	GetByID(dbc dbctx.Context, id uint) (*types.SavedPackage, error)
	GetByName(dbc dbctx.Context, name string) (*types.SavedPackage, error)
	GetByPackageIDs(dbc dbctx.Context, packageIDs []uint) ([]*types.SavedPackage, error)
	List(dbc dbctx.Context) ([]*types.SavedPackage, error)
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type savedPackageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedPackageRepo(db *gorm.DB, baseLog *logger.Logger) SavedPackageRepo {
	repoLog := baseLog.With("repo", "SavedPackageRepo")
	return &savedPackageRepo{db: db, log: repoLog}
}

func (r *savedPackageRepo) Create(dbc dbctx.Context, saved []*types.SavedPackage) ([]*types.SavedPackage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(saved) == 0 {
		return []*types.SavedPackage{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Omit(clause.Associations).Create(&saved).Error; err != nil {
		return nil, db.TranslateError(err)
	}
	return saved, nil
}

func (r *savedPackageRepo) GetByID(dbc dbctx.Context, id uint) (*types.SavedPackage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SavedPackage
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Package").
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("saved package %d: %w", id, pkgerrors.ErrNotFound)
	}
	return results[0], nil
}

func (r *savedPackageRepo) GetByName(dbc dbctx.Context, name string) (*types.SavedPackage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SavedPackage
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Package").
		Where("name = ?", name).
		Order("id ASC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *savedPackageRepo) GetByPackageIDs(dbc dbctx.Context, packageIDs []uint) ([]*types.SavedPackage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SavedPackage
	if len(packageIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("package_id IN ?", packageIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *savedPackageRepo) List(dbc dbctx.Context) ([]*types.SavedPackage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SavedPackage
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Package").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *savedPackageRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.SavedPackage{})
	return res.RowsAffected, res.Error
}
