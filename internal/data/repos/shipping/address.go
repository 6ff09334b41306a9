package shipping

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

type AddressRepo interface {
	Create(dbc dbctx.Context, addresses []*types.Address) ([]*types.Address, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Address, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Address, error)
	FindByKey(dbc dbctx.Context, key types.AddressKey) (*types.Address, error)
	List(dbc dbctx.Context) ([]*types.Address, error)
	Save(dbc dbctx.Context, address *types.Address) error
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type addressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	repoLog := baseLog.With("repo", "AddressRepo")
	return &addressRepo{db: db, log: repoLog}
}

func (r *addressRepo) Create(dbc dbctx.Context, addresses []*types.Address) ([]*types.Address, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(addresses) == 0 {
		return []*types.Address{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepo) GetByID(dbc dbctx.Context, id uint) (*types.Address, error) {
	rows, err := r.GetByIDs(dbc, []uint{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("address %d: %w", id, pkgerrors.ErrNotFound)
	}
	return rows[0], nil
}

func (r *addressRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Address, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Address
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// FindByKey returns the oldest address matching the key exactly, or nil when none exists.
func (r *addressRepo) FindByKey(dbc dbctx.Context, key types.AddressKey) (*types.Address, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Address
	if err := transaction.WithContext(dbc.Ctx).
		Where("address_line1 = ? AND city = ? AND zip_code = ?", key.AddressLine1, key.City, key.ZipCode).
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

func (r *addressRepo) List(dbc dbctx.Context) ([]*types.Address, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Address
	if err := transaction.WithContext(dbc.Ctx).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *addressRepo) Save(dbc dbctx.Context, address *types.Address) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Omit(clause.Associations).Save(address).Error
}

func (r *addressRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.Address{})
	return res.RowsAffected, res.Error
}
