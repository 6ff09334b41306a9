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

type PackageRepo interface {
	Create(dbc dbctx.Context, packages []*types.Package) ([]*types.Package, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Package, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Package, error)
	List(dbc dbctx.Context) ([]*types.Package, error)
	Save(dbc dbctx.Context, pkg *types.Package) error
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type packageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPackageRepo(db *gorm.DB, baseLog *logger.Logger) PackageRepo {
	repoLog := baseLog.With("repo", "PackageRepo")
	return &packageRepo{db: db, log: repoLog}
}

func (r *packageRepo) Create(dbc dbctx.Context, packages []*types.Package) ([]*types.Package, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(packages) == 0 {
		return []*types.Package{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *packageRepo) GetByID(dbc dbctx.Context, id uint) (*types.Package, error) {
	rows, err := r.GetByIDs(dbc, []uint{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("package %d: %w", id, pkgerrors.ErrNotFound)
	}
	return rows[0], nil
}

func (r *packageRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Package, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Package
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

func (r *packageRepo) List(dbc dbctx.Context) ([]*types.Package, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Package
	if err := transaction.WithContext(dbc.Ctx).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *packageRepo) Save(dbc dbctx.Context, pkg *types.Package) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Omit(clause.Associations).Save(pkg).Error
}

func (r *packageRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.Package{})
	return res.RowsAffected, res.Error
}
