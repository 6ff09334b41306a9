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

type ShippingServiceRepo interface {
	Create(dbc dbctx.Context, services []*types.ShippingService) ([]*types.ShippingService, error)
	GetByID(dbc dbctx.Context, id uint) (*types.ShippingService, error)
	GetByName(dbc dbctx.Context, name types.ServiceName) (*types.ShippingService, error)
	List(dbc dbctx.Context) ([]*types.ShippingService, error)
	Save(dbc dbctx.Context, service *types.ShippingService) error
}

type shippingServiceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShippingServiceRepo(db *gorm.DB, baseLog *logger.Logger) ShippingServiceRepo {
	repoLog := baseLog.With("repo", "ShippingServiceRepo")
	return &shippingServiceRepo{db: db, log: repoLog}
}

func (r *shippingServiceRepo) Create(dbc dbctx.Context, services []*types.ShippingService) ([]*types.ShippingService, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(services) == 0 {
		return []*types.ShippingService{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&services).Error; err != nil {
		return nil, db.TranslateError(err)
	}
	return services, nil
}

func (r *shippingServiceRepo) GetByID(dbc dbctx.Context, id uint) (*types.ShippingService, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ShippingService
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("shipping service %d: %w", id, pkgerrors.ErrNotFound)
	}
	return results[0], nil
}

// GetByName returns nil when no service carries the name.
func (r *shippingServiceRepo) GetByName(dbc dbctx.Context, name types.ServiceName) (*types.ShippingService, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ShippingService
	if err := transaction.WithContext(dbc.Ctx).
		Where("name = ?", string(name)).
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

func (r *shippingServiceRepo) List(dbc dbctx.Context) ([]*types.ShippingService, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ShippingService
	if err := transaction.WithContext(dbc.Ctx).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *shippingServiceRepo) Save(dbc dbctx.Context, service *types.ShippingService) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Omit(clause.Associations).Save(service).Error
}
