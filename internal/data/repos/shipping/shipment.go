package shipping

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

type ShipmentRepo interface {
	Create(dbc dbctx.Context, shipments []*types.Shipment) ([]*types.Shipment, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Shipment, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Shipment, error)
	GetByPackageID(dbc dbctx.Context, packageID uint) (*types.Shipment, error)
	GetByAddressIDs(dbc dbctx.Context, addressIDs []uint) ([]*types.Shipment, error)
	List(dbc dbctx.Context) ([]*types.Shipment, error)
	Save(dbc dbctx.Context, shipment *types.Shipment) error
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
	CachedPrices(dbc dbctx.Context) ([]decimal.Decimal, error)
}

type shipmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShipmentRepo(db *gorm.DB, baseLog *logger.Logger) ShipmentRepo {
	repoLog := baseLog.With("repo", "ShipmentRepo")
	return &shipmentRepo{db: db, log: repoLog}
}

func withGraph(q *gorm.DB) *gorm.DB {
	return q.
		Preload("ShipFrom").
		Preload("ShipTo").
		Preload("Package").
		Preload("ShippingService")
}

func (r *shipmentRepo) Create(dbc dbctx.Context, shipments []*types.Shipment) ([]*types.Shipment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(shipments) == 0 {
		return []*types.Shipment{}, nil
	}

	for _, s := range shipments {
		if s.Status == "" {
			s.Status = types.StatusPending
		}
	}

	if err := transaction.WithContext(dbc.Ctx).
		Omit(clause.Associations).
		Create(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

func (r *shipmentRepo) GetByID(dbc dbctx.Context, id uint) (*types.Shipment, error) {
	rows, err := r.GetByIDs(dbc, []uint{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("shipment %d: %w", id, pkgerrors.ErrNotFound)
	}
	return rows[0], nil
}

func (r *shipmentRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Shipment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Shipment
	if len(ids) == 0 {
		return results, nil
	}

	if err := withGraph(transaction.WithContext(dbc.Ctx)).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByPackageID returns the shipment owning the package, or nil.
func (r *shipmentRepo) GetByPackageID(dbc dbctx.Context, packageID uint) (*types.Shipment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Shipment
	if err := withGraph(transaction.WithContext(dbc.Ctx)).
		Where("package_id = ?", packageID).
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

// GetByAddressIDs returns shipments referencing any of the addresses as ship-from or ship-to.
func (r *shipmentRepo) GetByAddressIDs(dbc dbctx.Context, addressIDs []uint) ([]*types.Shipment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Shipment
	if len(addressIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("ship_to_id IN ? OR ship_from_id IN ?", addressIDs, addressIDs).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *shipmentRepo) List(dbc dbctx.Context) ([]*types.Shipment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Shipment
	if err := withGraph(transaction.WithContext(dbc.Ctx)).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *shipmentRepo) Save(dbc dbctx.Context, shipment *types.Shipment) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Omit(clause.Associations).Save(shipment).Error
}

func (r *shipmentRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.Shipment{})
	return res.RowsAffected, res.Error
}

// CachedPrices returns every non-null cached shipping price.
func (r *shipmentRepo) CachedPrices(dbc dbctx.Context) ([]decimal.Decimal, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var raw []decimal.NullDecimal
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Shipment{}).
		Where("shipping_price IS NOT NULL").
		Pluck("shipping_price", &raw).Error; err != nil {
		return nil, err
	}
	out := make([]decimal.Decimal, 0, len(raw))
	for _, p := range raw {
		if p.Valid {
			out = append(out, p.Decimal)
		}
	}
	return out, nil
}
