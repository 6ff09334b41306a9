package shipping

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShipmentStatus string

const (
	StatusPending   ShipmentStatus = "pending"
	StatusValidated ShipmentStatus = "validated"
	StatusReady     ShipmentStatus = "ready"
	StatusPurchased ShipmentStatus = "purchased"
)

func (s ShipmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusValidated, StatusReady, StatusPurchased:
		return true
	default:
		return false
	}
}

func (s ShipmentStatus) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusValidated:
		return "Validated"
	case StatusReady:
		return "Ready to Ship"
	case StatusPurchased:
		return "Purchased"
	default:
		return string(s)
	}
}

// Shipment owns its Package exclusively and references addresses that may be shared with
// other shipments through upserts.
type Shipment struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	ShipFromID        *uint               `gorm:"column:ship_from_id;index" json:"ship_from_id"`
	ShipFrom          *Address            `gorm:"foreignKey:ShipFromID;references:ID" json:"ship_from,omitempty"`
	ShipToID          uint                `gorm:"column:ship_to_id;not null;index" json:"ship_to_id"`
	ShipTo            *Address            `gorm:"foreignKey:ShipToID;references:ID" json:"ship_to,omitempty"`
	PackageID         uint                `gorm:"column:package_id;not null;index" json:"package_id"`
	Package           *Package            `gorm:"foreignKey:PackageID;references:ID" json:"package,omitempty"`
	OrderNumber       string              `gorm:"column:order_number;size:100" json:"order_number"`
	Status            ShipmentStatus      `gorm:"column:status;size:20;not null;default:'pending';index" json:"status"`
	ShippingServiceID *uint               `gorm:"column:shipping_service_id;index" json:"shipping_service_id"`
	ShippingService   *ShippingService    `gorm:"foreignKey:ShippingServiceID;references:ID" json:"shipping_service,omitempty"`
	ShippingPrice     decimal.NullDecimal `gorm:"column:shipping_price;type:numeric(8,2)" json:"shipping_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Shipment) TableName() string { return "shipment" }

// AssignService sets the service and caches the price computed by priceFn. A nil service
// clears both.
func (s *Shipment) AssignService(svc *ShippingService, pkg *Package, priceFn func(*ShippingService, *Package) decimal.Decimal) {
	if svc == nil {
		s.ShippingServiceID = nil
		s.ShippingService = nil
		s.ShippingPrice = decimal.NullDecimal{}
		return
	}
	id := svc.ID
	s.ShippingServiceID = &id
	s.ShippingService = svc
	if pkg == nil {
		s.ShippingPrice = decimal.NullDecimal{}
		return
	}
	s.ShippingPrice = decimal.NewNullDecimal(priceFn(svc, pkg).Round(2))
}
