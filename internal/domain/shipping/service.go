package shipping

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceName string

const (
	ServicePriority ServiceName = "priority"
	ServiceGround   ServiceName = "ground"
)

func (n ServiceName) Valid() bool {
	return n == ServicePriority || n == ServiceGround
}

func (n ServiceName) Display() string {
	switch n {
	case ServicePriority:
		return "Priority Mail"
	case ServiceGround:
		return "Ground Shipping"
	default:
		return string(n)
	}
}

// ShippingService is seeded reference data with a linear rate table.
type ShippingService struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      ServiceName     `gorm:"column:name;size:50;not null;uniqueIndex" json:"name"`
	BasePrice decimal.Decimal `gorm:"column:base_price;type:numeric(8,2);not null" json:"base_price"`
	PerOzRate decimal.Decimal `gorm:"column:per_oz_rate;type:numeric(8,4);not null;default:0" json:"per_oz_rate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ShippingService) TableName() string { return "shipping_service" }
