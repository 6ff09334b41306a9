package shipping

import (
	"time"

	"github.com/shopspring/decimal"
)

type Package struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Length    decimal.Decimal `gorm:"column:length;type:numeric(6,2);not null" json:"length"`
	Width     decimal.Decimal `gorm:"column:width;type:numeric(6,2);not null" json:"width"`
	Height    decimal.Decimal `gorm:"column:height;type:numeric(6,2);not null" json:"height"`
	WeightLbs int             `gorm:"column:weight_lbs;not null;default:0" json:"weight_lbs"`
	WeightOz  int             `gorm:"column:weight_oz;not null;default:0" json:"weight_oz"`
	ItemSKU   string          `gorm:"column:item_sku;size:100" json:"item_sku"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Package) TableName() string { return "package" }

// TotalWeightOz is always derived from the pound and ounce fields.
func (p *Package) TotalWeightOz() int {
	return p.WeightLbs*16 + p.WeightOz
}

func NewPackage(d PackageDraft) *Package {
	return &Package{
		Length:    d.Length,
		Width:     d.Width,
		Height:    d.Height,
		WeightLbs: d.WeightLbs,
		WeightOz:  d.WeightOz,
		ItemSKU:   d.ItemSKU,
	}
}
