package handlers

import (
	"time"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
)

// Response bodies. Money and dimensions are fixed-point strings.

type AddressView struct {
	ID           uint   `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Phone        string `json:"phone"`
	Formatted    string `json:"formatted"`
}

func addressView(a *types.Address) *AddressView {
	if a == nil {
		return nil
	}
	return &AddressView{
		ID:           a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		ZipCode:      a.ZipCode,
		Phone:        a.Phone,
		Formatted:    a.Formatted(),
	}
}

type PackageView struct {
	ID            uint   `json:"id"`
	Length        string `json:"length"`
	Width         string `json:"width"`
	Height        string `json:"height"`
	WeightLbs     int    `json:"weight_lbs"`
	WeightOz      int    `json:"weight_oz"`
	ItemSKU       string `json:"item_sku"`
	TotalWeightOz int    `json:"total_weight_oz"`
}

func packageView(p *types.Package) *PackageView {
	if p == nil {
		return nil
	}
	return &PackageView{
		ID:            p.ID,
		Length:        p.Length.StringFixed(2),
		Width:         p.Width.StringFixed(2),
		Height:        p.Height.StringFixed(2),
		WeightLbs:     p.WeightLbs,
		WeightOz:      p.WeightOz,
		ItemSKU:       p.ItemSKU,
		TotalWeightOz: p.TotalWeightOz(),
	}
}

type ShippingServiceView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	NameDisplay string `json:"name_display"`
	BasePrice   string `json:"base_price"`
	PerOzRate   string `json:"per_oz_rate"`
}

func shippingServiceView(s *types.ShippingService) *ShippingServiceView {
	if s == nil {
		return nil
	}
	return &ShippingServiceView{
		ID:          s.ID,
		Name:        string(s.Name),
		NameDisplay: s.Name.Display(),
		BasePrice:   s.BasePrice.StringFixed(2),
		PerOzRate:   s.PerOzRate.StringFixed(4),
	}
}

type ShipmentView struct {
	ID                uint                 `json:"id"`
	ShipFrom          *AddressView         `json:"ship_from"`
	ShipTo            *AddressView         `json:"ship_to"`
	Package           *PackageView         `json:"package"`
	OrderNumber       string               `json:"order_number"`
	Status            string               `json:"status"`
	StatusDisplay     string               `json:"status_display"`
	ShippingService   *ShippingServiceView `json:"shipping_service"`
	ShippingServiceID *uint                `json:"shipping_service_id"`
	ShippingPrice     *string              `json:"shipping_price"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

func shipmentView(s *types.Shipment) *ShipmentView {
	if s == nil {
		return nil
	}
	v := &ShipmentView{
		ID:                s.ID,
		ShipFrom:          addressView(s.ShipFrom),
		ShipTo:            addressView(s.ShipTo),
		Package:           packageView(s.Package),
		OrderNumber:       s.OrderNumber,
		Status:            string(s.Status),
		StatusDisplay:     s.Status.Display(),
		ShippingService:   shippingServiceView(s.ShippingService),
		ShippingServiceID: s.ShippingServiceID,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.ShippingPrice.Valid {
		price := s.ShippingPrice.Decimal.StringFixed(2)
		v.ShippingPrice = &price
	}
	return v
}

func shipmentViews(rows []*types.Shipment) []*ShipmentView {
	out := make([]*ShipmentView, 0, len(rows))
	for _, s := range rows {
		out = append(out, shipmentView(s))
	}
	return out
}

type SavedAddressView struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Address   *AddressView `json:"address"`
	CreatedAt time.Time    `json:"created_at"`
}

func savedAddressView(s *types.SavedAddress) *SavedAddressView {
	return &SavedAddressView{ID: s.ID, Name: s.Name, Address: addressView(s.Address), CreatedAt: s.CreatedAt}
}

type SavedPackageView struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Package   *PackageView `json:"package"`
	CreatedAt time.Time    `json:"created_at"`
}

func savedPackageView(s *types.SavedPackage) *SavedPackageView {
	return &SavedPackageView{ID: s.ID, Name: s.Name, Package: packageView(s.Package), CreatedAt: s.CreatedAt}
}
