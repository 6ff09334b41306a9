package shipping

import "github.com/shopspring/decimal"

// AddressDraft is an address extracted from input that has not been persisted.
type AddressDraft struct {
	FirstName    string `json:"first_name" validate:"max=100"`
	LastName     string `json:"last_name" validate:"max=100"`
	AddressLine1 string `json:"address_line1" validate:"max=200"`
	AddressLine2 string `json:"address_line2" validate:"max=200"`
	City         string `json:"city" validate:"max=100"`
	State        string `json:"state" validate:"max=2"`
	ZipCode      string `json:"zip_code" validate:"max=20"`
	Phone        string `json:"phone" validate:"max=20"`
}

func (d AddressDraft) Key() AddressKey {
	return AddressKey{AddressLine1: d.AddressLine1, City: d.City, ZipCode: d.ZipCode}
}

// Validate enforces column limits only; ingestion decides which fields are required.
func (d AddressDraft) Validate() error {
	return Validate(d)
}

// ValidateComplete applies the rules for addresses entered directly through the API.
func (d AddressDraft) ValidateComplete() error {
	ve := &ValidationError{}
	collect(ve, d)
	for field, val := range map[string]string{
		"first_name":    d.FirstName,
		"address_line1": d.AddressLine1,
		"city":          d.City,
		"state":         d.State,
		"zip_code":      d.ZipCode,
	} {
		if val == "" {
			ve.add(field, "this field may not be blank")
		}
	}
	return ve.orNil()
}

func NewAddress(d AddressDraft) *Address {
	return &Address{
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		AddressLine1: d.AddressLine1,
		AddressLine2: d.AddressLine2,
		City:         d.City,
		State:        d.State,
		ZipCode:      d.ZipCode,
		Phone:        d.Phone,
	}
}

func DraftFromAddress(a *Address) AddressDraft {
	return AddressDraft{
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

type PackageDraft struct {
	Length    decimal.Decimal `json:"length"`
	Width     decimal.Decimal `json:"width"`
	Height    decimal.Decimal `json:"height"`
	WeightLbs int             `json:"weight_lbs" validate:"min=0"`
	WeightOz  int             `json:"weight_oz" validate:"min=0"`
	ItemSKU   string          `json:"item_sku" validate:"max=100"`
}

func (d PackageDraft) Validate() error {
	ve := &ValidationError{}
	collect(ve, d)
	checkDimension(ve, "length", d.Length)
	checkDimension(ve, "width", d.Width)
	checkDimension(ve, "height", d.Height)
	return ve.orNil()
}

// ShipmentDraft is the full graph produced from one upload row.
type ShipmentDraft struct {
	ShipFrom    *AddressDraft `json:"ship_from" validate:"omitnil"`
	ShipTo      AddressDraft  `json:"ship_to"`
	Package     PackageDraft  `json:"package"`
	OrderNumber string        `json:"order_number" validate:"max=100"`
}

func (d ShipmentDraft) Validate() error {
	ve := &ValidationError{}
	collect(ve, d)
	checkDimension(ve, "package.length", d.Package.Length)
	checkDimension(ve, "package.width", d.Package.Width)
	checkDimension(ve, "package.height", d.Package.Height)
	return ve.orNil()
}

// HasShipFrom reports whether the draft carries a ship-from address worth persisting.
func (d ShipmentDraft) HasShipFrom() bool {
	return d.ShipFrom != nil && d.ShipFrom.AddressLine1 != ""
}
