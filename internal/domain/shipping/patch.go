package shipping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
)

// NullableID distinguishes an absent key from an explicit null.
type NullableID struct {
	Set   bool
	Value *uint
}

func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v uint
	if err := json.Unmarshal(b, &v); err != nil {
		var s string
		if json.Unmarshal(b, &s) != nil {
			return fmt.Errorf("invalid id %s", string(b))
		}
		parsed, perr := strconv.ParseUint(s, 10, 64)
		if perr != nil {
			return fmt.Errorf("invalid id %q", s)
		}
		v = uint(parsed)
	}
	n.Value = &v
	return nil
}

// DecodePatch decodes raw JSON into dst and rejects field names dst does not declare.
func DecodePatch(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrInvalidArgument, err)
	}
	return nil
}

type AddressPatch struct {
	FirstName    *string `json:"first_name" validate:"omitnil,min=1,max=100"`
	LastName     *string `json:"last_name" validate:"omitnil,max=100"`
	AddressLine1 *string `json:"address_line1" validate:"omitnil,min=1,max=200"`
	AddressLine2 *string `json:"address_line2" validate:"omitnil,max=200"`
	City         *string `json:"city" validate:"omitnil,min=1,max=100"`
	State        *string `json:"state" validate:"omitnil,len=2"`
	ZipCode      *string `json:"zip_code" validate:"omitnil,min=1,max=20"`
	Phone        *string `json:"phone" validate:"omitnil,max=20"`
}

func (p AddressPatch) Validate() error { return Validate(p) }

func (p AddressPatch) Apply(a *Address) {
	setString(&a.FirstName, p.FirstName)
	setString(&a.LastName, p.LastName)
	setString(&a.AddressLine1, p.AddressLine1)
	setString(&a.AddressLine2, p.AddressLine2)
	setString(&a.City, p.City)
	setString(&a.State, p.State)
	setString(&a.ZipCode, p.ZipCode)
	setString(&a.Phone, p.Phone)
}

// AddressPatchFromDraft builds a patch that overwrites every field with the draft's values.
func AddressPatchFromDraft(d AddressDraft) AddressPatch {
	return AddressPatch{
		FirstName:    &d.FirstName,
		LastName:     &d.LastName,
		AddressLine1: &d.AddressLine1,
		AddressLine2: &d.AddressLine2,
		City:         &d.City,
		State:        &d.State,
		ZipCode:      &d.ZipCode,
		Phone:        &d.Phone,
	}
}

type PackagePatch struct {
	Length    *decimal.Decimal `json:"length"`
	Width     *decimal.Decimal `json:"width"`
	Height    *decimal.Decimal `json:"height"`
	WeightLbs *int             `json:"weight_lbs" validate:"omitnil,min=0"`
	WeightOz  *int             `json:"weight_oz" validate:"omitnil,min=0"`
	ItemSKU   *string          `json:"item_sku" validate:"omitnil,max=100"`
}

func (p PackagePatch) Validate() error {
	ve := &ValidationError{}
	collect(ve, p)
	if p.Length != nil {
		checkDimension(ve, "length", *p.Length)
	}
	if p.Width != nil {
		checkDimension(ve, "width", *p.Width)
	}
	if p.Height != nil {
		checkDimension(ve, "height", *p.Height)
	}
	return ve.orNil()
}

// ChangesWeight reports whether applying the patch can change the package's price.
func (p PackagePatch) ChangesWeight() bool {
	return p.WeightLbs != nil || p.WeightOz != nil
}

func (p PackagePatch) Apply(pkg *Package) {
	if p.Length != nil {
		pkg.Length = *p.Length
	}
	if p.Width != nil {
		pkg.Width = *p.Width
	}
	if p.Height != nil {
		pkg.Height = *p.Height
	}
	if p.WeightLbs != nil {
		pkg.WeightLbs = *p.WeightLbs
	}
	if p.WeightOz != nil {
		pkg.WeightOz = *p.WeightOz
	}
	setString(&pkg.ItemSKU, p.ItemSKU)
}

// ShipmentPatch lists the shipment fields a client may change. The price is never writable.
type ShipmentPatch struct {
	ShipFromID        NullableID      `json:"ship_from_id"`
	ShipToID          *uint           `json:"ship_to_id"`
	PackageID         *uint           `json:"package_id"`
	OrderNumber       *string         `json:"order_number" validate:"omitnil,max=100"`
	Status            *ShipmentStatus `json:"status"`
	ShippingServiceID NullableID      `json:"shipping_service_id"`
}

func (p ShipmentPatch) Validate() error {
	ve := &ValidationError{}
	collect(ve, p)
	if p.Status != nil && !p.Status.Valid() {
		ve.add("status", fmt.Sprintf("%q is not a valid choice", string(*p.Status)))
	}
	if p.ShipToID != nil && *p.ShipToID == 0 {
		ve.add("ship_to_id", "this field may not be null")
	}
	if p.PackageID != nil && *p.PackageID == 0 {
		ve.add("package_id", "this field may not be null")
	}
	return ve.orNil()
}

func (p ShipmentPatch) Empty() bool {
	return !p.ShipFromID.Set && p.ShipToID == nil && p.PackageID == nil &&
		p.OrderNumber == nil && p.Status == nil && !p.ShippingServiceID.Set
}

// ApplyScalars copies the fields that need no lookups. References are resolved by the caller.
func (p ShipmentPatch) ApplyScalars(s *Shipment) {
	setString(&s.OrderNumber, p.OrderNumber)
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.ShipFromID.Set {
		s.ShipFromID = p.ShipFromID.Value
		s.ShipFrom = nil
	}
	if p.ShipToID != nil {
		s.ShipToID = *p.ShipToID
		s.ShipTo = nil
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// ShipmentInput creates a shipment from existing records.
type ShipmentInput struct {
	ShipFromID        *uint          `json:"ship_from_id"`
	ShipToID          uint           `json:"ship_to_id" validate:"required"`
	PackageID         uint           `json:"package_id" validate:"required"`
	OrderNumber       string         `json:"order_number" validate:"max=100"`
	Status            ShipmentStatus `json:"status"`
	ShippingServiceID *uint          `json:"shipping_service_id"`
}

func (in ShipmentInput) Validate() error {
	ve := &ValidationError{}
	collect(ve, in)
	if in.Status != "" && !in.Status.Valid() {
		ve.add("status", fmt.Sprintf("%q is not a valid choice", string(in.Status)))
	}
	return ve.orNil()
}
