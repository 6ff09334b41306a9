package shipping

import (
	"strings"
	"time"
)

type Address struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FirstName    string `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName     string `gorm:"column:last_name;size:100" json:"last_name"`
	AddressLine1 string `gorm:"column:address_line1;size:200;not null;index:idx_address_lookup,priority:1" json:"address_line1"`
	AddressLine2 string `gorm:"column:address_line2;size:200" json:"address_line2"`
	City         string `gorm:"column:city;size:100;not null;index:idx_address_lookup,priority:2" json:"city"`
	State        string `gorm:"column:state;size:2;not null" json:"state"`
	ZipCode      string `gorm:"column:zip_code;size:20;not null;index:idx_address_lookup,priority:3" json:"zip_code"`
	Phone        string `gorm:"column:phone;size:20" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Address) TableName() string { return "address" }

// Key is the deduplication key used by upserts.
func (a *Address) Key() AddressKey {
	return AddressKey{AddressLine1: a.AddressLine1, City: a.City, ZipCode: a.ZipCode}
}

// Formatted renders the label block for the address.
func (a *Address) Formatted() string {
	lines := []string{
		strings.TrimSpace(a.FirstName + " " + a.LastName),
		a.AddressLine1,
	}
	if a.AddressLine2 != "" {
		lines = append(lines, a.AddressLine2)
	}
	lines = append(lines, a.City+", "+a.State+" "+a.ZipCode)
	return strings.Join(lines, "\n")
}

// Reconcile overwrites every non-key field with the draft's values.
func (a *Address) Reconcile(d AddressDraft) {
	a.FirstName = d.FirstName
	a.LastName = d.LastName
	a.AddressLine2 = d.AddressLine2
	a.State = d.State
	a.Phone = d.Phone
}

// AddressKey identifies a physical address for deduplication. It is a lookup key, not a
// uniqueness constraint.
type AddressKey struct {
	AddressLine1 string
	City         string
	ZipCode      string
}
