package shipping

import "time"

// SavedAddress is a named preset owning exactly one Address.
type SavedAddress struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null;index" json:"name"`
	AddressID uint      `gorm:"column:address_id;not null;uniqueIndex" json:"address_id"`
	Address   *Address  `gorm:"foreignKey:AddressID;references:ID" json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (SavedAddress) TableName() string { return "saved_address" }

// SavedPackage is a named preset owning exactly one Package.
type SavedPackage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null;index" json:"name"`
	PackageID uint      `gorm:"column:package_id;not null;uniqueIndex" json:"package_id"`
	Package   *Package  `gorm:"foreignKey:PackageID;references:ID" json:"package,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (SavedPackage) TableName() string { return "saved_package" }
