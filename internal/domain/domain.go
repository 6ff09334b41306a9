package domain

import "github.com/shiplabel/shiplabel-backend/internal/domain/shipping"

const (
	StatusPending   = shipping.StatusPending
	StatusValidated = shipping.StatusValidated
	StatusReady     = shipping.StatusReady
	StatusPurchased = shipping.StatusPurchased

	ServicePriority = shipping.ServicePriority
	ServiceGround   = shipping.ServiceGround
)

type Address = shipping.Address
type AddressKey = shipping.AddressKey
type Package = shipping.Package
type ShippingService = shipping.ShippingService
type ServiceName = shipping.ServiceName
type Shipment = shipping.Shipment
type ShipmentStatus = shipping.ShipmentStatus
type SavedAddress = shipping.SavedAddress
type SavedPackage = shipping.SavedPackage

type AddressDraft = shipping.AddressDraft
type PackageDraft = shipping.PackageDraft
type ShipmentDraft = shipping.ShipmentDraft

type AddressPatch = shipping.AddressPatch
type PackagePatch = shipping.PackagePatch
type ShipmentPatch = shipping.ShipmentPatch
type NullableID = shipping.NullableID
type ShipmentInput = shipping.ShipmentInput

type ValidationError = shipping.ValidationError

var (
	NewAddress            = shipping.NewAddress
	NewPackage            = shipping.NewPackage
	DraftFromAddress      = shipping.DraftFromAddress
	AddressPatchFromDraft = shipping.AddressPatchFromDraft
	DecodePatch           = shipping.DecodePatch
	Validate              = shipping.Validate
)
