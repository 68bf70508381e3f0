package models

import "time"

// Garment type codes known to the pricing and inventory tables. Unknown codes
// fall back to GarmentOthers.
const (
	GarmentBlouse = "BLOUSE"
	GarmentPolo   = "POLO"
	GarmentPants  = "PANTS"
	GarmentSkirt  = "SKIRT"
	GarmentDress  = "DRESS"
	GarmentJacket = "JACKET"
	GarmentOthers = "OTHERS"
)

// GarmentType is a lookup row for the garment catalogue
type GarmentType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the GarmentType model
func (GarmentType) TableName() string {
	return "garment_types"
}

// SeedGarmentTypes returns the garment catalogue seeded at startup
func SeedGarmentTypes() []GarmentType {
	return []GarmentType{
		{Code: GarmentBlouse, Name: "Blouse"},
		{Code: GarmentPolo, Name: "Polo"},
		{Code: GarmentPants, Name: "Pants"},
		{Code: GarmentSkirt, Name: "Skirt"},
		{Code: GarmentDress, Name: "Dress"},
		{Code: GarmentJacket, Name: "Jacket"},
		{Code: GarmentOthers, Name: "Others"},
	}
}
