package society

import (
	"time"
)

// Society is the top-level organization a single owner manages.
type Society struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	SocietyType string `gorm:"size:50;not null" json:"society_type"`
	Address     string `gorm:"size:255;not null" json:"address"`
	City        string `gorm:"size:100" json:"city"`
	State       string `gorm:"size:100" json:"state"`
	Pincode     string `gorm:"size:10" json:"pincode"`
	CreatedBy   uint   `gorm:"not null;index" json:"created_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Society) TableName() string {
	return "societies"
}

// Building belongs to exactly one society.
type Building struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	SocietyID uint   `gorm:"not null;index" json:"society_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Building) TableName() string {
	return "buildings"
}

// Unit belongs to exactly one building. AllocatedUserID, when set, must
// reference a tenant-role user; the allocation path enforces it.
type Unit struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:50;not null" json:"name"`
	Floor           int    `json:"floor"`
	BuildingID      uint   `gorm:"not null;index" json:"building_id"`
	AllocatedUserID *uint  `gorm:"index" json:"allocated_user_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Unit) TableName() string {
	return "units"
}

// Agreement is a rental agreement attached to a unit, owned transitively
// through Unit → Building → Society.
type Agreement struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UnitID       uint      `gorm:"not null;index" json:"unit_id"`
	TenantUserID uint      `gorm:"not null;index" json:"tenant_user_id"`
	StartDate    time.Time `gorm:"not null" json:"start_date"`
	EndDate      time.Time `gorm:"not null" json:"end_date"`
	MonthlyRent  float64   `json:"monthly_rent"`
	Status       string    `gorm:"size:20;default:active" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Agreement) TableName() string {
	return "agreements"
}

// ParkingSlot is a slot attached to a unit.
type ParkingSlot struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UnitID        uint   `gorm:"not null;index" json:"unit_id"`
	SlotNumber    string `gorm:"size:20;not null" json:"slot_number"`
	VehicleNumber string `gorm:"size:20" json:"vehicle_number"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ParkingSlot) TableName() string {
	return "parking_slots"
}

// UnitWithLocation is the listing shape carrying the unit's place in the
// hierarchy.
type UnitWithLocation struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Floor           int    `json:"floor"`
	BuildingID      uint   `json:"building_id"`
	BuildingName    string `json:"building_name"`
	SocietyID       uint   `json:"society_id"`
	SocietyName     string `json:"society_name"`
	AllocatedUserID *uint  `json:"allocated_user_id,omitempty"`
	TenantName      string `json:"tenant_name,omitempty"`
}
