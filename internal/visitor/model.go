package visitor

import "time"

// VisitorType classifies who is at the gate.
type VisitorType string

const (
	TypeGuest    VisitorType = "GUEST"
	TypeDelivery VisitorType = "DELIVERY"
	TypeCab      VisitorType = "CAB"
	TypeService  VisitorType = "SERVICE"
	TypeOther    VisitorType = "OTHER"
)

// Visitor is one gate entry. SocietyID and GuardID are stamped at check-in
// and never change afterwards; a nil CheckOutAt means the visitor is still
// inside. SocietyID is denormalized from the unit so gate reads never join.
type Visitor struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Name        string      `json:"name" gorm:"not null"`
	Phone       string      `json:"phone"`
	VisitorType VisitorType `json:"visitorType" gorm:"not null;default:'GUEST'"`
	SocietyID   uint        `json:"societyId" gorm:"not null;index"`
	GuardID     uint        `json:"guardId" gorm:"not null;index"`
	UnitID      uint        `json:"unitId" gorm:"not null"`
	CheckInAt   time.Time   `json:"checkInAt" gorm:"not null"`
	CheckOutAt  *time.Time  `json:"checkOutAt"`
	IsFlagged   bool        `json:"isFlagged" gorm:"not null;default:false"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func (Visitor) TableName() string {
	return "visitors"
}

// Inside reports whether the visitor has not yet been checked out.
func (v *Visitor) Inside() bool {
	return v.CheckOutAt == nil
}

// SearchFilter narrows the visitor register. Society scoping is applied
// separately by the caller's scope filter, never by this struct.
type SearchFilter struct {
	Query       string
	VisitorType VisitorType
	InsideOnly  bool
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

// DailySummary is the guard's gate dashboard for one local day.
type DailySummary struct {
	Date            string    `json:"date"`
	TotalCheckIns   int64     `json:"totalCheckIns"`
	TotalInside     int64     `json:"totalInside"`
	TotalDeliveries int64     `json:"totalDeliveries"`
	TotalFlagged    int64     `json:"totalFlagged"`
	RecentVisitors  []Visitor `json:"recentVisitors"`
}
