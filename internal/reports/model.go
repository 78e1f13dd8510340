package reports

import "time"

const (
	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeCustom  = "custom"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
)

// SocietyOverview is the owner's rollup for one society.
type SocietyOverview struct {
	SocietyID      uint    `json:"societyId"`
	SocietyName    string  `json:"societyName"`
	BuildingCount  int64   `json:"buildingCount"`
	UnitCount      int64   `json:"unitCount"`
	OccupiedUnits  int64   `json:"occupiedUnits"`
	StaffCount     int64   `json:"staffCount"`
	VisitorsToday  int64   `json:"visitorsToday"`
	VisitorsInside int64   `json:"visitorsInside"`
	PendingDues    float64 `json:"pendingDues"`
	CollectedDues  float64 `json:"collectedDues"`
}

// VisitorRegisterRow is one line of the gate register export.
type VisitorRegisterRow struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	VisitorType string     `json:"visitorType"`
	UnitName    string     `json:"unitName"`
	GuardName   string     `json:"guardName"`
	CheckInAt   time.Time  `json:"checkInAt"`
	CheckOutAt  *time.Time `json:"checkOutAt"`
	IsFlagged   bool       `json:"isFlagged"`
}

// PaymentCollectionRow is one line of the collection export.
type PaymentCollectionRow struct {
	ID           uint       `json:"id"`
	UnitName     string     `json:"unitName"`
	BuildingName string     `json:"buildingName"`
	TenantName   string     `json:"tenantName"`
	Amount       float64    `json:"amount"`
	Status       string     `json:"status"`
	Method       string     `json:"method"`
	DueDate      time.Time  `json:"dueDate"`
	PaidDate     *time.Time `json:"paidDate"`
}
