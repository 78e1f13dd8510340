package payment

import "time"

type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
	StatusPaid    PaymentStatus = "PAID"
	StatusOverdue PaymentStatus = "OVERDUE"
)

// Payment is a maintenance or rent demand raised against a unit. A payment
// starts PENDING; recording it moves it to PAID with the paid date stamped.
// OVERDUE is derived from the due date at read time for pending rows.
type Payment struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	UnitID    uint          `json:"unitId" gorm:"not null;index"`
	Amount    float64       `json:"amount" gorm:"not null"`
	Status    PaymentStatus `json:"status" gorm:"not null;default:'PENDING'"`
	Method    string        `json:"method"`
	Note      string        `json:"note"`
	DueDate   time.Time     `json:"dueDate" gorm:"not null"`
	PaidDate  *time.Time    `json:"paidDate"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentWithUnit carries the unit and building labels used by listings.
type PaymentWithUnit struct {
	Payment
	UnitName     string `json:"unitName"`
	BuildingName string `json:"buildingName"`
	SocietyID    uint   `json:"societyId"`
}

// MonthlyTotal is the PAID amount for one calendar month ("2006-01").
type MonthlyTotal struct {
	Month     string  `json:"month"`
	TotalPaid float64 `json:"totalPaid"`
	PaidCount int64   `json:"paidCount"`
}

// PaymentSummary rolls up everything the actor can see: PAID amounts by
// month of settlement, plus the open book split into pending and overdue.
type PaymentSummary struct {
	Monthly      []MonthlyTotal `json:"monthly" gorm:"-"`
	TotalPending float64        `json:"totalPending"`
	TotalOverdue float64        `json:"totalOverdue"`
	PendingCount int64          `json:"pendingCount"`
	OverdueCount int64          `json:"overdueCount"`
}

// CollectionSummary totals a society's payments for a period.
type CollectionSummary struct {
	SocietyID      uint    `json:"societyId"`
	TotalCollected float64 `json:"totalCollected"`
	TotalPending   float64 `json:"totalPending"`
	TotalOverdue   float64 `json:"totalOverdue"`
	PaidCount      int64   `json:"paidCount"`
	PendingCount   int64   `json:"pendingCount"`
	OverdueCount   int64   `json:"overdueCount"`
}
