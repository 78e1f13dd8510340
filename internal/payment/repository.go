package payment

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/prateeks07/society-management-backend/internal/scope"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uint) (*Payment, error)
	// MarkPaid flips a pending payment to PAID exactly once.
	MarkPaid(ctx context.Context, id uint, method string, paidAt time.Time) (*Payment, error)
	ListByUnit(ctx context.Context, unitID uint) ([]Payment, error)
	ListScoped(ctx context.Context, sf scope.Filter, status PaymentStatus) ([]PaymentWithUnit, error)
	ListByTenant(ctx context.Context, userID uint) ([]PaymentWithUnit, error)
	CollectionSummary(ctx context.Context, societyID uint, from, to time.Time, now time.Time) (*CollectionSummary, error)
	Summary(ctx context.Context, sf scope.Filter, now time.Time) (*PaymentSummary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Payment, error) {
	var p Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scope.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) MarkPaid(ctx context.Context, id uint, method string, paidAt time.Time) (*Payment, error) {
	res := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("id = ? AND status <> ?", id, StatusPaid).
		Updates(map[string]interface{}{
			"status":    StatusPaid,
			"method":    method,
			"paid_date": paidAt,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, scope.ErrInvalidState
	}
	return r.GetByID(ctx, id)
}

func (r *repository) ListByUnit(ctx context.Context, unitID uint) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("due_date DESC").
		Find(&payments).Error
	return payments, err
}

const paymentWithUnitSelect = `payments.*, u.name AS unit_name, b.name AS building_name, b.society_id AS society_id`

func (r *repository) ListScoped(ctx context.Context, sf scope.Filter, status PaymentStatus) ([]PaymentWithUnit, error) {
	q := r.db.WithContext(ctx).
		Table("payments").
		Select(paymentWithUnitSelect).
		Joins("JOIN units u ON u.id = payments.unit_id").
		Joins("JOIN buildings b ON b.id = u.building_id")
	q = sf.Apply(q, "b.society_id")
	q = sf.ApplyUnitOwner(q, "u.allocated_user_id")

	if status != "" {
		q = q.Where("payments.status = ?", status)
	}

	var payments []PaymentWithUnit
	err := q.Order("payments.due_date DESC").Scan(&payments).Error
	return payments, err
}

func (r *repository) ListByTenant(ctx context.Context, userID uint) ([]PaymentWithUnit, error) {
	var payments []PaymentWithUnit
	err := r.db.WithContext(ctx).
		Table("payments").
		Select(paymentWithUnitSelect).
		Joins("JOIN units u ON u.id = payments.unit_id").
		Joins("JOIN buildings b ON b.id = u.building_id").
		Where("u.allocated_user_id = ?", userID).
		Order("payments.due_date DESC").
		Scan(&payments).Error
	return payments, err
}

// Summary aggregates over everything the scope filter admits. Month bucketing
// happens in Go so the same query runs on every driver.
func (r *repository) Summary(ctx context.Context, sf scope.Filter, now time.Time) (*PaymentSummary, error) {
	summary := &PaymentSummary{Monthly: []MonthlyTotal{}}

	openQ := r.db.WithContext(ctx).
		Table("payments").
		Select(`COALESCE(SUM(CASE WHEN payments.due_date >= ? THEN payments.amount ELSE 0 END), 0) AS total_pending,
			COALESCE(SUM(CASE WHEN payments.due_date < ? THEN payments.amount ELSE 0 END), 0) AS total_overdue,
			COUNT(CASE WHEN payments.due_date >= ? THEN 1 END) AS pending_count,
			COUNT(CASE WHEN payments.due_date < ? THEN 1 END) AS overdue_count`,
			now, now, now, now).
		Joins("JOIN units u ON u.id = payments.unit_id").
		Joins("JOIN buildings b ON b.id = u.building_id").
		Where("payments.status <> ?", StatusPaid)
	openQ = sf.Apply(openQ, "b.society_id")
	openQ = sf.ApplyUnitOwner(openQ, "u.allocated_user_id")
	if err := openQ.Scan(summary).Error; err != nil {
		return nil, err
	}

	var paid []struct {
		PaidDate time.Time
		Amount   float64
	}
	paidQ := r.db.WithContext(ctx).
		Table("payments").
		Select("payments.paid_date, payments.amount").
		Joins("JOIN units u ON u.id = payments.unit_id").
		Joins("JOIN buildings b ON b.id = u.building_id").
		Where("payments.status = ? AND payments.paid_date IS NOT NULL", StatusPaid)
	paidQ = sf.Apply(paidQ, "b.society_id")
	paidQ = sf.ApplyUnitOwner(paidQ, "u.allocated_user_id")
	if err := paidQ.Scan(&paid).Error; err != nil {
		return nil, err
	}

	byMonth := map[string]*MonthlyTotal{}
	var months []string
	for _, row := range paid {
		month := row.PaidDate.Format("2006-01")
		mt, ok := byMonth[month]
		if !ok {
			mt = &MonthlyTotal{Month: month}
			byMonth[month] = mt
			months = append(months, month)
		}
		mt.TotalPaid += row.Amount
		mt.PaidCount++
	}
	sort.Strings(months)
	for _, month := range months {
		summary.Monthly = append(summary.Monthly, *byMonth[month])
	}
	return summary, nil
}

func (r *repository) CollectionSummary(ctx context.Context, societyID uint, from, to time.Time, now time.Time) (*CollectionSummary, error) {
	var summary CollectionSummary
	err := r.db.WithContext(ctx).
		Table("payments").
		Select(`COALESCE(SUM(CASE WHEN payments.status = 'PAID' THEN payments.amount ELSE 0 END), 0) AS total_collected,
			COALESCE(SUM(CASE WHEN payments.status = 'PENDING' AND payments.due_date >= ? THEN payments.amount ELSE 0 END), 0) AS total_pending,
			COALESCE(SUM(CASE WHEN payments.status <> 'PAID' AND payments.due_date < ? THEN payments.amount ELSE 0 END), 0) AS total_overdue,
			COUNT(CASE WHEN payments.status = 'PAID' THEN 1 END) AS paid_count,
			COUNT(CASE WHEN payments.status = 'PENDING' AND payments.due_date >= ? THEN 1 END) AS pending_count,
			COUNT(CASE WHEN payments.status <> 'PAID' AND payments.due_date < ? THEN 1 END) AS overdue_count`,
			now, now, now, now).
		Joins("JOIN units u ON u.id = payments.unit_id").
		Joins("JOIN buildings b ON b.id = u.building_id").
		Where("b.society_id = ?", societyID).
		Where("payments.due_date >= ? AND payments.due_date < ?", from, to).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	summary.SocietyID = societyID
	return &summary, nil
}
