package reports

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	SocietyOverview(ctx context.Context, societyID uint, dayStart, dayEnd time.Time) (*SocietyOverview, error)
	VisitorRegister(ctx context.Context, societyID uint, from, to time.Time) ([]VisitorRegisterRow, error)
	PaymentCollections(ctx context.Context, societyID uint, from, to time.Time) ([]PaymentCollectionRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SocietyOverview(ctx context.Context, societyID uint, dayStart, dayEnd time.Time) (*SocietyOverview, error) {
	db := r.db.WithContext(ctx)
	overview := &SocietyOverview{SocietyID: societyID}

	if err := db.Table("societies").
		Select("name").
		Where("id = ?", societyID).
		Scan(&overview.SocietyName).Error; err != nil {
		return nil, err
	}

	if err := db.Table("buildings").
		Where("society_id = ?", societyID).
		Count(&overview.BuildingCount).Error; err != nil {
		return nil, err
	}

	var unitCounts struct {
		UnitCount     int64
		OccupiedUnits int64
	}
	err := db.Table("units u").
		Select(`COUNT(*) AS unit_count,
			COUNT(CASE WHEN u.allocated_user_id IS NOT NULL THEN 1 END) AS occupied_units`).
		Joins("JOIN buildings b ON b.id = u.building_id").
		Where("b.society_id = ?", societyID).
		Scan(&unitCounts).Error
	if err != nil {
		return nil, err
	}
	overview.UnitCount = unitCounts.UnitCount
	overview.OccupiedUnits = unitCounts.OccupiedUnits

	err = db.Table("users").
		Joins("JOIN user_roles ON user_roles.id = users.role_id").
		Where("user_roles.role_name = ? AND users.working_society_id = ? AND users.deleted_at IS NULL", "staff", societyID).
		Count(&overview.StaffCount).Error
	if err != nil {
		return nil, err
	}

	var visitorCounts struct {
		VisitorsToday  int64
		VisitorsInside int64
	}
	err = db.Table("visitors").
		Select(`COUNT(CASE WHEN check_in_at >= ? AND check_in_at < ? THEN 1 END) AS visitors_today,
			COUNT(CASE WHEN check_out_at IS NULL THEN 1 END) AS visitors_inside`, dayStart, dayEnd).
		Where("society_id = ?", societyID).
		Scan(&visitorCounts).Error
	if err != nil {
		return nil, err
	}
	overview.VisitorsToday = visitorCounts.VisitorsToday
	overview.VisitorsInside = visitorCounts.VisitorsInside

	var dues struct {
		PendingDues   float64
		CollectedDues float64
	}
	err = db.Table("payments").
		Select(`COALESCE(SUM(CASE WHEN payments.status <> 'PAID' THEN payments.amount ELSE 0 END), 0) AS pending_dues,
			COALESCE(SUM(CASE WHEN payments.status = 'PAID' THEN payments.amount ELSE 0 END), 0) AS collected_dues`).
		Joins("JOIN units u ON u.id = payments.unit_id").
		Joins("JOIN buildings b ON b.id = u.building_id").
		Where("b.society_id = ?", societyID).
		Scan(&dues).Error
	if err != nil {
		return nil, err
	}
	overview.PendingDues = dues.PendingDues
	overview.CollectedDues = dues.CollectedDues

	return overview, nil
}

func (r *repository) VisitorRegister(ctx context.Context, societyID uint, from, to time.Time) ([]VisitorRegisterRow, error) {
	var rows []VisitorRegisterRow
	err := r.db.WithContext(ctx).
		Table("visitors v").
		Select(`v.id, v.name, v.phone, v.visitor_type, v.check_in_at, v.check_out_at, v.is_flagged,
			u.name AS unit_name, g.full_name AS guard_name`).
		Joins("JOIN units u ON u.id = v.unit_id").
		Joins("LEFT JOIN users g ON g.id = v.guard_id").
		Where("v.society_id = ?", societyID).
		Where("v.check_in_at >= ? AND v.check_in_at <= ?", from, to).
		Order("v.check_in_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) PaymentCollections(ctx context.Context, societyID uint, from, to time.Time) ([]PaymentCollectionRow, error) {
	var rows []PaymentCollectionRow
	err := r.db.WithContext(ctx).
		Table("payments p").
		Select(`p.id, p.amount, p.status, p.method, p.due_date, p.paid_date,
			u.name AS unit_name, b.name AS building_name, COALESCE(t.full_name, '') AS tenant_name`).
		Joins("JOIN units u ON u.id = p.unit_id").
		Joins("JOIN buildings b ON b.id = u.building_id").
		Joins("LEFT JOIN users t ON t.id = u.allocated_user_id").
		Where("b.society_id = ?", societyID).
		Where("p.due_date >= ? AND p.due_date <= ?", from, to).
		Order("p.due_date DESC").
		Scan(&rows).Error
	return rows, err
}
