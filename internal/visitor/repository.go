package visitor

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/prateeks07/society-management-backend/internal/scope"
)

type Repository interface {
	Create(ctx context.Context, v *Visitor) error
	GetByID(ctx context.Context, id uint) (*Visitor, error)
	// CheckOut stamps check_out_at only if the visitor is still inside.
	// Exactly one caller wins under concurrency; losers get ErrInvalidState.
	CheckOut(ctx context.Context, id uint, at time.Time) (*Visitor, error)
	SetFlag(ctx context.Context, id uint, flagged bool) (*Visitor, error)
	Search(ctx context.Context, filter SearchFilter, sf scope.Filter) ([]Visitor, int64, error)
	ListByTenantUnits(ctx context.Context, userID uint) ([]Visitor, error)
	DailySummary(ctx context.Context, societyID, guardID uint, dayStart, dayEnd time.Time) (*DailySummary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, v *Visitor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Visitor, error) {
	var v Visitor
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scope.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) CheckOut(ctx context.Context, id uint, at time.Time) (*Visitor, error) {
	res := r.db.WithContext(ctx).
		Model(&Visitor{}).
		Where("id = ? AND check_out_at IS NULL", id).
		Update("check_out_at", at)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race or never existed; a fetch tells us which.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, scope.ErrInvalidState
	}
	return r.GetByID(ctx, id)
}

func (r *repository) SetFlag(ctx context.Context, id uint, flagged bool) (*Visitor, error) {
	res := r.db.WithContext(ctx).
		Model(&Visitor{}).
		Where("id = ?", id).
		Update("is_flagged", flagged)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, scope.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Search(ctx context.Context, filter SearchFilter, sf scope.Filter) ([]Visitor, int64, error) {
	q := r.db.WithContext(ctx).Model(&Visitor{}).
		Joins("JOIN units u ON u.id = visitors.unit_id")
	q = sf.Apply(q, "visitors.society_id")
	q = sf.ApplyUnitOwner(q, "u.allocated_user_id")

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("visitors.name LIKE ? OR visitors.phone LIKE ? OR u.name LIKE ?", like, like, like)
	}
	if filter.VisitorType != "" {
		q = q.Where("visitors.visitor_type = ?", filter.VisitorType)
	}
	if filter.InsideOnly {
		q = q.Where("visitors.check_out_at IS NULL")
	}
	if filter.From != nil {
		q = q.Where("visitors.check_in_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("visitors.check_in_at < ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var visitors []Visitor
	err := q.Order("visitors.check_in_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&visitors).Error
	if err != nil {
		return nil, 0, err
	}
	return visitors, total, nil
}

// ListByTenantUnits returns visits to any unit currently allocated to the user.
func (r *repository) ListByTenantUnits(ctx context.Context, userID uint) ([]Visitor, error) {
	var visitors []Visitor
	err := r.db.WithContext(ctx).
		Model(&Visitor{}).
		Joins("JOIN units u ON u.id = visitors.unit_id").
		Where("u.allocated_user_id = ?", userID).
		Order("visitors.check_in_at DESC").
		Limit(100).
		Find(&visitors).Error
	if visitors == nil {
		visitors = []Visitor{}
	}
	return visitors, err
}

func (r *repository) DailySummary(ctx context.Context, societyID, guardID uint, dayStart, dayEnd time.Time) (*DailySummary, error) {
	base := r.db.WithContext(ctx).Model(&Visitor{}).
		Where("society_id = ? AND guard_id = ?", societyID, guardID).
		Where("check_in_at >= ? AND check_in_at < ?", dayStart, dayEnd)

	var counts struct {
		TotalCheckIns   int64
		TotalInside     int64
		TotalDeliveries int64
		TotalFlagged    int64
	}
	err := base.Session(&gorm.Session{}).
		Select(`COUNT(*) AS total_check_ins,
			COUNT(CASE WHEN check_out_at IS NULL THEN 1 END) AS total_inside,
			COUNT(CASE WHEN visitor_type = 'DELIVERY' THEN 1 END) AS total_deliveries,
			COUNT(CASE WHEN is_flagged THEN 1 END) AS total_flagged`).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	var recent []Visitor
	err = base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(5).
		Find(&recent).Error
	if err != nil {
		return nil, err
	}

	return &DailySummary{
		Date:            dayStart.Format("2006-01-02"),
		TotalCheckIns:   counts.TotalCheckIns,
		TotalInside:     counts.TotalInside,
		TotalDeliveries: counts.TotalDeliveries,
		TotalFlagged:    counts.TotalFlagged,
		RecentVisitors:  recent,
	}, nil
}
