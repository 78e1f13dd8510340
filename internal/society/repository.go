package society

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/prateeks07/society-management-backend/internal/scope"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ========== Societies ==========

func (r *Repository) CreateSociety(ctx context.Context, s *Society) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *Repository) GetSocietyByID(ctx context.Context, id uint) (*Society, error) {
	var s Society
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scope.ErrNotFound
	}
	return &s, err
}

func (r *Repository) ListSocieties(ctx context.Context, filter scope.Filter) ([]Society, error) {
	var societies []Society
	q := r.db.WithContext(ctx).Model(&Society{})
	err := filter.Apply(q, "id").Order("created_at DESC").Find(&societies).Error
	if societies == nil {
		societies = []Society{}
	}
	return societies, err
}

func (r *Repository) UpdateSociety(ctx context.Context, s *Society) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// ========== Buildings ==========

func (r *Repository) CreateBuilding(ctx context.Context, b *Building) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *Repository) ListBuildings(ctx context.Context, societyID uint) ([]Building, error) {
	var buildings []Building
	err := r.db.WithContext(ctx).
		Where("society_id = ?", societyID).
		Order("name").
		Find(&buildings).Error
	if buildings == nil {
		buildings = []Building{}
	}
	return buildings, err
}

// ========== Units ==========

func (r *Repository) CreateUnit(ctx context.Context, u *Unit) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repository) GetUnitByID(ctx context.Context, id uint) (*Unit, error) {
	var u Unit
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scope.ErrNotFound
	}
	return &u, err
}

func (r *Repository) ListUnitsByBuilding(ctx context.Context, buildingID uint) ([]UnitWithLocation, error) {
	return r.listUnits(ctx, r.db.WithContext(ctx).Where("u.building_id = ?", buildingID))
}

// ListUnitsByBuildingAllocatedTo is the tenant's view of a building: just
// the units held by that user.
func (r *Repository) ListUnitsByBuildingAllocatedTo(ctx context.Context, buildingID, userID uint) ([]UnitWithLocation, error) {
	return r.listUnits(ctx, r.db.WithContext(ctx).
		Where("u.building_id = ? AND u.allocated_user_id = ?", buildingID, userID))
}

// ListUnitsAllocatedTo returns the units a tenant is currently allocated.
func (r *Repository) ListUnitsAllocatedTo(ctx context.Context, userID uint) ([]UnitWithLocation, error) {
	return r.listUnits(ctx, r.db.WithContext(ctx).Where("u.allocated_user_id = ?", userID))
}

func (r *Repository) listUnits(ctx context.Context, q *gorm.DB) ([]UnitWithLocation, error) {
	var units []UnitWithLocation
	err := q.
		Table("units u").
		Select(`u.id, u.name, u.floor, u.building_id, b.name AS building_name,
			b.society_id, s.name AS society_name, u.allocated_user_id,
			COALESCE(t.full_name, '') AS tenant_name`).
		Joins("JOIN buildings b ON b.id = u.building_id").
		Joins("JOIN societies s ON s.id = b.society_id").
		Joins("LEFT JOIN users t ON t.id = u.allocated_user_id").
		Order("b.name, u.floor, u.name").
		Scan(&units).Error
	if units == nil {
		units = []UnitWithLocation{}
	}
	return units, err
}

// UpdateAllocation sets or clears the unit's tenant.
func (r *Repository) UpdateAllocation(ctx context.Context, unitID uint, userID *uint) error {
	res := r.db.WithContext(ctx).
		Model(&Unit{}).
		Where("id = ?", unitID).
		Update("allocated_user_id", userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return scope.ErrNotFound
	}
	return nil
}

// UserHasRole checks a user's role by name, used to enforce the
// tenant-allocation invariant without importing the auth package.
func (r *Repository) UserHasRole(ctx context.Context, userID uint, roleName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users u").
		Joins("JOIN user_roles ur ON ur.id = u.role_id").
		Where("u.id = ? AND ur.role_name = ? AND u.deleted_at IS NULL", userID, roleName).
		Count(&count).Error
	return count > 0, err
}

// ========== Agreements ==========

func (r *Repository) CreateAgreement(ctx context.Context, a *Agreement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *Repository) ListAgreementsByUnit(ctx context.Context, unitID uint) ([]Agreement, error) {
	var agreements []Agreement
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("start_date DESC").
		Find(&agreements).Error
	if agreements == nil {
		agreements = []Agreement{}
	}
	return agreements, err
}

// ========== Parking slots ==========

func (r *Repository) CreateParkingSlot(ctx context.Context, p *ParkingSlot) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) ListParkingSlotsByUnit(ctx context.Context, unitID uint) ([]ParkingSlot, error) {
	var slots []ParkingSlot
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("slot_number").
		Find(&slots).Error
	if slots == nil {
		slots = []ParkingSlot{}
	}
	return slots, err
}
