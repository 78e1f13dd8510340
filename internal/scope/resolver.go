package scope

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// EntityKind names the entity kinds the resolver can walk to a society.
type EntityKind string

const (
	KindSociety     EntityKind = "society"
	KindBuilding    EntityKind = "building"
	KindUnit        EntityKind = "unit"
	KindVisitor     EntityKind = "visitor"
	KindPayment     EntityKind = "payment"
	KindAgreement   EntityKind = "agreement"
	KindParkingSlot EntityKind = "parking_slot"
)

// Resolver walks the ownership chain of a nested entity up to its society.
// Pure lookups, no side effects. Visitors carry society_id denormalized
// because visitor lookups are the guard hot path; everything under a unit is
// resolved through Unit → Building → Society.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ResolveSociety returns the owning society id for the entity, or ErrNotFound
// when the entity or any link in its chain is missing. An orphaned row
// (dangling building_id/unit_id) resolves to ErrNotFound as well; callers
// treat that as a deny.
func (r *Resolver) ResolveSociety(ctx context.Context, kind EntityKind, id uint) (uint, error) {
	var row struct {
		SocietyID uint
	}

	q := r.db.WithContext(ctx)

	switch kind {
	case KindSociety:
		q = q.Table("societies").Select("id AS society_id").Where("id = ?", id)

	case KindBuilding:
		q = q.Table("buildings").Select("society_id").Where("id = ?", id)

	case KindUnit:
		q = q.Table("units u").
			Select("b.society_id").
			Joins("JOIN buildings b ON b.id = u.building_id").
			Where("u.id = ?", id)

	case KindVisitor:
		q = q.Table("visitors").Select("society_id").Where("id = ?", id)

	case KindPayment:
		q = q.Table("payments p").
			Select("b.society_id").
			Joins("JOIN units u ON u.id = p.unit_id").
			Joins("JOIN buildings b ON b.id = u.building_id").
			Where("p.id = ?", id)

	case KindAgreement:
		q = q.Table("agreements a").
			Select("b.society_id").
			Joins("JOIN units u ON u.id = a.unit_id").
			Joins("JOIN buildings b ON b.id = u.building_id").
			Where("a.id = ?", id)

	case KindParkingSlot:
		q = q.Table("parking_slots ps").
			Select("b.society_id").
			Joins("JOIN units u ON u.id = ps.unit_id").
			Joins("JOIN buildings b ON b.id = u.building_id").
			Where("ps.id = ?", id)

	default:
		return 0, ErrNotFound
	}

	if err := q.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	return row.SocietyID, nil
}
