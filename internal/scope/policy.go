package scope

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Policy is the single authorization decision point. Every operation asks it
// once; role branching lives here and nowhere else.
type Policy struct {
	db *gorm.DB
}

func NewPolicy(db *gorm.DB) *Policy {
	return &Policy{db: db}
}

// Authorize decides whether the actor may perform action against the given
// society. Rules in order, first match wins:
//
//  1. owner: allowed iff the society was created by the actor
//  2. staff: allowed iff posted to the society
//  3. tenant: reads only, and only when allocated a unit in the society
//  4. no actor: ErrUnauthorized
//  5. anything else: ErrForbidden
func (p *Policy) Authorize(ctx context.Context, actor *Actor, action Action, societyID uint) error {
	if actor == nil || actor.ID == 0 {
		return ErrUnauthorized
	}

	switch actor.Role {
	case RoleOwner:
		createdBy, err := p.societyCreatedBy(ctx, societyID)
		if err != nil {
			return err
		}
		if createdBy == actor.ID {
			return nil
		}
		return ErrForbidden

	case RoleStaff:
		if actor.PostedTo(societyID) {
			return nil
		}
		return ErrForbidden

	case RoleTenant:
		if action != ActionRead {
			return ErrForbidden
		}
		allocated, err := p.tenantAllocatedIn(ctx, actor.ID, societyID)
		if err != nil {
			return err
		}
		if allocated {
			return nil
		}
		return ErrForbidden
	}

	return ErrForbidden
}

// AuthorizeUnit decides access to rows that hang off a single unit, such as
// its visitors, payments, agreements and parking slots. Owners and staff fall
// back to the society rule; tenants may read only units allocated to them, so
// being allocated somewhere in the society never opens a neighbor's rows.
func (p *Policy) AuthorizeUnit(ctx context.Context, actor *Actor, action Action, societyID, unitID uint) error {
	if actor == nil || actor.ID == 0 {
		return ErrUnauthorized
	}
	if actor.Role != RoleTenant {
		return p.Authorize(ctx, actor, action, societyID)
	}
	if action != ActionRead {
		return ErrForbidden
	}
	holds, err := p.tenantHoldsUnit(ctx, actor.ID, unitID)
	if err != nil {
		return err
	}
	if holds {
		return nil
	}
	return ErrForbidden
}

// Filter computes the actor's allowed society set once, so list and aggregate
// queries push the scope into SQL instead of authorizing row by row. That also
// keeps out-of-scope rows from leaking existence through error messages.
func (p *Policy) Filter(ctx context.Context, actor *Actor) (Filter, error) {
	if actor == nil || actor.ID == 0 {
		return Filter{}, nil
	}

	switch actor.Role {
	case RoleOwner:
		var ids []uint
		err := p.db.WithContext(ctx).
			Table("societies").
			Where("created_by = ?", actor.ID).
			Pluck("id", &ids).Error
		if err != nil {
			return Filter{}, err
		}
		return Filter{societyIDs: ids}, nil

	case RoleStaff:
		if actor.WorkingSocietyID == nil {
			return Filter{}, nil
		}
		return Filter{societyIDs: []uint{*actor.WorkingSocietyID}}, nil

	case RoleTenant:
		var ids []uint
		err := p.db.WithContext(ctx).
			Table("units u").
			Joins("JOIN buildings b ON b.id = u.building_id").
			Where("u.allocated_user_id = ?", actor.ID).
			Distinct().
			Pluck("b.society_id", &ids).Error
		if err != nil {
			return Filter{}, err
		}
		return Filter{societyIDs: ids, allocatedUserID: actor.ID}, nil
	}

	return Filter{}, nil
}

func (p *Policy) societyCreatedBy(ctx context.Context, societyID uint) (uint, error) {
	var row struct {
		CreatedBy uint
	}
	err := p.db.WithContext(ctx).
		Table("societies").
		Select("created_by").
		Where("id = ?", societyID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return row.CreatedBy, nil
}

func (p *Policy) tenantAllocatedIn(ctx context.Context, userID, societyID uint) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("units u").
		Joins("JOIN buildings b ON b.id = u.building_id").
		Where("u.allocated_user_id = ? AND b.society_id = ?", userID, societyID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *Policy) tenantHoldsUnit(ctx context.Context, userID, unitID uint) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("units").
		Where("id = ? AND allocated_user_id = ?", unitID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Filter is the actor's allowed society set, applied to collection queries.
// An empty filter matches nothing. Tenant filters additionally carry the
// tenant's own id so unit-granular queries can drop neighbors' rows.
type Filter struct {
	societyIDs      []uint
	allocatedUserID uint
}

// Apply restricts q to rows whose col is inside the filter. An empty filter
// produces a query that matches no rows.
func (f Filter) Apply(q *gorm.DB, col string) *gorm.DB {
	if len(f.societyIDs) == 0 {
		return q.Where("1 = 0")
	}
	return q.Where(col+" IN ?", f.societyIDs)
}

// ApplyUnitOwner narrows a units-joined query to rows allocated to the
// tenant. col is the joined units table's allocated_user_id column. Owner
// and staff filters pass the query through unchanged.
func (f Filter) ApplyUnitOwner(q *gorm.DB, col string) *gorm.DB {
	if f.allocatedUserID == 0 {
		return q
	}
	return q.Where(col+" = ?", f.allocatedUserID)
}

// Contains reports whether the society is inside the actor's scope.
func (f Filter) Contains(societyID uint) bool {
	for _, id := range f.societyIDs {
		if id == societyID {
			return true
		}
	}
	return false
}

// SocietyIDs exposes the allowed set for callers that build their own queries.
func (f Filter) SocietyIDs() []uint {
	return f.societyIDs
}

// Empty reports whether the scope allows nothing.
func (f Filter) Empty() bool {
	return len(f.societyIDs) == 0
}
