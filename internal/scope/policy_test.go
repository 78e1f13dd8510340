package scope_test

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/prateeks07/society-management-backend/internal/auth"
	"github.com/prateeks07/society-management-backend/internal/scope"
	"github.com/prateeks07/society-management-backend/internal/society"
	"github.com/prateeks07/society-management-backend/internal/visitor"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:scope_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&auth.UserRole{}, &auth.User{},
		&society.Society{}, &society.Building{}, &society.Unit{},
		&society.Agreement{}, &society.ParkingSlot{},
		&visitor.Visitor{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string, workingSocietyID *uint) auth.User {
	t.Helper()
	var r auth.UserRole
	if err := db.Where("role_name = ?", role).First(&r).Error; err != nil {
		r = auth.UserRole{RoleName: role}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("role: %v", err)
		}
	}
	u := auth.User{
		FullName:         name,
		Email:            name + "@test.local",
		PasswordHash:     "x",
		RoleID:           r.ID,
		Role:             r,
		Status:           "active",
		WorkingSocietyID: workingSocietyID,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return u
}

func seedSociety(t *testing.T, db *gorm.DB, name string, createdBy uint) society.Society {
	t.Helper()
	s := society.Society{Name: name, SocietyType: "residential", Address: "1 Test Rd", CreatedBy: createdBy}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("society: %v", err)
	}
	return s
}

func seedUnit(t *testing.T, db *gorm.DB, societyID uint, allocatedTo *uint) (society.Building, society.Unit) {
	t.Helper()
	b := society.Building{Name: "A", SocietyID: societyID}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("building: %v", err)
	}
	u := society.Unit{Name: "101", Floor: 1, BuildingID: b.ID, AllocatedUserID: allocatedTo}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("unit: %v", err)
	}
	return b, u
}

func TestAuthorizeOwner(t *testing.T) {
	db := setupTestDB(t)
	policy := scope.NewPolicy(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner1", "owner", nil)
	other := seedUser(t, db, "owner2", "owner", nil)
	soc := seedSociety(t, db, "Green Acres", owner.ID)

	ownerActor := &scope.Actor{ID: owner.ID, Role: scope.RoleOwner}
	if err := policy.Authorize(ctx, ownerActor, scope.ActionWrite, soc.ID); err != nil {
		t.Fatalf("owner on own society: %v", err)
	}

	otherActor := &scope.Actor{ID: other.ID, Role: scope.RoleOwner}
	if err := policy.Authorize(ctx, otherActor, scope.ActionRead, soc.ID); !errors.Is(err, scope.ErrForbidden) {
		t.Fatalf("owner on foreign society: want ErrForbidden, got %v", err)
	}
}

func TestAuthorizeStaffPosting(t *testing.T) {
	db := setupTestDB(t)
	policy := scope.NewPolicy(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner1", "owner", nil)
	socA := seedSociety(t, db, "A", owner.ID)
	socB := seedSociety(t, db, "B", owner.ID)

	guard := seedUser(t, db, "guard", "staff", &socA.ID)
	actor := &scope.Actor{ID: guard.ID, Role: scope.RoleStaff, WorkingSocietyID: &socA.ID}

	if err := policy.Authorize(ctx, actor, scope.ActionWrite, socA.ID); err != nil {
		t.Fatalf("staff in posted society: %v", err)
	}
	if err := policy.Authorize(ctx, actor, scope.ActionRead, socB.ID); !errors.Is(err, scope.ErrForbidden) {
		t.Fatalf("staff outside posting: want ErrForbidden, got %v", err)
	}

	unposted := &scope.Actor{ID: guard.ID, Role: scope.RoleStaff}
	if err := policy.Authorize(ctx, unposted, scope.ActionRead, socA.ID); !errors.Is(err, scope.ErrForbidden) {
		t.Fatalf("unposted staff: want ErrForbidden, got %v", err)
	}
}

func TestAuthorizeTenantReadOnly(t *testing.T) {
	db := setupTestDB(t)
	policy := scope.NewPolicy(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner1", "owner", nil)
	soc := seedSociety(t, db, "A", owner.ID)
	tenant := seedUser(t, db, "tenant1", "tenant", nil)
	seedUnit(t, db, soc.ID, &tenant.ID)

	actor := &scope.Actor{ID: tenant.ID, Role: scope.RoleTenant}

	if err := policy.Authorize(ctx, actor, scope.ActionRead, soc.ID); err != nil {
		t.Fatalf("tenant read in own society: %v", err)
	}
	if err := policy.Authorize(ctx, actor, scope.ActionWrite, soc.ID); !errors.Is(err, scope.ErrForbidden) {
		t.Fatalf("tenant write: want ErrForbidden, got %v", err)
	}

	unallocated := seedUser(t, db, "tenant2", "tenant", nil)
	actor2 := &scope.Actor{ID: unallocated.ID, Role: scope.RoleTenant}
	if err := policy.Authorize(ctx, actor2, scope.ActionRead, soc.ID); !errors.Is(err, scope.ErrForbidden) {
		t.Fatalf("unallocated tenant: want ErrForbidden, got %v", err)
	}
}

func TestAuthorizeNilActor(t *testing.T) {
	db := setupTestDB(t)
	policy := scope.NewPolicy(db)

	if err := policy.Authorize(context.Background(), nil, scope.ActionRead, 1); !errors.Is(err, scope.ErrUnauthorized) {
		t.Fatalf("nil actor: want ErrUnauthorized, got %v", err)
	}
}

func TestAuthorizeMissingSociety(t *testing.T) {
	db := setupTestDB(t)
	policy := scope.NewPolicy(db)

	owner := seedUser(t, db, "owner1", "owner", nil)
	actor := &scope.Actor{ID: owner.ID, Role: scope.RoleOwner}

	if err := policy.Authorize(context.Background(), actor, scope.ActionRead, 999); !errors.Is(err, scope.ErrNotFound) {
		t.Fatalf("missing society: want ErrNotFound, got %v", err)
	}
}

func TestFilterScopesBySocietySet(t *testing.T) {
	db := setupTestDB(t)
	policy := scope.NewPolicy(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner1", "owner", nil)
	other := seedUser(t, db, "owner2", "owner", nil)
	socA := seedSociety(t, db, "A", owner.ID)
	socB := seedSociety(t, db, "B", owner.ID)
	socC := seedSociety(t, db, "C", other.ID)

	f, err := policy.Filter(ctx, &scope.Actor{ID: owner.ID, Role: scope.RoleOwner})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !f.Contains(socA.ID) || !f.Contains(socB.ID) {
		t.Fatalf("owner filter missing own societies: %v", f.SocietyIDs())
	}
	if f.Contains(socC.ID) {
		t.Fatalf("owner filter leaked foreign society")
	}

	// Applying the filter must exclude foreign rows at query level.
	var names []string
	if err := f.Apply(db.Table("societies"), "id").Pluck("name", &names).Error; err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("filtered list: want 2 societies, got %v", names)
	}
}

func TestEmptyFilterMatchesNothing(t *testing.T) {
	db := setupTestDB(t)
	policy := scope.NewPolicy(db)

	owner := seedUser(t, db, "owner1", "owner", nil)
	seedSociety(t, db, "A", owner.ID)

	// A tenant with no allocation sees an empty scope.
	tenant := seedUser(t, db, "tenant1", "tenant", nil)
	f, err := policy.Filter(context.Background(), &scope.Actor{ID: tenant.ID, Role: scope.RoleTenant})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !f.Empty() {
		t.Fatalf("want empty filter, got %v", f.SocietyIDs())
	}

	var count int64
	if err := f.Apply(db.Table("societies"), "id").Count(&count).Error; err != nil {
		t.Fatalf("apply: %v", err)
	}
	if count != 0 {
		t.Fatalf("empty filter matched %d rows", count)
	}
}

func TestAuthorizeUnitTenantAllocation(t *testing.T) {
	db := setupTestDB(t)
	policy := scope.NewPolicy(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner1", "owner", nil)
	soc := seedSociety(t, db, "A", owner.ID)
	tenantA := seedUser(t, db, "tenant1", "tenant", nil)
	tenantB := seedUser(t, db, "tenant2", "tenant", nil)
	_, unitA := seedUnit(t, db, soc.ID, &tenantA.ID)
	_, unitB := seedUnit(t, db, soc.ID, &tenantB.ID)

	actor := &scope.Actor{ID: tenantA.ID, Role: scope.RoleTenant}
	if err := policy.AuthorizeUnit(ctx, actor, scope.ActionRead, soc.ID, unitA.ID); err != nil {
		t.Fatalf("tenant on own unit: %v", err)
	}
	// Being allocated in the society must not open a neighbor's unit.
	if err := policy.AuthorizeUnit(ctx, actor, scope.ActionRead, soc.ID, unitB.ID); !errors.Is(err, scope.ErrForbidden) {
		t.Fatalf("tenant on neighbor unit: want ErrForbidden, got %v", err)
	}
	if err := policy.AuthorizeUnit(ctx, actor, scope.ActionWrite, soc.ID, unitA.ID); !errors.Is(err, scope.ErrForbidden) {
		t.Fatalf("tenant write on own unit: want ErrForbidden, got %v", err)
	}

	guard := seedUser(t, db, "guard", "staff", &soc.ID)
	guardActor := &scope.Actor{ID: guard.ID, Role: scope.RoleStaff, WorkingSocietyID: &soc.ID}
	if err := policy.AuthorizeUnit(ctx, guardActor, scope.ActionRead, soc.ID, unitB.ID); err != nil {
		t.Fatalf("posted staff on any unit: %v", err)
	}

	if err := policy.AuthorizeUnit(ctx, nil, scope.ActionRead, soc.ID, unitA.ID); !errors.Is(err, scope.ErrUnauthorized) {
		t.Fatalf("nil actor: want ErrUnauthorized, got %v", err)
	}
}

func TestTenantFilterOwnRowsOnly(t *testing.T) {
	db := setupTestDB(t)
	policy := scope.NewPolicy(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner1", "owner", nil)
	soc := seedSociety(t, db, "A", owner.ID)
	tenantA := seedUser(t, db, "tenant1", "tenant", nil)
	tenantB := seedUser(t, db, "tenant2", "tenant", nil)
	_, unitA := seedUnit(t, db, soc.ID, &tenantA.ID)
	seedUnit(t, db, soc.ID, &tenantB.ID)

	f, err := policy.Filter(ctx, &scope.Actor{ID: tenantA.ID, Role: scope.RoleTenant})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !f.Contains(soc.ID) {
		t.Fatalf("tenant filter missing own society: %v", f.SocietyIDs())
	}

	var ids []uint
	if err := f.ApplyUnitOwner(db.Table("units u"), "u.allocated_user_id").Pluck("u.id", &ids).Error; err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(ids) != 1 || ids[0] != unitA.ID {
		t.Fatalf("tenant unit predicate: want [%d], got %v", unitA.ID, ids)
	}

	// Owner and staff filters leave the query untouched.
	of, err := policy.Filter(ctx, &scope.Actor{ID: owner.ID, Role: scope.RoleOwner})
	if err != nil {
		t.Fatalf("owner filter: %v", err)
	}
	var count int64
	if err := of.ApplyUnitOwner(db.Table("units u"), "u.allocated_user_id").Count(&count).Error; err != nil {
		t.Fatalf("owner apply: %v", err)
	}
	if count != 2 {
		t.Fatalf("owner predicate should pass through: want 2 rows, got %d", count)
	}
}
