package scope_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prateeks07/society-management-backend/internal/scope"
	"github.com/prateeks07/society-management-backend/internal/society"
	"github.com/prateeks07/society-management-backend/internal/visitor"
)

func TestResolveSocietyChain(t *testing.T) {
	db := setupTestDB(t)
	resolver := scope.NewResolver(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner1", "owner", nil)
	soc := seedSociety(t, db, "A", owner.ID)
	b, u := seedUnit(t, db, soc.ID, nil)

	cases := []struct {
		kind scope.EntityKind
		id   uint
	}{
		{scope.KindSociety, soc.ID},
		{scope.KindBuilding, b.ID},
		{scope.KindUnit, u.ID},
	}
	for _, tc := range cases {
		got, err := resolver.ResolveSociety(ctx, tc.kind, tc.id)
		if err != nil {
			t.Fatalf("resolve %s: %v", tc.kind, err)
		}
		if got != soc.ID {
			t.Fatalf("resolve %s: want society %d, got %d", tc.kind, soc.ID, got)
		}
	}
}

func TestResolveVisitorDenormalized(t *testing.T) {
	db := setupTestDB(t)
	resolver := scope.NewResolver(db)

	owner := seedUser(t, db, "owner1", "owner", nil)
	soc := seedSociety(t, db, "A", owner.ID)
	_, u := seedUnit(t, db, soc.ID, nil)

	v := visitor.Visitor{
		Name: "Ravi", VisitorType: visitor.TypeGuest,
		SocietyID: soc.ID, GuardID: 1, UnitID: u.ID, CheckInAt: time.Now(),
	}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("visitor: %v", err)
	}

	got, err := resolver.ResolveSociety(context.Background(), scope.KindVisitor, v.ID)
	if err != nil {
		t.Fatalf("resolve visitor: %v", err)
	}
	if got != soc.ID {
		t.Fatalf("want %d, got %d", soc.ID, got)
	}
}

func TestResolveMissingAndOrphaned(t *testing.T) {
	db := setupTestDB(t)
	resolver := scope.NewResolver(db)
	ctx := context.Background()

	if _, err := resolver.ResolveSociety(ctx, scope.KindUnit, 42); !errors.Is(err, scope.ErrNotFound) {
		t.Fatalf("missing unit: want ErrNotFound, got %v", err)
	}

	// Unit pointing at a building that does not exist resolves to not found,
	// which callers treat as a deny.
	orphan := society.Unit{Name: "X", BuildingID: 999}
	if err := db.Create(&orphan).Error; err != nil {
		t.Fatalf("orphan unit: %v", err)
	}
	if _, err := resolver.ResolveSociety(ctx, scope.KindUnit, orphan.ID); !errors.Is(err, scope.ErrNotFound) {
		t.Fatalf("orphaned unit: want ErrNotFound, got %v", err)
	}
}
