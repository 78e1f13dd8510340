package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/prateeks07/society-management-backend/internal/auditlog"
	"github.com/prateeks07/society-management-backend/internal/scope"
	"github.com/prateeks07/society-management-backend/internal/society"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:payment_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&society.Society{}, &society.Building{}, &society.Unit{},
		&Payment{}, &auditlog.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	auditSvc := auditlog.NewService(auditlog.NewRepository(db))
	return NewService(NewRepository(db), scope.NewPolicy(db), scope.NewResolver(db), auditSvc)
}

func seedUnit(t *testing.T, db *gorm.DB, ownerID uint) (society.Society, society.Unit) {
	t.Helper()
	soc := society.Society{Name: "Green Acres", SocietyType: "residential", Address: "1 Test Rd", CreatedBy: ownerID}
	if err := db.Create(&soc).Error; err != nil {
		t.Fatalf("society: %v", err)
	}
	b := society.Building{Name: "A", SocietyID: soc.ID}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("building: %v", err)
	}
	u := society.Unit{Name: "101", BuildingID: b.ID}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("unit: %v", err)
	}
	return soc, u
}

func TestCreateAndRecordPayment(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	owner := &scope.Actor{ID: 1, Role: scope.RoleOwner}
	_, unit := seedUnit(t, db, owner.ID)

	due := time.Now().AddDate(0, 0, 7)
	p, err := svc.CreatePayment(ctx, owner, CreatePaymentInput{UnitID: unit.ID, Amount: 2500, DueDate: due, Note: "maintenance"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != StatusPending {
		t.Fatalf("new payment status: %q", p.Status)
	}

	paid, err := svc.RecordPayment(ctx, owner, p.ID, "UPI")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if paid.Status != StatusPaid || paid.PaidDate == nil || paid.Method != "UPI" {
		t.Fatalf("settlement not stored: %+v", paid)
	}

	// A second settlement is a conflict, not an overwrite.
	if _, err := svc.RecordPayment(ctx, owner, p.ID, "CASH"); !errors.Is(err, scope.ErrInvalidState) {
		t.Fatalf("double record: want ErrInvalidState, got %v", err)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	owner := &scope.Actor{ID: 1, Role: scope.RoleOwner}
	_, unit := seedUnit(t, db, owner.ID)

	if _, err := svc.CreatePayment(ctx, owner, CreatePaymentInput{UnitID: unit.ID, Amount: 0, DueDate: time.Now()}); err == nil {
		t.Fatalf("zero amount accepted")
	}
	if _, err := svc.CreatePayment(ctx, owner, CreatePaymentInput{UnitID: 404, Amount: 100, DueDate: time.Now()}); !errors.Is(err, scope.ErrNotFound) {
		t.Fatalf("missing unit: want ErrNotFound, got %v", err)
	}

	stranger := &scope.Actor{ID: 99, Role: scope.RoleOwner}
	if _, err := svc.CreatePayment(ctx, stranger, CreatePaymentInput{UnitID: unit.ID, Amount: 100, DueDate: time.Now()}); !errors.Is(err, scope.ErrForbidden) {
		t.Fatalf("foreign owner: want ErrForbidden, got %v", err)
	}
}

func TestMyPaymentsTenantView(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	owner := &scope.Actor{ID: 1, Role: scope.RoleOwner}
	_, unit := seedUnit(t, db, owner.ID)

	tenantID := uint(10)
	if err := db.Model(&society.Unit{}).Where("id = ?", unit.ID).Update("allocated_user_id", tenantID).Error; err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if _, err := svc.CreatePayment(ctx, owner, CreatePaymentInput{UnitID: unit.ID, Amount: 1200, DueDate: time.Now()}); err != nil {
		t.Fatalf("create: %v", err)
	}

	tenant := &scope.Actor{ID: tenantID, Role: scope.RoleTenant}
	mine, err := svc.MyPayments(ctx, tenant)
	if err != nil {
		t.Fatalf("my payments: %v", err)
	}
	if len(mine) != 1 || mine[0].Amount != 1200 {
		t.Fatalf("tenant dues view: %+v", mine)
	}

	// Personal route gives a non-tenant an empty list.
	mine, err = svc.MyPayments(ctx, owner)
	if err != nil {
		t.Fatalf("owner my payments: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("owner personal dues should be empty, got %+v", mine)
	}
}

func TestListPaymentsScoped(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	owner1 := &scope.Actor{ID: 1, Role: scope.RoleOwner}
	owner2 := &scope.Actor{ID: 2, Role: scope.RoleOwner}
	_, unit1 := seedUnit(t, db, owner1.ID)

	soc2 := society.Society{Name: "Blue Hills", SocietyType: "residential", Address: "2 Rd", CreatedBy: owner2.ID}
	if err := db.Create(&soc2).Error; err != nil {
		t.Fatalf("society2: %v", err)
	}
	b2 := society.Building{Name: "B", SocietyID: soc2.ID}
	if err := db.Create(&b2).Error; err != nil {
		t.Fatalf("building2: %v", err)
	}
	unit2 := society.Unit{Name: "201", BuildingID: b2.ID}
	if err := db.Create(&unit2).Error; err != nil {
		t.Fatalf("unit2: %v", err)
	}

	if _, err := svc.CreatePayment(ctx, owner1, CreatePaymentInput{UnitID: unit1.ID, Amount: 100, DueDate: time.Now()}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreatePayment(ctx, owner2, CreatePaymentInput{UnitID: unit2.ID, Amount: 200, DueDate: time.Now()}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.ListPayments(ctx, owner1, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Amount != 100 {
		t.Fatalf("owner1 payment scope leaked: %+v", list)
	}
}

func TestSummaryMonthlyBuckets(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	owner := &scope.Actor{ID: 1, Role: scope.RoleOwner}
	_, unit := seedUnit(t, db, owner.ID)

	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.Local)
	feb := time.Date(2026, 2, 10, 12, 0, 0, 0, time.Local)
	for _, p := range []Payment{
		{UnitID: unit.ID, Amount: 100, Status: StatusPaid, DueDate: jan, PaidDate: &jan},
		{UnitID: unit.ID, Amount: 150, Status: StatusPaid, DueDate: jan, PaidDate: &jan},
		{UnitID: unit.ID, Amount: 200, Status: StatusPaid, DueDate: feb, PaidDate: &feb},
		{UnitID: unit.ID, Amount: 75, Status: StatusPending, DueDate: time.Now().AddDate(0, 0, -2)},
	} {
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("payment: %v", err)
		}
	}

	summary, err := svc.Summary(ctx, owner)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary.Monthly) != 2 {
		t.Fatalf("month buckets: %+v", summary.Monthly)
	}
	if summary.Monthly[0].Month != "2026-01" || summary.Monthly[0].TotalPaid != 250 || summary.Monthly[0].PaidCount != 2 {
		t.Fatalf("january bucket: %+v", summary.Monthly[0])
	}
	if summary.Monthly[1].Month != "2026-02" || summary.Monthly[1].TotalPaid != 200 {
		t.Fatalf("february bucket: %+v", summary.Monthly[1])
	}
	if summary.TotalOverdue != 75 || summary.OverdueCount != 1 || summary.PendingCount != 0 {
		t.Fatalf("open book: %+v", summary)
	}

	// A different owner sees none of it.
	other, err := svc.Summary(ctx, &scope.Actor{ID: 2, Role: scope.RoleOwner})
	if err != nil {
		t.Fatalf("other summary: %v", err)
	}
	if len(other.Monthly) != 0 || other.OverdueCount != 0 {
		t.Fatalf("summary leaked across owners: %+v", other)
	}
}

func TestCollectionSummary(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	owner := &scope.Actor{ID: 1, Role: scope.RoleOwner}
	soc, unit := seedUnit(t, db, owner.ID)

	now := time.Now()
	paid, err := svc.CreatePayment(ctx, owner, CreatePaymentInput{UnitID: unit.ID, Amount: 1000, DueDate: now.AddDate(0, 0, 3)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, owner, paid.ID, "UPI"); err != nil {
		t.Fatalf("record: %v", err)
	}
	// Pending, due in the future.
	if _, err := svc.CreatePayment(ctx, owner, CreatePaymentInput{UnitID: unit.ID, Amount: 500, DueDate: now.AddDate(0, 0, 5)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Pending, past due: overdue.
	if _, err := svc.CreatePayment(ctx, owner, CreatePaymentInput{UnitID: unit.ID, Amount: 300, DueDate: now.AddDate(0, 0, -5)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	from := now.AddDate(0, -1, 0)
	to := now.AddDate(0, 1, 0)
	summary, err := svc.CollectionSummary(ctx, owner, soc.ID, from, to)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalCollected != 1000 {
		t.Fatalf("collected: want 1000, got %v", summary.TotalCollected)
	}
	if summary.TotalPending != 500 {
		t.Fatalf("pending: want 500, got %v", summary.TotalPending)
	}
	if summary.TotalOverdue != 300 {
		t.Fatalf("overdue: want 300, got %v", summary.TotalOverdue)
	}
	if summary.PaidCount != 1 || summary.PendingCount != 1 || summary.OverdueCount != 1 {
		t.Fatalf("counts: %+v", summary)
	}
}

func TestTenantLimitedToOwnUnitPayments(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	owner := &scope.Actor{ID: 1, Role: scope.RoleOwner}
	_, unit := seedUnit(t, db, owner.ID)

	tenantID := uint(7)
	if err := db.Model(&society.Unit{}).Where("id = ?", unit.ID).Update("allocated_user_id", tenantID).Error; err != nil {
		t.Fatalf("allocate: %v", err)
	}
	neighborTenant := uint(8)
	neighborUnit := society.Unit{Name: "102", BuildingID: unit.BuildingID, AllocatedUserID: &neighborTenant}
	if err := db.Create(&neighborUnit).Error; err != nil {
		t.Fatalf("neighbor unit: %v", err)
	}

	due := time.Now().AddDate(0, 0, 7)
	if _, err := svc.CreatePayment(ctx, owner, CreatePaymentInput{UnitID: unit.ID, Amount: 1200, DueDate: due}); err != nil {
		t.Fatalf("own demand: %v", err)
	}
	if _, err := svc.CreatePayment(ctx, owner, CreatePaymentInput{UnitID: neighborUnit.ID, Amount: 900, DueDate: due}); err != nil {
		t.Fatalf("neighbor demand: %v", err)
	}

	tenant := &scope.Actor{ID: tenantID, Role: scope.RoleTenant}

	if _, err := svc.ListByUnit(ctx, tenant, unit.ID); err != nil {
		t.Fatalf("tenant listing own unit: %v", err)
	}
	if _, err := svc.ListByUnit(ctx, tenant, neighborUnit.ID); !errors.Is(err, scope.ErrForbidden) {
		t.Fatalf("tenant listing neighbor unit: want ErrForbidden, got %v", err)
	}

	rows, err := svc.ListPayments(ctx, tenant, "")
	if err != nil {
		t.Fatalf("tenant list: %v", err)
	}
	if len(rows) != 1 || rows[0].Amount != 1200 {
		t.Fatalf("tenant payment list leaked rows: %+v", rows)
	}

	sum, err := svc.Summary(ctx, tenant)
	if err != nil {
		t.Fatalf("tenant summary: %v", err)
	}
	if sum.TotalPending != 1200 || sum.PendingCount != 1 {
		t.Fatalf("tenant summary counted neighbor dues: %+v", sum)
	}
}
