package society

import (
	"context"
	"errors"
	"time"

	"github.com/prateeks07/society-management-backend/internal/auditlog"
	"github.com/prateeks07/society-management-backend/internal/scope"
)

// Service owns society/building/unit management. Every operation takes the
// acting user explicitly and goes through the scope policy before touching
// state.
type Service struct {
	repo     *Repository
	policy   *scope.Policy
	resolver *scope.Resolver
	audit    auditlog.Service
}

func NewService(repo *Repository, policy *scope.Policy, resolver *scope.Resolver, audit auditlog.Service) *Service {
	return &Service{repo: repo, policy: policy, resolver: resolver, audit: audit}
}

// ========== Societies ==========

type CreateSocietyInput struct {
	Name        string
	SocietyType string
	Address     string
	City        string
	State       string
	Pincode     string
}

func (s *Service) CreateSociety(ctx context.Context, actor *scope.Actor, in CreateSocietyInput) (*Society, error) {
	if actor == nil || actor.ID == 0 {
		return nil, scope.ErrUnauthorized
	}
	if actor.Role != scope.RoleOwner {
		return nil, scope.ErrForbidden
	}

	soc := &Society{
		Name:        in.Name,
		SocietyType: in.SocietyType,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		Pincode:     in.Pincode,
		CreatedBy:   actor.ID,
	}
	if err := s.repo.CreateSociety(ctx, soc); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, auditlog.Entry{
		UserID:    &actor.ID,
		SocietyID: &soc.ID,
		Action:    "SOCIETY_CREATED",
		Status:    "success",
	})
	return soc, nil
}

func (s *Service) ListSocieties(ctx context.Context, actor *scope.Actor) ([]Society, error) {
	filter, err := s.policy.Filter(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSocieties(ctx, filter)
}

func (s *Service) GetSociety(ctx context.Context, actor *scope.Actor, id uint) (*Society, error) {
	if err := s.policy.Authorize(ctx, actor, scope.ActionRead, id); err != nil {
		return nil, err
	}
	return s.repo.GetSocietyByID(ctx, id)
}

// ========== Buildings ==========

type CreateBuildingInput struct {
	Name      string
	SocietyID uint
}

func (s *Service) CreateBuilding(ctx context.Context, actor *scope.Actor, in CreateBuildingInput) (*Building, error) {
	if err := s.policy.Authorize(ctx, actor, scope.ActionWrite, in.SocietyID); err != nil {
		return nil, err
	}

	b := &Building{Name: in.Name, SocietyID: in.SocietyID}
	if err := s.repo.CreateBuilding(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) ListBuildings(ctx context.Context, actor *scope.Actor, societyID uint) ([]Building, error) {
	if err := s.policy.Authorize(ctx, actor, scope.ActionRead, societyID); err != nil {
		return nil, err
	}
	return s.repo.ListBuildings(ctx, societyID)
}

// ========== Units ==========

type CreateUnitInput struct {
	Name       string
	Floor      int
	BuildingID uint
}

func (s *Service) CreateUnit(ctx context.Context, actor *scope.Actor, in CreateUnitInput) (*Unit, error) {
	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindBuilding, in.BuildingID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, scope.ActionWrite, societyID); err != nil {
		return nil, err
	}

	u := &Unit{Name: in.Name, Floor: in.Floor, BuildingID: in.BuildingID}
	if err := s.repo.CreateUnit(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ListUnits(ctx context.Context, actor *scope.Actor, buildingID uint) ([]UnitWithLocation, error) {
	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindBuilding, buildingID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, scope.ActionRead, societyID); err != nil {
		return nil, err
	}
	// Tenants browsing their building see only their own allocations, not
	// who lives next door.
	if actor != nil && actor.Role == scope.RoleTenant {
		return s.repo.ListUnitsByBuildingAllocatedTo(ctx, buildingID, actor.ID)
	}
	return s.repo.ListUnitsByBuilding(ctx, buildingID)
}

// AllocateUnit assigns a tenant-role user to a unit. Allocating a non-tenant
// user is rejected regardless of the caller's scope.
func (s *Service) AllocateUnit(ctx context.Context, actor *scope.Actor, unitID uint, tenantUserID uint) (*Unit, error) {
	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindUnit, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, scope.ActionWrite, societyID); err != nil {
		return nil, err
	}

	isTenant, err := s.repo.UserHasRole(ctx, tenantUserID, "tenant")
	if err != nil {
		return nil, err
	}
	if !isTenant {
		return nil, errors.New("allocated user must have the tenant role")
	}

	if err := s.repo.UpdateAllocation(ctx, unitID, &tenantUserID); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, auditlog.Entry{
		UserID:    &actor.ID,
		SocietyID: &societyID,
		Action:    "UNIT_ALLOCATED",
		Status:    "success",
		Details:   map[string]interface{}{"unit_id": unitID, "tenant_user_id": tenantUserID},
	})

	return s.repo.GetUnitByID(ctx, unitID)
}

// DeallocateUnit clears the unit's tenant.
func (s *Service) DeallocateUnit(ctx context.Context, actor *scope.Actor, unitID uint) (*Unit, error) {
	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindUnit, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, scope.ActionWrite, societyID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAllocation(ctx, unitID, nil); err != nil {
		return nil, err
	}
	return s.repo.GetUnitByID(ctx, unitID)
}

// MyUnits is the tenant self-service read: units allocated to the caller.
// Returns an empty list, not an error, for absent or wrong-role actors.
func (s *Service) MyUnits(ctx context.Context, actor *scope.Actor) ([]UnitWithLocation, error) {
	if actor == nil || actor.Role != scope.RoleTenant {
		return []UnitWithLocation{}, nil
	}
	return s.repo.ListUnitsAllocatedTo(ctx, actor.ID)
}

// ========== Agreements ==========

type CreateAgreementInput struct {
	UnitID       uint
	TenantUserID uint
	StartDate    time.Time
	EndDate      time.Time
	MonthlyRent  float64
}

func (s *Service) CreateAgreement(ctx context.Context, actor *scope.Actor, in CreateAgreementInput) (*Agreement, error) {
	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindUnit, in.UnitID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, scope.ActionWrite, societyID); err != nil {
		return nil, err
	}

	isTenant, err := s.repo.UserHasRole(ctx, in.TenantUserID, "tenant")
	if err != nil {
		return nil, err
	}
	if !isTenant {
		return nil, errors.New("agreement party must have the tenant role")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, errors.New("agreement end date must be after start date")
	}

	a := &Agreement{
		UnitID:       in.UnitID,
		TenantUserID: in.TenantUserID,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		MonthlyRent:  in.MonthlyRent,
		Status:       "active",
	}
	if err := s.repo.CreateAgreement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListAgreements(ctx context.Context, actor *scope.Actor, unitID uint) ([]Agreement, error) {
	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindUnit, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeUnit(ctx, actor, scope.ActionRead, societyID, unitID); err != nil {
		return nil, err
	}
	return s.repo.ListAgreementsByUnit(ctx, unitID)
}

// ========== Parking slots ==========

type CreateParkingSlotInput struct {
	UnitID        uint
	SlotNumber    string
	VehicleNumber string
}

func (s *Service) CreateParkingSlot(ctx context.Context, actor *scope.Actor, in CreateParkingSlotInput) (*ParkingSlot, error) {
	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindUnit, in.UnitID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, scope.ActionWrite, societyID); err != nil {
		return nil, err
	}

	p := &ParkingSlot{
		UnitID:        in.UnitID,
		SlotNumber:    in.SlotNumber,
		VehicleNumber: in.VehicleNumber,
	}
	if err := s.repo.CreateParkingSlot(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListParkingSlots(ctx context.Context, actor *scope.Actor, unitID uint) ([]ParkingSlot, error) {
	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindUnit, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeUnit(ctx, actor, scope.ActionRead, societyID, unitID); err != nil {
		return nil, err
	}
	return s.repo.ListParkingSlotsByUnit(ctx, unitID)
}
