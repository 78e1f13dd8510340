package payment

import (
	"context"
	"errors"
	"time"

	"github.com/prateeks07/society-management-backend/internal/auditlog"
	"github.com/prateeks07/society-management-backend/internal/scope"
)

type Service struct {
	repo     Repository
	policy   *scope.Policy
	resolver *scope.Resolver
	audit    auditlog.Service
}

func NewService(repo Repository, policy *scope.Policy, resolver *scope.Resolver, audit auditlog.Service) *Service {
	return &Service{repo: repo, policy: policy, resolver: resolver, audit: audit}
}

type CreatePaymentInput struct {
	UnitID  uint
	Amount  float64
	DueDate time.Time
	Note    string
}

func (s *Service) CreatePayment(ctx context.Context, actor *scope.Actor, in CreatePaymentInput) (*Payment, error) {
	if in.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindUnit, in.UnitID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, scope.ActionWrite, societyID); err != nil {
		return nil, err
	}

	p := &Payment{
		UnitID:  in.UnitID,
		Amount:  in.Amount,
		Status:  StatusPending,
		DueDate: in.DueDate,
		Note:    in.Note,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, auditlog.Entry{
		UserID:    &actor.ID,
		SocietyID: &societyID,
		Action:    "PAYMENT_CREATED",
		Status:    "SUCCESS",
		Details:   map[string]interface{}{"payment_id": p.ID, "unit_id": p.UnitID, "amount": p.Amount},
	})
	return p, nil
}

// RecordPayment settles a pending demand. Recording twice fails with a
// conflict rather than silently overwriting the first settlement.
func (s *Service) RecordPayment(ctx context.Context, actor *scope.Actor, paymentID uint, method string) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindUnit, p.UnitID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, scope.ActionWrite, societyID); err != nil {
		return nil, err
	}

	out, err := s.repo.MarkPaid(ctx, paymentID, method, time.Now())
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, auditlog.Entry{
		UserID:    &actor.ID,
		SocietyID: &societyID,
		Action:    "PAYMENT_RECORDED",
		Status:    "SUCCESS",
		Details:   map[string]interface{}{"payment_id": out.ID, "method": method},
	})
	return out, nil
}

func (s *Service) ListByUnit(ctx context.Context, actor *scope.Actor, unitID uint) ([]Payment, error) {
	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindUnit, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeUnit(ctx, actor, scope.ActionRead, societyID, unitID); err != nil {
		return nil, err
	}
	return s.repo.ListByUnit(ctx, unitID)
}

// ListPayments returns payments across everything the actor can see.
func (s *Service) ListPayments(ctx context.Context, actor *scope.Actor, status PaymentStatus) ([]PaymentWithUnit, error) {
	sf, err := s.policy.Filter(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.repo.ListScoped(ctx, sf, status)
}

// MyPayments is the tenant's own dues view. A non-tenant gets an empty
// list, not an error; the route is a personal read.
func (s *Service) MyPayments(ctx context.Context, actor *scope.Actor) ([]PaymentWithUnit, error) {
	if actor == nil {
		return nil, scope.ErrUnauthorized
	}
	if actor.Role != scope.RoleTenant {
		return []PaymentWithUnit{}, nil
	}
	return s.repo.ListByTenant(ctx, actor.ID)
}

// Summary is the cross-society rollup for dashboards: PAID amounts grouped
// by settlement month plus the pending/overdue split, over every society the
// actor can see.
func (s *Service) Summary(ctx context.Context, actor *scope.Actor) (*PaymentSummary, error) {
	sf, err := s.policy.Filter(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx, sf, time.Now())
}

func (s *Service) CollectionSummary(ctx context.Context, actor *scope.Actor, societyID uint, from, to time.Time) (*CollectionSummary, error) {
	if err := s.policy.Authorize(ctx, actor, scope.ActionRead, societyID); err != nil {
		return nil, err
	}
	return s.repo.CollectionSummary(ctx, societyID, from, to, time.Now())
}
