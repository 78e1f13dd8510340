package visitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prateeks07/society-management-backend/internal/auditlog"
	"github.com/prateeks07/society-management-backend/internal/scope"
	"github.com/prateeks07/society-management-backend/utils"
)

// summaryCacheTTL keeps the gate dashboard snappy without going stale:
// the summary changes on every check-in, so the window is short.
const summaryCacheTTL = 30 * time.Second

type Service struct {
	repo     Repository
	policy   *scope.Policy
	resolver *scope.Resolver
	audit    auditlog.Service
}

func NewService(repo Repository, policy *scope.Policy, resolver *scope.Resolver, audit auditlog.Service) *Service {
	return &Service{repo: repo, policy: policy, resolver: resolver, audit: audit}
}

type CheckInInput struct {
	Name        string
	Phone       string
	VisitorType VisitorType
	UnitID      uint
}

func (s *Service) CheckIn(ctx context.Context, actor *scope.Actor, in CheckInInput) (*Visitor, error) {
	if in.Name == "" {
		return nil, errors.New("visitor name is required")
	}
	switch in.VisitorType {
	case "":
		in.VisitorType = TypeGuest
	case TypeGuest, TypeDelivery, TypeCab, TypeService, TypeOther:
	default:
		return nil, errors.New("invalid visitor type")
	}

	societyID, err := s.resolver.ResolveSociety(ctx, scope.KindUnit, in.UnitID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, scope.ActionWrite, societyID); err != nil {
		return nil, err
	}

	now := time.Now()
	v := &Visitor{
		Name:        in.Name,
		Phone:       in.Phone,
		VisitorType: in.VisitorType,
		SocietyID:   societyID,
		GuardID:     actor.ID,
		UnitID:      in.UnitID,
		CheckInAt:   now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, auditlog.Entry{
		UserID:    &actor.ID,
		SocietyID: &societyID,
		Action:    "VISITOR_CHECKED_IN",
		Status:    "SUCCESS",
		Details:   map[string]interface{}{"visitor_id": v.ID, "unit_id": v.UnitID, "visitor_type": v.VisitorType},
	})
	return v, nil
}

// CheckOut closes an open visit. Any staff posted to the visitor's society
// may close it, not just the guard who opened it; gates change shifts.
func (s *Service) CheckOut(ctx context.Context, actor *scope.Actor, visitorID uint) (*Visitor, error) {
	v, err := s.repo.GetByID(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, scope.ActionWrite, v.SocietyID); err != nil {
		if errors.Is(err, scope.ErrForbidden) && actor != nil {
			s.audit.Log(ctx, auditlog.Entry{
				UserID:    &actor.ID,
				SocietyID: &v.SocietyID,
				Action:    "VISITOR_CHECKOUT_DENIED",
				Status:    "DENIED",
				Details:   map[string]interface{}{"visitor_id": v.ID},
			})
		}
		return nil, err
	}

	out, err := s.repo.CheckOut(ctx, visitorID, time.Now())
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, auditlog.Entry{
		UserID:    &actor.ID,
		SocietyID: &out.SocietyID,
		Action:    "VISITOR_CHECKED_OUT",
		Status:    "SUCCESS",
		Details:   map[string]interface{}{"visitor_id": out.ID},
	})
	return out, nil
}

// Flag marks or unmarks a visitor as suspicious. Flagging is independent of
// the check-in/check-out state, so a visitor already gone can still be flagged.
func (s *Service) Flag(ctx context.Context, actor *scope.Actor, visitorID uint, flagged bool) (*Visitor, error) {
	v, err := s.repo.GetByID(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, actor, scope.ActionWrite, v.SocietyID); err != nil {
		return nil, err
	}

	out, err := s.repo.SetFlag(ctx, visitorID, flagged)
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, auditlog.Entry{
		UserID:    &actor.ID,
		SocietyID: &out.SocietyID,
		Action:    "VISITOR_FLAGGED",
		Status:    "SUCCESS",
		Details:   map[string]interface{}{"visitor_id": out.ID, "flagged": flagged},
	})
	return out, nil
}

func (s *Service) Get(ctx context.Context, actor *scope.Actor, visitorID uint) (*Visitor, error) {
	v, err := s.repo.GetByID(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeUnit(ctx, actor, scope.ActionRead, v.SocietyID, v.UnitID); err != nil {
		return nil, err
	}
	return v, nil
}

type SearchResult struct {
	Visitors []Visitor `json:"visitors"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// Search lists visitors across every society the actor can see. The scope
// filter is pushed into the query itself so rows outside the actor's reach
// never leave the database.
func (s *Service) Search(ctx context.Context, actor *scope.Actor, filter SearchFilter) (*SearchResult, error) {
	sf, err := s.policy.Filter(ctx, actor)
	if err != nil {
		return nil, err
	}

	visitors, total, err := s.repo.Search(ctx, filter, sf)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	return &SearchResult{Visitors: visitors, Total: total, Page: page, Limit: limit}, nil
}

// MyVisitors is the tenant's own gate history: visits to units allocated to
// them. A non-tenant gets an empty list, not an error.
func (s *Service) MyVisitors(ctx context.Context, actor *scope.Actor) ([]Visitor, error) {
	if actor == nil {
		return nil, scope.ErrUnauthorized
	}
	if actor.Role != scope.RoleTenant {
		return []Visitor{}, nil
	}
	return s.repo.ListByTenantUnits(ctx, actor.ID)
}

// DailySummary builds the guard's own dashboard for one society and one
// local day. It counts only visits this guard checked in, scoped to the
// society they are posted to.
func (s *Service) DailySummary(ctx context.Context, actor *scope.Actor, societyID uint, day time.Time) (*DailySummary, error) {
	if err := s.policy.Authorize(ctx, actor, scope.ActionRead, societyID); err != nil {
		return nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	cacheKey := fmt.Sprintf("visitor_summary:%d:%d:%s", societyID, actor.ID, dayStart.Format("2006-01-02"))
	cacheable := true
	if cached, err := utils.CacheGet(cacheKey); err == nil {
		var summary DailySummary
		if json.Unmarshal([]byte(cached), &summary) == nil {
			return &summary, nil
		}
	} else if !utils.IsCacheMiss(err) {
		// Redis absent or down; skip the write-back as well.
		cacheable = false
	}

	summary, err := s.repo.DailySummary(ctx, societyID, actor.ID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if payload, err := json.Marshal(summary); err == nil {
			_ = utils.CacheSet(cacheKey, string(payload), summaryCacheTTL)
		}
	}
	return summary, nil
}
