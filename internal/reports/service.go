package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prateeks07/society-management-backend/internal/scope"
	"github.com/prateeks07/society-management-backend/utils"
)

const overviewCacheTTL = time.Minute

type Service struct {
	repo     Repository
	policy   *scope.Policy
	exporter ReportExporter
}

func NewService(repo Repository, policy *scope.Policy) *Service {
	return &Service{repo: repo, policy: policy, exporter: NewReportExporter()}
}

// SocietyOverview is the owner dashboard rollup. Today's visitor counts use
// the server's local day.
func (s *Service) SocietyOverview(ctx context.Context, actor *scope.Actor, societyID uint) (*SocietyOverview, error) {
	if err := s.policy.Authorize(ctx, actor, scope.ActionRead, societyID); err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	cacheKey := fmt.Sprintf("society_overview:%d:%s", societyID, dayStart.Format("2006-01-02"))
	cacheable := true
	if cached, err := utils.CacheGet(cacheKey); err == nil {
		var overview SocietyOverview
		if json.Unmarshal([]byte(cached), &overview) == nil {
			return &overview, nil
		}
	} else if !utils.IsCacheMiss(err) {
		cacheable = false
	}

	overview, err := s.repo.SocietyOverview(ctx, societyID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if payload, err := json.Marshal(overview); err == nil {
			_ = utils.CacheSet(cacheKey, string(payload), overviewCacheTTL)
		}
	}
	return overview, nil
}

func (s *Service) VisitorRegister(ctx context.Context, actor *scope.Actor, societyID uint, from, to time.Time) ([]VisitorRegisterRow, error) {
	if err := s.policy.Authorize(ctx, actor, scope.ActionRead, societyID); err != nil {
		return nil, err
	}
	return s.repo.VisitorRegister(ctx, societyID, from, to)
}

// ExportVisitorRegister renders the register as a download. Returns the file
// bytes, a filename, and the content type.
func (s *Service) ExportVisitorRegister(ctx context.Context, actor *scope.Actor, societyID uint, from, to time.Time, format string) ([]byte, string, string, error) {
	rows, err := s.VisitorRegister(ctx, actor, societyID, from, to)
	if err != nil {
		return nil, "", "", err
	}
	return s.exporter.ExportVisitorRegister(format, rows)
}

func (s *Service) PaymentCollections(ctx context.Context, actor *scope.Actor, societyID uint, from, to time.Time) ([]PaymentCollectionRow, error) {
	if err := s.policy.Authorize(ctx, actor, scope.ActionRead, societyID); err != nil {
		return nil, err
	}
	return s.repo.PaymentCollections(ctx, societyID, from, to)
}

func (s *Service) ExportPaymentCollections(ctx context.Context, actor *scope.Actor, societyID uint, from, to time.Time, format string) ([]byte, string, string, error) {
	rows, err := s.PaymentCollections(ctx, actor, societyID, from, to)
	if err != nil {
		return nil, "", "", err
	}
	return s.exporter.ExportPaymentCollections(format, rows)
}
