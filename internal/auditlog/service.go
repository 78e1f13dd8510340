package auditlog

import (
	"context"
	"encoding/json"
	"log"

	"github.com/prateeks07/society-management-backend/utils"
)

// Service records audit entries. When kafka is configured entries go through
// the audit-events topic and the consumer persists them; otherwise they are
// written straight to the database. Recording is best-effort and never fails
// the calling operation.
type Service interface {
	Log(ctx context.Context, entry Entry)
	GetLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
}

// Entry is the event shape produced by the rest of the app.
type Entry struct {
	UserID    *uint                  `json:"user_id,omitempty"`
	SocietyID *uint                  `json:"society_id,omitempty"`
	Action    string                 `json:"action"`
	Status    string                 `json:"status"`
	Details   map[string]interface{} `json:"details,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Log(ctx context.Context, entry Entry) {
	if utils.IsKafkaEnabled() {
		payload, err := json.Marshal(entry)
		if err != nil {
			log.Printf("⚠️ Failed to marshal audit entry: %v", err)
			return
		}
		utils.PublishAuditEvent(payload)
		return
	}

	if err := s.persist(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to write audit log: %v", err)
	}
}

func (s *service) persist(ctx context.Context, entry Entry) error {
	var details []byte
	if entry.Details != nil {
		details, _ = json.Marshal(entry.Details)
	}

	return s.repo.Create(ctx, &AuditLog{
		UserID:    entry.UserID,
		SocietyID: entry.SocietyID,
		Action:    entry.Action,
		Status:    entry.Status,
		Details:   details,
		IPAddress: entry.IPAddress,
	})
}

func (s *service) GetLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	logs, total, err := s.repo.GetByFilter(ctx, filter)
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
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}
