package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prateeks07/society-management-backend/internal/scope"
)

type Handler struct {
	service Service
	policy  *scope.Policy
}

func NewHandler(s Service, p *scope.Policy) *Handler {
	return &Handler{service: s, policy: p}
}

// GetAuditLogs lists audit entries for societies inside the actor's scope.
// Owners see their own societies' trail; nothing else is exposed.
func (h *Handler) GetAuditLogs(c *gin.Context) {
	actorVal, exists := c.Get("actor")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	actor := actorVal.(*scope.Actor)

	filter := parseFilter(c)

	if filter.SocietyID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "society_id is required"})
		return
	}
	if err := h.policy.Authorize(c.Request.Context(), actor, scope.ActionRead, *filter.SocietyID); err != nil {
		c.JSON(scope.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.GetLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch audit logs"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseFilter(c *gin.Context) AuditLogFilter {
	var filter AuditLogFilter

	if v := c.Query("society_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			sid := uint(id)
			filter.SocietyID = &sid
		}
	}
	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			uid := uint(id)
			filter.UserID = &uid
		}
	}
	filter.Action = c.Query("action")
	filter.Status = c.Query("status")

	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.FromDate = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			filter.ToDate = &end
		}
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return filter
}
