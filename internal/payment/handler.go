package payment

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prateeks07/society-management-backend/internal/scope"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func actorFrom(c *gin.Context) *scope.Actor {
	if v, ok := c.Get("actor"); ok {
		if a, ok := v.(*scope.Actor); ok {
			return a
		}
	}
	return nil
}

func fail(c *gin.Context, err error) {
	c.JSON(scope.HTTPStatus(err), gin.H{"error": err.Error()})
}

type createPaymentReq struct {
	UnitID  uint    `json:"unitId" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
	DueDate string  `json:"dueDate" binding:"required"` // 2006-01-02
	Note    string  `json:"note"`
}

func (h *Handler) CreatePayment(c *gin.Context) {
	var req createPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	due, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dueDate"})
		return
	}

	p, err := h.service.CreatePayment(c.Request.Context(), actorFrom(c), CreatePaymentInput{
		UnitID:  req.UnitID,
		Amount:  req.Amount,
		DueDate: due,
		Note:    req.Note,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type recordPaymentReq struct {
	Method string `json:"method" binding:"required"`
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req recordPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.service.RecordPayment(c.Request.Context(), actorFrom(c), uint(id), req.Method)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPayments(c *gin.Context) {
	payments, err := h.service.ListPayments(c.Request.Context(), actorFrom(c), PaymentStatus(c.Query("status")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) ListByUnit(c *gin.Context) {
	unitID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	payments, err := h.service.ListByUnit(c.Request.Context(), actorFrom(c), uint(unitID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) CollectionSummary(c *gin.Context) {
	societyID, err := strconv.ParseUint(c.Query("society_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "society_id is required"})
		return
	}

	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now
	if f := c.Query("from"); f != "" {
		parsed, err := time.Parse("2006-01-02", f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		from = parsed
	}
	if t := c.Query("to"); t != "" {
		parsed, err := time.Parse("2006-01-02", t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		to = parsed.Add(24 * time.Hour)
	}

	summary, err := h.service.CollectionSummary(c.Request.Context(), actorFrom(c), uint(societyID), from, to)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) MyPayments(c *gin.Context) {
	payments, err := h.service.MyPayments(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
