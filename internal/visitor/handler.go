package visitor

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

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

type checkInReq struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone"`
	VisitorType string `json:"visitorType"`
	UnitID      uint   `json:"unitId" binding:"required"`
}

func (h *Handler) CheckIn(c *gin.Context) {
	var req checkInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.service.CheckIn(c.Request.Context(), actorFrom(c), CheckInInput{
		Name:        req.Name,
		Phone:       req.Phone,
		VisitorType: VisitorType(req.VisitorType),
		UnitID:      req.UnitID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *Handler) CheckOut(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := h.service.CheckOut(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type flagReq struct {
	Flagged *bool `json:"flagged" binding:"required"`
}

func (h *Handler) Flag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req flagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.service.Flag(c.Request.Context(), actorFrom(c), id, *req.Flagged)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := h.service.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) Search(c *gin.Context) {
	filter := SearchFilter{
		Query:       c.Query("q"),
		VisitorType: VisitorType(c.Query("type")),
		InsideOnly:  c.Query("inside") == "true",
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		end := t.Add(24 * time.Hour)
		filter.To = &end
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.service.Search(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) MyVisitors(c *gin.Context) {
	visitors, err := h.service.MyVisitors(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, visitors)
}

func (h *Handler) DailySummary(c *gin.Context) {
	societyID, err := strconv.ParseUint(c.Query("society_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "society_id is required"})
		return
	}

	day := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		day = parsed
	}

	summary, err := h.service.DailySummary(c.Request.Context(), actorFrom(c), uint(societyID), day)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
