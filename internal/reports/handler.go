package reports

import (
	"net/http"
	"strconv"

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

func societyIDQuery(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Query("society_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "society_id is required"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) SocietyOverview(c *gin.Context) {
	societyID, ok := societyIDQuery(c)
	if !ok {
		return
	}
	overview, err := h.service.SocietyOverview(c.Request.Context(), actorFrom(c), societyID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) VisitorRegister(c *gin.Context) {
	societyID, ok := societyIDQuery(c)
	if !ok {
		return
	}
	from, to, err := GetDateRange(c.Query("date_range"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := c.Query("format")
	if format == "" {
		rows, err := h.service.VisitorRegister(c.Request.Context(), actorFrom(c), societyID, from, to)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"visitors": rows})
		return
	}

	data, filename, contentType, err := h.service.ExportVisitorRegister(c.Request.Context(), actorFrom(c), societyID, from, to, format)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) PaymentCollections(c *gin.Context) {
	societyID, ok := societyIDQuery(c)
	if !ok {
		return
	}
	from, to, err := GetDateRange(c.Query("date_range"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := c.Query("format")
	if format == "" {
		rows, err := h.service.PaymentCollections(c.Request.Context(), actorFrom(c), societyID, from, to)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": rows})
		return
	}

	data, filename, contentType, err := h.service.ExportPaymentCollections(c.Request.Context(), actorFrom(c), societyID, from, to, format)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
