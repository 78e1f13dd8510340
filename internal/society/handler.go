package society

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prateeks07/society-management-backend/internal/scope"
)

// TenantDirectory resolves a tenant account when the caller allocates by
// email instead of user id.
type TenantDirectory interface {
	TenantIDByEmail(email string) (uint, error)
}

type Handler struct {
	service *Service
	tenants TenantDirectory
}

func NewHandler(s *Service, tenants TenantDirectory) *Handler {
	return &Handler{service: s, tenants: tenants}
}

func actorFrom(c *gin.Context) *scope.Actor {
	if v, ok := c.Get("actor"); ok {
		if a, ok := v.(*scope.Actor); ok {
			return a
		}
	}
	return nil
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func fail(c *gin.Context, err error) {
	c.JSON(scope.HTTPStatus(err), gin.H{"error": err.Error()})
}

// ========== Societies ==========

type createSocietyReq struct {
	Name        string `json:"name" binding:"required"`
	SocietyType string `json:"societyType" binding:"required"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}

func (h *Handler) CreateSociety(c *gin.Context) {
	var req createSocietyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	soc, err := h.service.CreateSociety(c.Request.Context(), actorFrom(c), CreateSocietyInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, soc)
}

func (h *Handler) ListSocieties(c *gin.Context) {
	societies, err := h.service.ListSocieties(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"societies": societies})
}

func (h *Handler) GetSociety(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	soc, err := h.service.GetSociety(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, soc)
}

// ========== Buildings ==========

type createBuildingReq struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) CreateBuilding(c *gin.Context) {
	societyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createBuildingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.CreateBuilding(c.Request.Context(), actorFrom(c), CreateBuildingInput{
		Name:      req.Name,
		SocietyID: societyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) ListBuildings(c *gin.Context) {
	societyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	buildings, err := h.service.ListBuildings(c.Request.Context(), actorFrom(c), societyID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buildings": buildings})
}

// ========== Units ==========

type createUnitReq struct {
	Name  string `json:"name" binding:"required"`
	Floor int    `json:"floor"`
}

func (h *Handler) CreateUnit(c *gin.Context) {
	buildingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createUnitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.service.CreateUnit(c.Request.Context(), actorFrom(c), CreateUnitInput{
		Name:       req.Name,
		Floor:      req.Floor,
		BuildingID: buildingID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) ListUnits(c *gin.Context) {
	buildingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	units, err := h.service.ListUnits(c.Request.Context(), actorFrom(c), buildingID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}

type allocateReq struct {
	TenantUserID uint   `json:"tenantUserId"`
	TenantEmail  string `json:"tenantEmail"`
}

func (h *Handler) AllocateUnit(c *gin.Context) {
	unitID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req allocateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenantID := req.TenantUserID
	if tenantID == 0 {
		if req.TenantEmail == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tenantUserId or tenantEmail is required"})
			return
		}
		id, err := h.tenants.TenantIDByEmail(req.TenantEmail)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		tenantID = id
	}

	u, err := h.service.AllocateUnit(c.Request.Context(), actorFrom(c), unitID, tenantID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) DeallocateUnit(c *gin.Context) {
	unitID, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.service.DeallocateUnit(c.Request.Context(), actorFrom(c), unitID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// MyUnits is the tenant's own allocation view.
func (h *Handler) MyUnits(c *gin.Context) {
	units, err := h.service.MyUnits(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}

// ========== Agreements ==========

type createAgreementReq struct {
	TenantUserID uint    `json:"tenantUserId" binding:"required"`
	StartDate    string  `json:"startDate" binding:"required"` // 2006-01-02
	EndDate      string  `json:"endDate" binding:"required"`
	MonthlyRent  float64 `json:"monthlyRent"`
}

func (h *Handler) CreateAgreement(c *gin.Context) {
	unitID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createAgreementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}

	a, err := h.service.CreateAgreement(c.Request.Context(), actorFrom(c), CreateAgreementInput{
		UnitID:       unitID,
		TenantUserID: req.TenantUserID,
		StartDate:    start,
		EndDate:      end,
		MonthlyRent:  req.MonthlyRent,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAgreements(c *gin.Context) {
	unitID, ok := pathID(c, "id")
	if !ok {
		return
	}
	agreements, err := h.service.ListAgreements(c.Request.Context(), actorFrom(c), unitID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agreements": agreements})
}

// ========== Parking slots ==========

type createParkingSlotReq struct {
	SlotNumber    string `json:"slotNumber" binding:"required"`
	VehicleNumber string `json:"vehicleNumber"`
}

func (h *Handler) CreateParkingSlot(c *gin.Context) {
	unitID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createParkingSlotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.service.CreateParkingSlot(c.Request.Context(), actorFrom(c), CreateParkingSlotInput{
		UnitID:        unitID,
		SlotNumber:    req.SlotNumber,
		VehicleNumber: req.VehicleNumber,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListParkingSlots(c *gin.Context) {
	unitID, ok := pathID(c, "id")
	if !ok {
		return
	}
	slots, err := h.service.ListParkingSlots(c.Request.Context(), actorFrom(c), unitID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"parking_slots": slots})
}
