package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prateeks07/society-management-backend/internal/auditlog"
	"github.com/prateeks07/society-management-backend/internal/scope"
)

type Handler struct {
	service Service
	policy  *scope.Policy
	audit   auditlog.Service
}

func NewHandler(s Service, p *scope.Policy, audit auditlog.Service) *Handler {
	return &Handler{service: s, policy: p, audit: audit}
}

// ===============================
// Registration
// ===============================

type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Staff accounts are owner-created, never self-registered
	if strings.ToLower(req.Role) == "staff" {
		c.JSON(http.StatusForbidden, gin.H{"error": "staff registration is not allowed"})
		return
	}

	if err := h.service.Register(RegisterInput(req)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful"})
}

// ===============================
// Login
// ===============================

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, user, err := h.service.Login(LoginInput(req))
	if err != nil {
		h.audit.Log(c.Request.Context(), auditlog.Entry{
			Action:    "LOGIN",
			Status:    "failure",
			Details:   map[string]interface{}{"email": req.Email},
			IPAddress: c.GetString("client_ip"),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	h.audit.Log(c.Request.Context(), auditlog.Entry{
		UserID:    &user.ID,
		Action:    "LOGIN",
		Status:    "success",
		IPAddress: c.GetString("client_ip"),
	})

	userPayload := gin.H{
		"id":       user.ID,
		"fullName": user.FullName,
		"email":    user.Email,
		"role":     user.Role.RoleName,
	}
	if user.WorkingSocietyID != nil {
		userPayload["workingSocietyId"] = *user.WorkingSocietyID
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         userPayload,
	})
}

// ===============================
// Refresh Token
// ===============================

type refreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *Handler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}

func (h *Handler) Logout(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Logout(req.RefreshToken); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ===============================
// Password reset
// ===============================

type forgotPasswordReq struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.RequestPasswordReset(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reset token issued"})
}

type resetPasswordReq struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.ResetPassword(req.Token, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// ===============================
// Profile (self-service read)
// ===============================

// Me returns the caller's own record. Personal reads return an empty object
// rather than failing when no actor is present.
func (h *Handler) Me(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	user := userVal.(User)

	c.JSON(http.StatusOK, gin.H{"user": UserResponse{
		ID:               user.ID,
		Name:             user.FullName,
		Email:            user.Email,
		Phone:            user.Phone,
		Role:             user.Role.RoleName,
		Status:           user.Status,
		WorkingSocietyID: user.WorkingSocietyID,
		CreatedAt:        user.CreatedAt,
	}})
}

// ===============================
// Staff (guard) management
// ===============================

type createStaffReq struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required"`
}

// CreateStaff creates a guard posted to the society in the path. Owner-only.
func (h *Handler) CreateStaff(c *gin.Context) {
	actor := actorFrom(c)

	societyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid society id"})
		return
	}

	if err := h.policy.Authorize(c.Request.Context(), actor, scope.ActionWrite, uint(societyID)); err != nil {
		c.JSON(scope.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	var req createStaffReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.CreateStaff(CreateStaffInput{
		FullName:         req.FullName,
		Email:            req.Email,
		Password:         req.Password,
		Phone:            req.Phone,
		WorkingSocietyID: uint(societyID),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid := uint(societyID)
	h.audit.Log(c.Request.Context(), auditlog.Entry{
		UserID:    &actor.ID,
		SocietyID: &sid,
		Action:    "STAFF_CREATED",
		Status:    "success",
		Details:   map[string]interface{}{"staff_id": resp.ID},
		IPAddress: c.GetString("client_ip"),
	})

	c.JSON(http.StatusCreated, resp)
}

// ReassignStaff re-posts a guard to the society in the path. The caller must
// hold write scope on both the guard's current society and the new one.
func (h *Handler) ReassignStaff(c *gin.Context) {
	actor := actorFrom(c)

	societyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid society id"})
		return
	}
	staffID, err := strconv.ParseUint(c.Param("staffId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
		return
	}

	if err := h.policy.Authorize(c.Request.Context(), actor, scope.ActionWrite, uint(societyID)); err != nil {
		c.JSON(scope.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	staff, err := h.service.GetUserByID(uint(staffID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "staff user not found"})
		return
	}
	if staff.WorkingSocietyID != nil && *staff.WorkingSocietyID != uint(societyID) {
		if err := h.policy.Authorize(c.Request.Context(), actor, scope.ActionWrite, *staff.WorkingSocietyID); err != nil {
			c.JSON(scope.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
	}

	resp, err := h.service.ReassignStaff(uint(staffID), uint(societyID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid := uint(societyID)
	h.audit.Log(c.Request.Context(), auditlog.Entry{
		UserID:    &actor.ID,
		SocietyID: &sid,
		Action:    "STAFF_REASSIGNED",
		Status:    "success",
		Details:   map[string]interface{}{"staff_id": resp.ID},
		IPAddress: c.GetString("client_ip"),
	})

	c.JSON(http.StatusOK, resp)
}

// ListStaff lists the guards posted to the society in the path.
func (h *Handler) ListStaff(c *gin.Context) {
	actor := actorFrom(c)

	societyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid society id"})
		return
	}

	if err := h.policy.Authorize(c.Request.Context(), actor, scope.ActionRead, uint(societyID)); err != nil {
		c.JSON(scope.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	staff, err := h.service.ListStaff(uint(societyID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list staff"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

func actorFrom(c *gin.Context) *scope.Actor {
	if v, ok := c.Get("actor"); ok {
		if a, ok := v.(*scope.Actor); ok {
			return a
		}
	}
	return nil
}
