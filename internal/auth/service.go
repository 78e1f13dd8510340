package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/prateeks07/society-management-backend/config"
	"github.com/prateeks07/society-management-backend/internal/scope"
	"github.com/prateeks07/society-management-backend/utils"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service interface {
	Register(input RegisterInput) error
	Login(input LoginInput) (*TokenPair, *User, error)
	Refresh(refreshToken string) (string, error)
	Logout(refreshToken string) error
	GetUserByID(userID uint) (User, error)
	Actor(user *User) *scope.Actor

	CreateStaff(input CreateStaffInput) (*UserResponse, error)
	ListStaff(societyID uint) ([]UserResponse, error)
	ReassignStaff(staffID, societyID uint) (*UserResponse, error)
	TenantIDByEmail(email string) (uint, error)

	RequestPasswordReset(email string) error
	ResetPassword(token string, newPassword string) error
}

type service struct {
	repo          Repository
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(r Repository, cfg *config.Config) Service {
	return &service{
		repo:          r,
		accessSecret:  cfg.JWTAccessSecret,
		refreshSecret: cfg.JWTRefreshSecret,
		accessTTL:     time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
		refreshTTL:    time.Duration(cfg.JWTRefreshTTLHours) * time.Hour,
	}
}

// =============================
// Register
// =============================

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     string
	Phone    string
}

// Register creates an owner or tenant account. Staff accounts are never
// self-registered: an owner creates them and posts them to a society.
func (s *service) Register(in RegisterInput) error {
	roleName := strings.ToLower(in.Role)
	if roleName != "owner" && roleName != "tenant" {
		return errors.New("invalid role")
	}

	role, err := s.repo.FindRoleByName(roleName)
	if err != nil {
		return errors.New("invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	phone, err := cleanPhone(in.Phone)
	if err != nil {
		return err
	}

	user := &User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Status:       "active",
		Phone:        phone,
	}

	return s.repo.Create(user)
}

// =============================
// Create staff (guard)
// =============================

type CreateStaffInput struct {
	FullName         string
	Email            string
	Password         string
	Phone            string
	WorkingSocietyID uint
}

// CreateStaff creates a guard account posted to the given society. The caller
// must already have authorized the posting against the society's scope.
func (s *service) CreateStaff(in CreateStaffInput) (*UserResponse, error) {
	role, err := s.repo.FindRoleByName("staff")
	if err != nil {
		return nil, errors.New("staff role not seeded")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	phone, err := cleanPhone(in.Phone)
	if err != nil {
		return nil, err
	}

	societyID := in.WorkingSocietyID
	user := &User{
		FullName:         in.FullName,
		Email:            in.Email,
		PasswordHash:     string(hash),
		RoleID:           role.ID,
		Status:           "active",
		Phone:            phone,
		WorkingSocietyID: &societyID,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, errors.New("failed to create staff user: " + err.Error())
	}

	return &UserResponse{
		ID:               user.ID,
		Name:             user.FullName,
		Email:            user.Email,
		Phone:            user.Phone,
		Role:             "staff",
		Status:           user.Status,
		WorkingSocietyID: user.WorkingSocietyID,
		CreatedAt:        user.CreatedAt,
	}, nil
}

// ListStaff returns the guards posted to a society.
func (s *service) ListStaff(societyID uint) ([]UserResponse, error) {
	return s.repo.ListStaffBySociety(societyID)
}

// ReassignStaff re-posts a guard to another society. The caller must have
// authorized the move against both the old and new postings.
func (s *service) ReassignStaff(staffID, societyID uint) (*UserResponse, error) {
	user, err := s.repo.FindByID(staffID)
	if err != nil {
		return nil, errors.New("staff user not found")
	}
	if user.Role.RoleName != "staff" {
		return nil, errors.New("user is not a staff member")
	}

	if err := s.repo.UpdateWorkingSociety(staffID, &societyID); err != nil {
		return nil, err
	}

	user.WorkingSocietyID = &societyID
	return &UserResponse{
		ID:               user.ID,
		Name:             user.FullName,
		Email:            user.Email,
		Phone:            user.Phone,
		Role:             "staff",
		Status:           user.Status,
		WorkingSocietyID: user.WorkingSocietyID,
		CreatedAt:        user.CreatedAt,
	}, nil
}

// TenantIDByEmail resolves a tenant account for allocation flows where the
// caller knows the email rather than the user id.
func (s *service) TenantIDByEmail(email string) (uint, error) {
	u, err := s.repo.FindTenantByEmail(email)
	if err != nil {
		return 0, errors.New("tenant not found")
	}
	return u.ID, nil
}

// =============================
// Login
// =============================

type LoginInput struct {
	Email    string
	Password string
}

func (s *service) Login(in LoginInput) (*TokenPair, *User, error) {
	user, err := s.repo.FindByEmail(in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("couldn't find your account")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, errors.New("invalid credentials")
	}

	if user.Status == "inactive" {
		return nil, nil, errors.New("your account is inactive")
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, nil, err
	}
	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, user, nil
}

func (s *service) generateAccessToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role.RoleName,
		"exp":     time.Now().Add(s.accessTTL).Unix(),
	}
	if user.WorkingSocietyID != nil {
		claims["working_society_id"] = *user.WorkingSocietyID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.accessSecret))
}

func (s *service) generateRefreshToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.refreshTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.refreshSecret))
}

// =============================
// Refresh
// =============================

func (s *service) Refresh(refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid refresh token")
	}

	// A logged-out token sits on the Redis denylist until it expires anyway.
	if _, err := utils.GetToken(revokedTokenKey(refreshToken)); err == nil {
		return "", errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["user_id"] == nil {
		return "", errors.New("invalid token claims")
	}

	userID := uint(claims["user_id"].(float64))
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return "", errors.New("user not found")
	}

	return s.generateAccessToken(&user)
}

// =============================
// Logout
// =============================

func revokedTokenKey(refreshToken string) string {
	sum := sha256.Sum256([]byte(refreshToken))
	return fmt.Sprintf("revoked_token:%s", hex.EncodeToString(sum[:]))
}

// Logout denylists the refresh token for the rest of its lifetime. Access
// tokens are short-lived and simply expire.
func (s *service) Logout(refreshToken string) error {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid refresh token")
	}

	if err := utils.SetToken(revokedTokenKey(refreshToken), "1", s.refreshTTL); err != nil {
		return errors.New("could not revoke token")
	}
	return nil
}

// =============================
// Password reset
// =============================

func (s *service) RequestPasswordReset(email string) error {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return errors.New("user not found")
	}

	resetToken := generateSecureToken()
	key := fmt.Sprintf("reset_token:%s", resetToken)

	if err := utils.SetToken(key, fmt.Sprint(user.ID), 15*time.Minute); err != nil {
		return errors.New("could not save reset token")
	}

	// Token delivery is out of scope here; ops wire it to their mailer.
	return nil
}

func (s *service) ResetPassword(token string, newPassword string) error {
	key := fmt.Sprintf("reset_token:%s", token)
	val, err := utils.GetToken(key)
	if err != nil {
		return errors.New("invalid or expired token")
	}

	var userID uint
	if _, err := fmt.Sscan(val, &userID); err != nil {
		return errors.New("invalid token data")
	}

	user, err := s.repo.FindByID(userID)
	if err != nil {
		return errors.New("user not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	if err := s.repo.Update(&user); err != nil {
		return errors.New("failed to update password")
	}

	_ = utils.DeleteToken(key)
	return nil
}

// =============================
// Actor resolution
// =============================

func (s *service) GetUserByID(userID uint) (User, error) {
	return s.repo.FindByID(userID)
}

// Actor maps a user row to the scope actor passed into every core operation.
func (s *service) Actor(user *User) *scope.Actor {
	if user == nil {
		return nil
	}
	return &scope.Actor{
		ID:               user.ID,
		Role:             scope.Role(user.Role.RoleName),
		WorkingSocietyID: user.WorkingSocietyID,
	}
}

// =============================
// Helpers
// =============================

func generateSecureToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func cleanPhone(raw string) (string, error) {
	re := regexp.MustCompile(`\D`)
	cleaned := re.ReplaceAllString(raw, "")

	// Strip leading 91 if present and length is 12
	if len(cleaned) == 12 && strings.HasPrefix(cleaned, "91") {
		cleaned = cleaned[2:]
	}

	if len(cleaned) != 10 {
		return "", errors.New("invalid phone number format")
	}

	return cleaned, nil
}
