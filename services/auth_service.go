package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"booking-backend/apperrors"
	"booking-backend/logger"
	"booking-backend/models"
	"booking-backend/utils"
)

const tokenTTL = 24 * time.Hour

// AuthService issues and validates admin session tokens. Regular callers are
// identified by the upstream identity provider; only inventory management
// goes through admin credentials.
type AuthService struct {
	DB  *gorm.DB
	log *logger.Logger
}

func NewAuthService(db *gorm.DB, log *logger.Logger) *AuthService {
	return &AuthService{DB: db, log: log}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Admin, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", apperrors.InvalidInput("username and password are required")
	}

	var admin models.Admin
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.Unauthorized("invalid credentials")
		}
		s.log.Error("failed to load admin", "username", username, "error", err)
		return nil, "", apperrors.Internal("Login failed", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		s.log.Warn("invalid admin credentials", "username", username)
		return nil, "", apperrors.Unauthorized("invalid credentials")
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		s.log.Error("failed to generate token", "username", username, "error", err)
		return nil, "", apperrors.Internal("Login failed", err)
	}

	record := models.AuthToken{
		AdminID:   admin.ID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(tokenTTL),
	}
	if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
		s.log.Error("failed to store token", "admin_id", admin.ID, "error", err)
		return nil, "", apperrors.Internal("Login failed", err)
	}

	s.log.Info("admin logged in", "admin_id", admin.ID)
	return &admin, token, nil
}

// ValidateToken resolves a bearer token to its admin. Expired and unknown
// tokens are both reported as unauthorized.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.Admin, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("missing token")
	}

	var record models.AuthToken
	err := s.DB.WithContext(ctx).
		Preload("Admin").
		Where("token = ? AND expires_at > ?", token, time.Now().UTC()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized("invalid or expired token")
		}
		s.log.Error("failed to validate token", "error", err)
		return nil, apperrors.Internal("Token validation failed", err)
	}

	return &record.Admin, nil
}
