package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospitalops/hospital-api/internal/config"
	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	apperrors "github.com/hospitalops/hospital-api/pkg/errors"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.StaffLoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

type Claims struct {
	StaffID    string `json:"staff_id"`
	HospitalID string `json:"hospital_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	repo repository.StaffRepository
	cfg  config.JWTConfig
}

func NewService(repo repository.StaffRepository, cfg config.JWTConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.StaffLoginResponse, error) {
	staff, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Do not leak whether the account exists.
		return nil, apperrors.Unauthorized(nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized(nil)
	}

	token, err := s.generateToken(staff)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.StaffLoginResponse{Token: token, Staff: staff}, nil
}

func (s *Service) generateToken(staff *model.Staff) (string, error) {
	now := time.Now()
	claims := &Claims{
		StaffID:    staff.StaffID,
		HospitalID: staff.HospitalID,
		Role:       staff.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.StaffID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.ExpiryHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}
