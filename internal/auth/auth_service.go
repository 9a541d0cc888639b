package auth

import (
	"context"
	"errors"
	"time"

	"github.com/srihar-15/EMS/internal/audit"
	autherrors "github.com/srihar-15/EMS/internal/auth/errors"
	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	repo   Repository
	cfg    config.AuthConfig
	audit  audit.Logger
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, cfg config.AuthConfig, auditLogger audit.Logger, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, cfg: cfg, audit: auditLogger, logger: l, now: time.Now}
}

// HashPassword is used wherever a credential is created.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
		}
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountDisabled
	}

	accessToken, refreshToken, err := s.issueTokens(user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	s.audit.Log(context.WithoutCancel(ctx), audit.Entry{
		Actor:      domain.Actor{ID: user.EmployeeID, UserID: user.ID, Role: user.Role},
		Action:     audit.ActionLogin,
		EntityType: "user",
		EntityID:   user.ID,
	})

	return accessToken, refreshToken, mapToResponse(user), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != TokenTypeRefresh {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountDisabled
	}

	newAccess, newRefresh, err := s.issueTokens(user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	return newAccess, newRefresh, mapToResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}
	resp := mapToResponse(user)
	return &resp, nil
}

func (s *service) issueTokens(user *User) (string, string, error) {
	access, err := s.generateToken(user, TokenTypeAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		s.logger.Error("access token signing failed", zap.Error(err))
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	refresh, err := s.generateToken(user, TokenTypeRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		s.logger.Error("refresh token signing failed", zap.Error(err))
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	return access, refresh, nil
}

func (s *service) generateToken(user *User, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":     user.ID,
		"employee_id": user.EmployeeID,
		"role":        string(user.Role),
		"typ":         typ,
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func mapToResponse(u *User) AuthResponse {
	return AuthResponse{
		ID:         u.ID,
		EmployeeID: u.EmployeeID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
	}
}
