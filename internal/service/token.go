package service

import (
	"errors"
	"fmt"
	"time"

	"bookclub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const RoleAdmin = "admin"

var (
	ErrEmptySecret  = errors.New("jwt secret is empty")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// TokenService signs and verifies admin API bearer tokens (HS256).
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewTokenService(secret string, ttl time.Duration, logger *zap.Logger) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now, logger: logger}
}

// Issue returns a signed token for subject and its expiration time.
func (s *TokenService) Issue(subject string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrEmptySecret
	}
	now := s.now()
	expirationTime := now.Add(s.ttl)
	claims := &models.Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error("Failed to generate JWT token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("Admin token issued", zap.String("subject", subject), zap.Time("expires_at", expirationTime))
	return tokenString, expirationTime, nil
}

// Parse verifies the signature and expiry of tokenString.
func (s *TokenService) Parse(tokenString string) (*models.Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrEmptySecret
	}
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
