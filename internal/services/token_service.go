package services

import (
	"fmt"
	"strconv"
	"time"

	"storefront/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TokenTypeBearer = "bearer"

// AccessClaims are carried by the tokens issued at login
type AccessClaims struct {
	UserType string `json:"user_type"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(user *models.User) (string, error)
	Validate(token string) (*AccessClaims, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &tokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *tokenService) Issue(user *models.User) (string, error) {
	now := s.now()
	claims := AccessClaims{
		UserType: user.UserType,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signed, nil
}

func (s *tokenService) Validate(token string) (*AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims, ok := parsed.Claims.(*AccessClaims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims")
}
