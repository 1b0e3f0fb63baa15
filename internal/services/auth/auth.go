// Package auth provides password hashing and JWT token handling.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"freelance-rate-engine/internal/config"
	"freelance-rate-engine/internal/models"
)

// ErrInvalidToken is returned when a token cannot be parsed or verified.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload issued at login.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and verifies access tokens and hashes passwords.
type Service struct {
	secret  []byte
	expires time.Duration
}

// NewService creates a new auth service from application config.
func NewService(cfg *config.Config) *Service {
	return &Service{
		secret:  []byte(cfg.JWTSecret),
		expires: time.Duration(cfg.JWTExpiresInDays) * 24 * time.Hour,
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func (s *Service) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func (s *Service) CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IssueToken creates a signed HS256 token for a user. The subject is
// the user id; the role travels as a claim so the middleware can gate
// admin views without a database lookup.
func (s *Service) IssueToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expires)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token and returns the user id and role claims.
func (s *Service) ParseToken(tokenString string) (int64, models.UserRole, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", ErrInvalidToken
	}

	return userID, models.UserRole(claims.Role), nil
}
