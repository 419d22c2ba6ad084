package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/school-system/results-portal/internal/config"
)

const RoleAdmin = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthService struct {
	cfg          *config.Config
	passwordHash string
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// NewAuthService prepares admin credential checks. A plain ADMIN_PASSWORD
// is hashed once here so only the hash is kept in memory.
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	hash := cfg.Admin.PasswordHash
	if hash == "" {
		var err error
		hash, err = NewPasswordHash(cfg.Admin.Password, cfg.Argon2)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	}

	return &AuthService{
		cfg:          cfg,
		passwordHash: hash,
	}, nil
}

func argon2Params(c config.Argon2Config) *argon2id.Params {
	return &argon2id.Params{
		Memory:      c.Memory,
		Iterations:  c.Iterations,
		Parallelism: c.Parallelism,
		SaltLength:  c.SaltLength,
		KeyLength:   c.KeyLength,
	}
}

// NewPasswordHash produces a value suitable for ADMIN_PASSWORD_HASH.
func NewPasswordHash(password string, c config.Argon2Config) (string, error) {
	return argon2id.CreateHash(password, argon2Params(c))
}

// Login checks the admin email and password and issues an access token.
func (s *AuthService) Login(email, password string) (string, time.Time, error) {
	if !strings.EqualFold(strings.TrimSpace(email), s.cfg.Admin.Email) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	match, err := argon2id.ComparePasswordAndHash(password, s.passwordHash)
	if err != nil || !match {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.GenerateToken(s.cfg.Admin.Email)
}

func (s *AuthService) GenerateToken(email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.JWT.AccessExpiry)
	claims := &Claims{
		Email: email,
		Role:  RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
