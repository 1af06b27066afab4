package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskhub-backend/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// TokenKind selects which secret and expiry a token is signed and verified
// with. Access and refresh tokens share the claim shape but never a secret.
type TokenKind int

const (
	TokenAccess TokenKind = iota
	TokenRefresh
)

type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// TokenManager issues and validates the signed access/refresh token pair.
type TokenManager struct {
	cfg TokenConfig
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	return &TokenManager{cfg: cfg}
}

func (m *TokenManager) secret(kind TokenKind) []byte {
	if kind == TokenRefresh {
		return []byte(m.cfg.RefreshSecret)
	}
	return []byte(m.cfg.AccessSecret)
}

func (m *TokenManager) expiry(kind TokenKind) time.Duration {
	if kind == TokenRefresh {
		return m.cfg.RefreshExpiry
	}
	return m.cfg.AccessExpiry
}

// Generate signs a token of the given kind carrying the user id as subject
// and the role as a custom claim.
func (m *TokenManager) Generate(kind TokenKind, userID string, role models.Role) (string, error) {
	now := time.Now()

	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry(kind))),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret(kind))
}

// GeneratePair issues a fresh access+refresh token pair.
func (m *TokenManager) GeneratePair(userID string, role models.Role) (accessToken, refreshToken string, err error) {
	accessToken, err = m.Generate(TokenAccess, userID, role)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = m.Generate(TokenRefresh, userID, role)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Validate verifies signature and expiry against the secret for the given
// kind. Expiry is reported as ErrExpiredToken, every other failure as
// ErrInvalidToken.
func (m *TokenManager) Validate(tokenString string, kind TokenKind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return m.secret(kind), nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
