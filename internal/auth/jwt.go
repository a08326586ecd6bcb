package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"
)

// JWT errors
var (
	ErrInvalidToken = eris.New("invalid token")
	ErrExpiredToken = eris.New("token has expired")
	ErrMissingToken = eris.New("missing bearer token")
)

const issuer = "file-extractor"

// JWTClaims represents custom JWT claims
type JWTClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT operations
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// GenerateToken signs a token for an API client.
func (m *JWTManager) GenerateToken(clientID string) (string, error) {
	if clientID == "" {
		return "", eris.New("client id is required")
	}

	now := m.now()
	claims := JWTClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", eris.Wrap(err, "sign token")
	}
	return signed, nil
}

// ValidateToken validates the JWT token
func (m *JWTManager) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(token *jwt.Token) (interface{}, error) {
			_, ok := token.Method.(*jwt.SigningMethodHMAC)
			if !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, eris.Wrap(ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.ClientID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(header[len(prefix):]), nil
}
