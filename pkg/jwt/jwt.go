package jwt

import (
	"context"
	"errors"
	"time"

	"meditrack-backend/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified caller attached to every authenticated request.
type Identity struct {
	SubjectID   string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"displayName,omitempty"`
	PhotoURL    *string   `json:"photoURL,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Verifier turns a bearer credential into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Claims is the payload carried by identity tokens. Name and Picture follow
// the Firebase ID token claim names.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) toIdentity() (*Identity, error) {
	if c.Subject == "" {
		return nil, ErrInvalidToken
	}

	identity := &Identity{
		SubjectID: c.Subject,
		Email:     c.Email,
	}
	if c.Name != "" {
		name := c.Name
		identity.DisplayName = &name
	}
	if c.Picture != "" {
		picture := c.Picture
		identity.PhotoURL = &picture
	}
	if c.ExpiresAt != nil {
		identity.ExpiresAt = c.ExpiresAt.Time
	}
	return identity, nil
}

// HMACService signs and verifies HS256 identity tokens with a shared secret.
// It backs local development and tests where no external issuer is available.
type HMACService struct {
	config config.AuthConfig
}

func NewHMACService(cfg config.AuthConfig) *HMACService {
	return &HMACService{config: cfg}
}

func (s *HMACService) GenerateToken(uid, email, name string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *HMACService) Verify(_ context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims.toIdentity()
}
