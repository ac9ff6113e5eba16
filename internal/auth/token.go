package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
)

// Claims carried by access tokens.
type Claims struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

func (s *Service) issueToken(u domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		Role:     u.Role,
		Name:     u.Name,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify parses a bearer token and returns the caller's identity.
func (s *Service) Verify(token string) (domain.Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return domain.Identity{
		UserID:   claims.Subject,
		Role:     claims.Role,
		Name:     claims.Name,
		Username: claims.Username,
	}, nil
}
