// Package token signs and reads the identity tokens handed to clients.
package token

import (
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pagescope/user-service/internal/core/domain"
)

// DefaultTTL is how long an issued or renewed token stays valid.
const DefaultTTL = 30 * 24 * time.Hour

// identityClaims is the wire form of domain.Claims.
type identityClaims struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Nick    string `json:"nick"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Image   string `json:"image"`
	Page    string `json:"page"`
	jwt.RegisteredClaims
}

// Service issues HS256 tokens signed with a server-held secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		// Expiry is checked by the auth gate, not here.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Issue signs c. IssuedAt and ExpiresAt default to now and now+TTL; values
// already set on c are kept so a token can be re-issued without resetting
// its clock.
func (s *Service) Issue(c domain.Claims) (string, error) {
	now := s.now()
	if c.IssuedAt == 0 {
		c.IssuedAt = now.Unix()
	}
	if c.ExpiresAt == 0 {
		c.ExpiresAt = now.Add(s.ttl).Unix()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, toWire(c))
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) Decode(token string) (*domain.Claims, error) {
	var wire identityClaims
	if _, err := s.parser.ParseWithClaims(token, &wire, s.keyFunc); err != nil {
		return nil, domain.ErrInvalidToken.WithDetails(err.Error())
	}
	c := fromWire(wire)
	return &c, nil
}

// Renew re-signs token with a fresh expiry, keeping every other claim.
func (s *Service) Renew(token string) (string, error) {
	c, err := s.Decode(token)
	if err != nil {
		return "", err
	}
	c.ExpiresAt = s.now().Add(s.ttl).Unix()
	return s.Issue(*c)
}

func (s *Service) ReissueWithMerge(old domain.Claims, update domain.Payload) (string, error) {
	merged, err := MergeClaims(old, update)
	if err != nil {
		return "", err
	}
	return s.Issue(merged)
}

func (s *Service) keyFunc(*jwt.Token) (any, error) {
	return s.secret, nil
}

// MergeClaims returns old with the profile fields present in update
// overwritten. Keys that are not claims, and non-string or empty values, are
// ignored; id and page never change. old itself is left untouched.
func MergeClaims(old domain.Claims, update domain.Payload) (domain.Claims, error) {
	patch := domain.Claims{
		Name:    update.Str("name"),
		Surname: update.Str("surname"),
		Nick:    update.Str("nick"),
		Email:   update.Str("email"),
		Role:    update.Str("role"),
		Image:   update.Str("image"),
	}

	merged := old
	if err := mergo.Merge(&merged, patch, mergo.WithOverride); err != nil {
		return domain.Claims{}, fmt.Errorf("merge claims: %w", err)
	}
	return merged, nil
}

func toWire(c domain.Claims) identityClaims {
	return identityClaims{
		ID:      c.ID,
		Name:    c.Name,
		Surname: c.Surname,
		Nick:    c.Nick,
		Email:   c.Email,
		Role:    c.Role,
		Image:   c.Image,
		Page:    c.Page,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)),
		},
	}
}

func fromWire(w identityClaims) domain.Claims {
	c := domain.Claims{
		ID:      w.ID,
		Name:    w.Name,
		Surname: w.Surname,
		Nick:    w.Nick,
		Email:   w.Email,
		Role:    w.Role,
		Image:   w.Image,
		Page:    w.Page,
	}
	if w.IssuedAt != nil {
		c.IssuedAt = w.IssuedAt.Unix()
	}
	if w.ExpiresAt != nil {
		c.ExpiresAt = w.ExpiresAt.Unix()
	}
	return c
}
