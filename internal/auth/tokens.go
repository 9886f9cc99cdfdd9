package auth

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/ericogr/kids-games/internal/game"
	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer        = "kids-games"
	audienceSess  = "session"
	audienceNonce = "nonce"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrNonceMismatch = errors.New("nonce does not match action or actor")
)

// Signer mints and verifies HS256 session tokens and anti-forgery nonces.
type Signer struct {
	secret   []byte
	nonceTTL time.Duration
	now      func() time.Time
}

// NewSigner builds a Signer. An empty secret generates an in-memory one,
// which invalidates all sessions on restart (fine for development).
func NewSigner(secret string, nonceTTL time.Duration) (*Signer, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := crand.Read(key); err != nil {
			return nil, errors.New("failed to generate dev session secret")
		}
	}
	if nonceTTL <= 0 {
		nonceTTL = 12 * time.Hour
	}
	return &Signer{secret: key, nonceTTL: nonceTTL, now: time.Now}, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Name string    `json:"name"`
	Role game.Role `json:"role"`
}

type nonceClaims struct {
	jwt.RegisteredClaims
	Action string `json:"act"`
}

func (s *Signer) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Signer) parse(token, audience string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

// IssueSession returns a signed session token for p.
func (s *Signer) IssueSession(p Principal, ttl time.Duration) (string, error) {
	now := s.now()
	return s.sign(sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audienceSess},
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: p.Name,
		Role: p.Role,
	})
}

// ParseSession validates a session token and returns its principal.
func (s *Signer) ParseSession(token string) (Principal, error) {
	var c sessionClaims
	if err := s.parse(token, audienceSess, &c); err != nil {
		return Principal{}, err
	}
	if c.Subject == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{Email: c.Subject, Name: c.Name, Role: c.Role}, nil
}

// CreateNonce returns an anti-forgery token bound to the actor and action.
func (s *Signer) CreateNonce(p Principal, action string) (string, error) {
	now := s.now()
	return s.sign(nonceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audienceNonce},
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.nonceTTL)),
		},
		Action: action,
	})
}

// VerifyNonce checks that token was minted for p and action and has not
// expired.
func (s *Signer) VerifyNonce(p Principal, action, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	var c nonceClaims
	if err := s.parse(token, audienceNonce, &c); err != nil {
		return err
	}
	if c.Action != action || c.Subject != p.Email {
		return ErrNonceMismatch
	}
	return nil
}
