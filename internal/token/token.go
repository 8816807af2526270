// Package token issues and verifies the signed, time-bound identity tokens
// that back the bearer-token authentication gate.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure reasons. Callers collapse these to valid/invalid
// before anything reaches a client; the sub-reason is for server-side logs.
var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformed        = errors.New("malformed token")
	ErrExpired          = errors.New("token expired")
	ErrIssuerMismatch   = errors.New("token issuer mismatch")
	ErrUnsupported      = errors.New("unsupported token")
)

// Config holds the signing parameters. All fields are required.
type Config struct {
	// Secret is the HMAC key material. HS256 needs at least 32 bytes.
	Secret string
	// Issuer is embedded on issue and checked for equality on verify.
	Issuer string
	// TTL is the validity window applied to every issued token.
	TTL time.Duration
}

// Manager signs and verifies identity tokens with a symmetric key derived
// once at construction. A Manager is immutable and safe for concurrent use.
type Manager struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

// NewManager validates cfg and derives the signing key.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < 32 {
		return nil, errors.New("signing secret must be at least 32 bytes for HS256")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("issuer must be provided")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}

	return &Manager{
		key:    []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
	}, nil
}

// Issue creates a signed token for subject with the configured issuer,
// issued-at now and expiry now+TTL.
func (m *Manager) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

// Verify parses tokenStr and checks signature, expiration and issuer
// equality. It returns the subject only when all three hold.
func (m *Manager) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenStr,
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", classify(err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", ErrUnsupported
	}
	return claims.Subject, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuerMismatch
	default:
		return ErrUnsupported
	}
}
