package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const defaultTokenTTL = 24 * time.Hour

// Claims identify the account behind a verified token.
type Claims struct {
	AccountID string
	Role      domain.AccountRole
}

// Authenticator hashes credentials with bcrypt and issues HS256 JWTs.
type Authenticator struct {
	secret   []byte
	tokenTTL time.Duration
}

func New(secret string, opts ...Option) *Authenticator {
	a := &Authenticator{
		secret:   []byte(secret),
		tokenTTL: defaultTokenTTL,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type Option func(*Authenticator)

// WithTokenTTL overrides the default token lifetime.
func WithTokenTTL(d time.Duration) Option {
	return func(a *Authenticator) {
		if d > 0 {
			a.tokenTTL = d
		}
	}
}

func (a *Authenticator) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (a *Authenticator) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (a *Authenticator) IssueToken(accountID string, role domain.AccountRole, now time.Time) (string, error) {
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *Authenticator) VerifyToken(raw string) (Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{
		AccountID: claims.Subject,
		Role:      domain.AccountRole(claims.Role),
	}, nil
}
