package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrNotConfigured = errors.New("signing secret not configured")
)

// DefaultTTL is used when no lifetime override is configured.
const DefaultTTL = 7 * 24 * time.Hour

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Issuer struct {
	Secret []byte
	TTL    time.Duration
}

func NewIssuer(secret string, ttl string) (*Issuer, error) {
	d, err := ParseTTL(ttl)
	if err != nil {
		return nil, err
	}
	return &Issuer{Secret: []byte(secret), TTL: d}, nil
}

// ParseTTL accepts either a Go duration string ("12h") or a raw
// seconds count ("3600"). Empty means DefaultTTL.
func ParseTTL(s string) (time.Duration, error) {
	if s == "" {
		return DefaultTTL, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return d, nil
}

func (i *Issuer) Issue(subject, role string, ttl time.Duration) (string, error) {
	if len(i.Secret) == 0 {
		return "", ErrNotConfigured
	}
	if ttl <= 0 {
		ttl = i.TTL
	}
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.Secret)
}

// Verify fails closed: an unset secret rejects every token.
func (i *Issuer) Verify(tokenStr string) (*Claims, error) {
	if len(i.Secret) == 0 {
		return nil, ErrNotConfigured
	}
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return i.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
