// Package token signs and decodes the HS256 bearer tokens handed to clients.
//
// The codec only proves a token was minted with the shared secret. Whether
// the session behind it is still live is decided by the session store.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSignature covers every token the codec refuses: bad signature,
// unexpected algorithm or malformed structure.
var ErrInvalidSignature = errors.New("token: invalid signature")

// DefaultTTL is the session lifetime.
const DefaultTTL = 24 * time.Hour

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Codec)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	c := &Codec{secret: []byte(secret), ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subjectID valid for the codec TTL. Timestamps are
// truncated to whole seconds, the precision carried by the token, so the
// returned claims match what Decode will read back.
func (c *Codec) Issue(subjectID string) (string, *Claims, error) {
	now := c.now().UTC().Truncate(time.Second)
	claims := &Claims{
		UserID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// Decode verifies the signature and returns the claims. Expiry is not
// checked here.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if claims.UserID == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidSignature)
	}
	return claims, nil
}
