package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 500_000_000, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIssueDecode(t *testing.T) {
	c, err := NewCodec("secret", WithClock(fixedClock(t0)))
	require.NoError(t, err)

	tok, claims, err := c.Issue("usr-1")
	require.NoError(t, err)
	assert.Equal(t, t0.Truncate(time.Second), claims.IssuedAt.Time)
	assert.Equal(t, t0.Truncate(time.Second).Add(24*time.Hour), claims.ExpiresAt.Time)

	got, err := c.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", got.UserID)
	assert.True(t, got.ExpiresAt.Time.Equal(claims.ExpiresAt.Time))
}

func TestDecodeIgnoresExpiry(t *testing.T) {
	past := time.Now().Add(-72 * time.Hour)
	c, err := NewCodec("secret", WithClock(fixedClock(past)))
	require.NoError(t, err)

	tok, _, err := c.Issue("usr-1")
	require.NoError(t, err)
	_, err = c.Decode(tok)
	assert.NoError(t, err)
}

func TestSameSecondTokensAreIdentical(t *testing.T) {
	c, err := NewCodec("secret", WithClock(fixedClock(t0)))
	require.NoError(t, err)

	a, _, err := c.Issue("usr-1")
	require.NoError(t, err)
	b, _, err := c.Issue("usr-1")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeRejects(t *testing.T) {
	c, err := NewCodec("secret", WithClock(fixedClock(t0)))
	require.NoError(t, err)
	tok, _, err := c.Issue("usr-1")
	require.NoError(t, err)

	other, err := NewCodec("other-secret")
	require.NoError(t, err)
	foreign, _, err := other.Issue("usr-1")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "usr-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		UserID:           "usr-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(t0)},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"tampered signature": tamper(tok),
		"foreign secret":     foreign,
		"alg none":           none,
		"other algorithm":    hs512,
		"garbage":            "not.a.token",
		"empty":              "",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decode(input)
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec("")
	assert.Error(t, err)
}

func TestWithTTL(t *testing.T) {
	c, err := NewCodec("secret", WithClock(fixedClock(t0)), WithTTL(time.Hour))
	require.NoError(t, err)
	_, claims, err := c.Issue("usr-1")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

// tamper flips one character of the signature segment.
func tamper(tok string) string {
	i := strings.LastIndex(tok, ".") + 1
	b := []byte(tok)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
