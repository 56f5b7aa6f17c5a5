package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/bookshelf/internal/domain/port/driven"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssuer_IssueAndValidate(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			iss, err := NewIssuer(testSecret, alg)
			require.NoError(t, err)

			tok, err := iss.Issue("alice", time.Minute)
			require.NoError(t, err)
			assert.Len(t, strings.Split(tok, "."), 3)

			sub, err := iss.Validate(tok)
			require.NoError(t, err)
			assert.Equal(t, "alice", sub)
		})
	}
}

func TestIssuer_ClaimsCarrySubAndExp(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	iss, err := NewIssuer(testSecret, "HS256", WithClock(fixedClock(now)))
	require.NoError(t, err)

	tok, err := iss.Issue("alice", 30*time.Minute)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims["sub"])
	assert.Equal(t, float64(now.Unix()), claims["iat"])
	assert.Equal(t, float64(now.Add(30*time.Minute).Unix()), claims["exp"])
}

func TestIssuer_ZeroTTLIsImmediatelyInvalid(t *testing.T) {
	iss, err := NewIssuer(testSecret, "HS256")
	require.NoError(t, err)

	tok, err := iss.Issue("alice", 0)
	require.NoError(t, err)

	_, err = iss.Validate(tok)
	assert.ErrorIs(t, err, driven.ErrInvalidToken)
}

func TestIssuer_ExactExpiryNoLeeway(t *testing.T) {
	issued := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	iss, err := NewIssuer(testSecret, "HS256", WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	tok, err := iss.Issue("alice", time.Minute)
	require.NoError(t, err)

	clock = issued.Add(time.Minute - time.Second)
	_, err = iss.Validate(tok)
	require.NoError(t, err, "one second before exp should still be valid")

	clock = issued.Add(time.Minute)
	_, err = iss.Validate(tok)
	assert.ErrorIs(t, err, driven.ErrInvalidToken, "at exp the token is expired")
}

func TestIssuer_FlippedLastByteIsInvalid(t *testing.T) {
	iss, err := NewIssuer(testSecret, "HS256")
	require.NoError(t, err)

	tok, err := iss.Issue("alice", time.Hour)
	require.NoError(t, err)

	tampered := tok[:len(tok)-1] + string(tok[len(tok)-1]^0x01)
	_, err = iss.Validate(tampered)
	assert.ErrorIs(t, err, driven.ErrInvalidToken)
}

func TestIssuer_RejectsForeignAndMalformedTokens(t *testing.T) {
	iss, err := NewIssuer(testSecret, "HS256")
	require.NoError(t, err)

	other, err := NewIssuer([]byte("another-secret-another-secret-xx"), "HS256")
	require.NoError(t, err)
	foreign, err := other.Issue("alice", time.Hour)
	require.NoError(t, err)

	hs512, err := NewIssuer(testSecret, "HS512")
	require.NoError(t, err)
	wrongAlg, err := hs512.Issue("alice", time.Hour)
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString(testSecret)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "two segments", token: "abc.def"},
		{name: "signed with other secret", token: foreign},
		{name: "unexpected algorithm", token: wrongAlg},
		{name: "missing subject", token: noSub},
		{name: "missing expiry", token: noExp},
		{name: "alg none", token: unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := iss.Validate(tt.token)
			assert.ErrorIs(t, err, driven.ErrInvalidToken)
			assert.Empty(t, sub)
		})
	}
}

func TestNewIssuer_Validation(t *testing.T) {
	_, err := NewIssuer(nil, "HS256")
	assert.Error(t, err)

	_, err = NewIssuer(testSecret, "RS256")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}
