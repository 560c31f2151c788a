package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/classifieds_server/config"
)

var testJWT = config.JWTConfig{Secret: "classifieds-test-secret", ExpireHours: 24}

func TestGenerateToken_ExpiryFromConfig(t *testing.T) {
	tests := []struct {
		name        string
		expireHours int
	}{
		{name: "default lifetime", expireHours: testJWT.ExpireHours},
		{name: "short lifetime", expireHours: 1},
		{name: "week lifetime", expireHours: 7 * 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(42, testJWT.Secret, tt.expireHours)
			require.NoError(t, err)

			claims, err := ParseToken(token, testJWT.Secret)
			require.NoError(t, err)
			assert.Equal(t, int64(42), claims.UserID)

			lifetime := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
			assert.Equal(t, time.Duration(tt.expireHours)*time.Hour, lifetime)
			assert.WithinDuration(t, time.Now().Add(lifetime), claims.ExpiresAt.Time, 5*time.Second)
		})
	}
}

func TestGenerateToken_ZeroHoursAlreadyExpired(t *testing.T) {
	token, err := GenerateToken(42, testJWT.Secret, 0)
	require.NoError(t, err)

	// exp 按秒截断后不晚于当前时刻
	claims, err := ParseToken(token, testJWT.Secret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestParseToken_Rejected(t *testing.T) {
	valid, err := GenerateToken(7, testJWT.Secret, testJWT.ExpireHours)
	require.NoError(t, err)

	// 篡改载荷但保留原签名
	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	forged, err := GenerateToken(1, testJWT.Secret, testJWT.ExpireHours)
	require.NoError(t, err)
	tampered := strings.Join([]string{parts[0], strings.Split(forged, ".")[1], parts[2]}, ".")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "rotated secret", token: valid, secret: "rotated-secret"},
		{name: "tampered payload", token: tampered, secret: testJWT.Secret},
		{name: "alg none", token: unsigned, secret: testJWT.Secret},
		{name: "empty header value", token: "", secret: testJWT.Secret},
		{name: "garbage", token: "not-a-jwt", secret: testJWT.Secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestParseToken_ExpiredSession(t *testing.T) {
	issued := time.Now().Add(-time.Duration(testJWT.ExpireHours+1) * time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Duration(testJWT.ExpireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
		},
	}).SignedString([]byte(testJWT.Secret))
	require.NoError(t, err)

	claims, err := ParseToken(token, testJWT.Secret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}
