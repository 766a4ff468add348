package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/campus-chat/internal/models"
)

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier("")
	require.Error(t, err)
}

func TestVerifyRoundTrip(t *testing.T) {
	v, err := NewVerifier("secret")
	require.NoError(t, err)

	want := models.Identity{ID: "u1", Role: models.RoleTeacher, Email: "t@college.test", CollegeID: "c1"}
	token, err := v.Sign(want, time.Hour)
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestVerifyMissingToken(t *testing.T) {
	v, _ := NewVerifier("secret")
	_, err := v.Verify("")
	require.ErrorIs(t, err, ErrTokenMissing)
}

func TestVerifyExpiredToken(t *testing.T) {
	v, _ := NewVerifier("secret")
	token, err := v.Sign(models.Identity{ID: "u1", Role: models.RoleAdmin, CollegeID: "c1"}, -time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyWrongSecret(t *testing.T) {
	signer, _ := NewVerifier("one")
	token, err := signer.Sign(models.Identity{ID: "u1", Role: models.RoleAdmin, CollegeID: "c1"}, time.Hour)
	require.NoError(t, err)

	v, _ := NewVerifier("two")
	_, err = v.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	claims := Claims{
		Role:      "admin",
		CollegeID: "c1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	v, _ := NewVerifier("secret")
	_, err = v.Verify(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsIncompleteClaims(t *testing.T) {
	v, _ := NewVerifier("secret")
	for _, ident := range []models.Identity{
		{Role: models.RoleAdmin, CollegeID: "c1"}, // no subject
		{ID: "u1", CollegeID: "c1"},               // no role
		{ID: "u1", Role: models.RoleAdmin},        // no college
	} {
		token, err := v.Sign(ident, time.Hour)
		require.NoError(t, err)
		_, err = v.Verify(token)
		require.ErrorIs(t, err, ErrTokenInvalid)
	}
}
