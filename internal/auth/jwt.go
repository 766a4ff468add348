package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campusgrid/campus-chat/internal/models"
)

var (
	ErrTokenMissing = errors.New("authentication required")
	ErrTokenInvalid = errors.New("invalid or expired token")
)

type Claims struct {
	Role      string `json:"role"`
	Email     string `json:"email"`
	CollegeID string `json:"college_id"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens and decodes the connection
// identity carried in the claims.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret required")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

func (v *Verifier) Verify(token string) (models.Identity, error) {
	if token == "" {
		return models.Identity{}, ErrTokenMissing
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return models.Identity{}, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return models.Identity{}, ErrTokenInvalid
	}
	if claims.Subject == "" || claims.Role == "" || claims.CollegeID == "" {
		return models.Identity{}, ErrTokenInvalid
	}
	return models.Identity{
		ID:        claims.Subject,
		Role:      models.Role(claims.Role),
		Email:     claims.Email,
		CollegeID: claims.CollegeID,
	}, nil
}

// Sign issues a token for the given identity. Token issuance lives with
// the user-directory service in production; this is used by tooling and
// tests.
func (v *Verifier) Sign(ident models.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      string(ident.Role),
		Email:     ident.Email,
		CollegeID: ident.CollegeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
