package authz

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IdentityClaims is the JWT payload carrying the facts an Identity needs.
// hospital_id is omitted only for super_admin tokens.
type IdentityClaims struct {
	Role       string `json:"role"`
	HospitalID *uint  `json:"hospital_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the HS256 access tokens that bind an
// Identity to a request. The rest of the system resolves an Identity exactly
// once per request through ResolveIdentity and passes it into every check.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue signs an access token for identity.
func (t *TokenIssuer) Issue(identity Identity) (string, error) {
	if !identity.Valid() {
		return "", ErrInvalidInput
	}

	now := time.Now()
	claims := IdentityClaims{
		Role:       string(identity.Role),
		HospitalID: identity.HospitalID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ResolveIdentity verifies a token string and reconstructs the Identity it
// carries. A token whose role falls outside the enumeration, or whose shape
// breaks the "only super_admin lacks a tenant" rule, fails resolution; the
// caller treats that the same as any other unauthenticated request.
func (t *TokenIssuer) ResolveIdentity(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to verify token: %w", err)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid subject claim: %w", err)
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return Identity{}, fmt.Errorf("token role %q: %w", claims.Role, err)
	}

	identity := Identity{UserID: userID, Role: role, HospitalID: claims.HospitalID}
	if !identity.Valid() {
		return Identity{}, fmt.Errorf("token for role %s is missing a hospital id: %w", role, ErrInvalidInput)
	}
	return identity, nil
}
