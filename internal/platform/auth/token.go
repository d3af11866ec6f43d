package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the fixed session lifetime. There is no refresh; clients
// log in again after expiry.
const TokenTTL = time.Hour

// Claims is the signed token payload: the account id as subject plus
// the role code.
type Claims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// Issuer signs and verifies session tokens with an HMAC secret.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret []byte) *Issuer {
	return &Issuer{secret: secret}
}

// Issue returns a signed token for the account, valid for TokenTTL.
func (i *Issuer) Issue(accountID uuid.UUID, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses and validates a token string and returns the caller
// identity. Any signature, expiry, or claim problem is reported as a
// single verification failure.
func (i *Issuer) Verify(tokenStr string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("verify token: %w", err)
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("token subject is not a valid id: %w", err)
	}
	if !claims.Role.Valid() {
		return Identity{}, fmt.Errorf("token carries unknown role %d", claims.Role)
	}

	return Identity{AccountID: accountID, Role: claims.Role}, nil
}
