package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"))
	accountID := uuid.New()

	token, err := issuer.Issue(accountID, RolePhysician)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ident, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ident.AccountID != accountID {
		t.Errorf("expected account %s, got %s", accountID, ident.AccountID)
	}
	if ident.Role != RolePhysician {
		t.Errorf("expected role %s, got %s", RolePhysician, ident.Role)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewIssuer([]byte("secret-a")).Issue(uuid.New(), RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewIssuer([]byte("secret-b")).Verify(token); err == nil {
		t.Fatal("expected verify to fail for a token signed with another secret")
	}
}

func TestVerify_Expired(t *testing.T) {
	secret := "test-secret"
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		Role: RoleNurse,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewIssuer([]byte(secret)).Verify(token); err == nil {
		t.Fatal("expected verify to fail for an expired token")
	}
}

func TestVerify_UnexpectedSigningMethod(t *testing.T) {
	// A token declaring alg "none" must be rejected outright.
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: RoleAdmin,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewIssuer([]byte("test-secret")).Verify(token); err == nil {
		t.Fatal("expected verify to reject an unsigned token")
	}
}

func TestVerify_InvalidRole(t *testing.T) {
	secret := "test-secret"
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: Role(99),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewIssuer([]byte(secret)).Verify(token); err == nil {
		t.Fatal("expected verify to reject an unknown role code")
	}
}

func TestVerify_BadSubject(t *testing.T) {
	secret := "test-secret"
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: RoleAdmin,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewIssuer([]byte(secret)).Verify(token); err == nil {
		t.Fatal("expected verify to reject a non-uuid subject")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if strings.Contains(hash, "s3cret-pass") {
		t.Fatal("hash must not contain the plaintext")
	}

	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Errorf("expected matching password to pass, got %v", err)
	}
	if err := CheckPassword(hash, "wrong-pass"); err == nil {
		t.Error("expected mismatched password to fail")
	}
}
