package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/auth"
)

// Account maps to the accounts table. The role is fixed at signup;
// there is no role-change endpoint.
type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SignupInput is the signup request payload.
type SignupInput struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role"`
}

// LoginInput is the login request payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the login response: the bearer token plus the identity it
// encodes.
type Session struct {
	Token     string    `json:"token"`
	AccountID uuid.UUID `json:"account_id"`
	Role      auth.Role `json:"role"`
}
