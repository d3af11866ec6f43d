package account

import (
	"context"
	"strings"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
)

type Service struct {
	repo   Repository
	issuer *auth.Issuer
}

func NewService(repo Repository, issuer *auth.Issuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Signup registers a new account. The role is chosen once, at signup,
// and never changes.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Account, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return nil, apperr.New(apperr.MissingField, "email is required")
	}
	if in.Password == "" {
		return nil, apperr.New(apperr.MissingField, "password is required")
	}
	if !in.Role.Valid() {
		return nil, apperr.New(apperr.InvalidValue, "role must be 1 (admin), 2 (physician), 3 (nurse) or 4 (patient)")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	acct := &Account{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.repo.Create(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Login verifies the credential pair and issues a session token. A
// wrong email and a wrong password produce the same error.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if in.Email == "" || in.Password == "" {
		return nil, apperr.New(apperr.MissingField, "email and password are required")
	}

	acct, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, apperr.New(apperr.InvalidCredential, "invalid credentials")
		}
		return nil, err
	}

	if err := auth.CheckPassword(acct.PasswordHash, in.Password); err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(acct.ID, acct.Role)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, err, "issue session token")
	}

	return &Session{Token: token, AccountID: acct.ID, Role: acct.Role}, nil
}
