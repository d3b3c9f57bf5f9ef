// Package service contains the business logic layer of the application.
//
// Layering follows the usual three tiers:
//
//	Handler (HTTP)     → parses requests, writes responses
//	Service (business) → validates, hashes, enforces rules
//	Repository (data)  → reads/writes SQLite
//
// The service takes repository.AccountRepository (an interface), not the
// concrete sqlite.DB, so tests can inject an in-memory mock and the storage
// backend can change without touching business rules.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/repository"
)

// AccountService handles registration, availability checks, and credential
// verification.
type AccountService struct {
	accounts  repository.AccountRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService with all dependencies injected.
func NewAccountService(
	accounts repository.AccountRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		passwords: passwords,
		logger:    logger,
	}
}

// Register validates the profile fields, hashes the password, and creates the
// account.
//
// Validation here duplicates the handler's emptiness checks on purpose: every
// caller of the service gets the same rules, not just the HTTP boundary.
// Age is deliberately unconstrained — present is enough in the current scope.
//
// The duplicate-username case is NOT pre-checked here. The repository's
// insert-time UNIQUE constraint is atomic; a lookup first would only add a
// race window. Callers receive apperror.ErrDuplicate straight from the
// failed insert.
func (s *AccountService) Register(
	ctx context.Context,
	username, password, nickname string,
	age int64,
	gender string,
) (*model.Account, error) {
	// Whitespace-only profile fields are as empty as "". The password is
	// deliberately not trimmed — whitespace in a secret is significant.
	username = strings.TrimSpace(username)
	nickname = strings.TrimSpace(nickname)
	gender = strings.TrimSpace(gender)

	switch {
	case username == "":
		return nil, apperror.ValidationFailed("username", "username is required")
	case password == "":
		return nil, apperror.ValidationFailed("password", "password is required")
	case nickname == "":
		return nil, apperror.ValidationFailed("nickname", "nickname is required")
	case gender == "":
		return nil, apperror.ValidationFailed("gender", "gender is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing password for %q: %w", username, err)
	}

	account := &model.Account{
		Username:     username,
		PasswordHash: hash,
		Nickname:     nickname,
		Age:          age,
		Gender:       gender,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			s.logger.Info("signup rejected: username taken", slog.String("username", username))
			return nil, err
		}
		s.logger.Error("signup failed: storage error",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/account: creating account %q: %w", username, err)
	}

	s.logger.Info("account created",
		slog.Int64("id", account.ID),
		slog.String("username", account.Username),
	)

	return redacted(account), nil
}

// UsernameAvailable reports whether the username is free to register.
//
// The legacy behaviour collapsed storage errors into "unavailable"; here the
// two cases are split. (false, nil) means definitively taken. A non-nil error
// means the store couldn't answer — still fail closed, but the caller can
// tell the client to retry instead of reporting the name as taken.
func (s *AccountService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		return false, apperror.ValidationFailed("username", "username is required")
	}

	exists, err := s.accounts.UsernameExists(ctx, username)
	if err != nil {
		s.logger.Error("availability check failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return false, err
	}

	return !exists, nil
}

// VerifyCredentials reports whether username/password identify an account.
//
// Unknown username and wrong password are both (false, nil) — indistinguishable
// to the caller, so neither responses nor logs at this level can be used to
// enumerate accounts. bcrypt's comparison is constant-time; the lookup itself
// necessarily differs for missing users, which is accepted in this scope.
//
// The error return is reserved for storage faults.
func (s *AccountService) VerifyCredentials(ctx context.Context, username, password string) (bool, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("service/account: verifying credentials: %w", err)
	}

	ok, err := s.passwords.Verify(account.PasswordHash, password)
	if err != nil {
		// Malformed stored hash — corrupted data, not a wrong password.
		s.logger.Error("stored password hash unusable",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return false, fmt.Errorf("service/account: verifying credentials: %w", err)
	}

	return ok, nil
}

// Login verifies credentials and returns the account projection on success.
// Failure is apperror.ErrBadCredential regardless of whether the username
// exists or the password was wrong.
func (s *AccountService) Login(ctx context.Context, username, password string) (*model.Account, error) {
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("credentials", "username and password are required")
	}

	ok, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.BadCredential()
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service/account: loading account after login: %w", err)
	}

	s.logger.Info("login succeeded", slog.String("username", username))

	return redacted(account), nil
}

// GetAccount returns the account projection for a username, without the
// password hash. Returns apperror.ErrNotFound if absent.
func (s *AccountService) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return redacted(account), nil
}

// ListAccounts returns projections of every account, hashes stripped.
func (s *AccountService) ListAccounts(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Account, 0, len(accounts))
	for _, a := range accounts {
		a.PasswordHash = ""
		out = append(out, a)
	}
	return out, nil
}

// redacted copies an account with the password hash stripped. The JSON tag
// on PasswordHash already hides it from encoders; clearing it as well means
// the hash can't leak through any other path either.
func redacted(a *model.Account) *model.Account {
	cp := *a
	cp.PasswordHash = ""
	return &cp
}
