package service

import (
	"context"
	"errors"
	"strings"

	"github.com/specsmith/specsmith/backend/internal/common/clock"
	"github.com/specsmith/specsmith/backend/internal/common/crypto"
	commonerrors "github.com/specsmith/specsmith/backend/internal/common/errors"
	"github.com/specsmith/specsmith/backend/internal/common/logger"
	userdomain "github.com/specsmith/specsmith/backend/internal/user/domain"
	userrepo "github.com/specsmith/specsmith/backend/internal/user/repository"
)

// AuthService orchestrates the credential flows. Each method is request-scoped
// and stateless; the only shared state is the immutable signing secret inside
// the token issuer and the decoy hash below.
type AuthService struct {
	repo        userrepo.Repository
	hasher      crypto.ConcurrentHasher
	idGenerator crypto.IDGenerator
	tokens      *TokenIssuer
	validator   CredentialValidator
	clock       clock.Clock
	log         *logger.Logger

	// decoyHash is compared against when a login names an unknown email, so
	// both failure branches cost one bcrypt verification.
	decoyHash string
}

func NewAuthService(
	repo userrepo.Repository,
	hasher crypto.ConcurrentHasher,
	idGenerator crypto.IDGenerator,
	tokens *TokenIssuer,
	clk clock.Clock,
	log *logger.Logger,
) (*AuthService, error) {
	decoySeed, err := idGenerator.NewID()
	if err != nil {
		return nil, err
	}
	decoyHash, err := hasher.Hash(context.Background(), decoySeed)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		tokens:      tokens,
		validator:   NewCredentialValidator(),
		clock:       clk,
		log:         log,
		decoyHash:   decoyHash,
	}, nil
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult carries the authenticated user and the session token the
// transport layer should place in the cookie.
type AuthResult struct {
	User  userdomain.User
	Token string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	if err := s.validator.ValidateSignup(input.Name, input.Email, input.Password); err != nil {
		return AuthResult{}, err
	}

	email := strings.ToLower(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "signup_attempt",
	}).Info("signup attempt")

	// Fast-path existence probe for a friendly error. The unique index on
	// lower(email) is what actually guarantees uniqueness under races.
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "signup_email_exists",
		}).Warn("signup failed: email already registered")
		return AuthResult{}, ErrEmailTaken
	}
	if !errors.Is(err, userrepo.ErrUserNotFound) {
		return AuthResult{}, s.internalError(ctx, "signup_lookup_failed", err)
	}

	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		return AuthResult{}, s.internalError(ctx, "signup_hash_failed", err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return AuthResult{}, s.internalError(ctx, "signup_id_generation_failed", err)
	}

	now := s.clock.Now()
	user := userdomain.User{
		ID:           userdomain.ID(id),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			// Lost the check-then-insert race; same outcome as the probe.
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, s.internalError(ctx, "signup_create_failed", err)
	}

	token, err := s.tokens.Generate(string(user.ID), user.Email, user.Name)
	if err != nil {
		return AuthResult{}, s.internalError(ctx, "signup_token_issue_failed", err)
	}

	incrementSignups()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "signup_success",
	}).Info("signup success")

	return AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	if err := s.validator.ValidateLogin(input.Email, input.Password); err != nil {
		return AuthResult{}, err
	}

	email := strings.ToLower(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "login_attempt",
	}).Info("login attempt")

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			// Burn a bcrypt comparison so this branch is not measurably
			// faster than a wrong password.
			_ = s.hasher.Compare(ctx, s.decoyHash, input.Password)
			incrementLoginFailure("unknown_email")
			s.log.WithFields(ctx, logger.Fields{
				"email":  email,
				"action": "login_user_not_found",
			}).Warn("login failed: unknown email")
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, s.internalError(ctx, "login_lookup_failed", err)
	}

	if err := s.hasher.Compare(ctx, user.PasswordHash, input.Password); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return AuthResult{}, s.internalError(ctx, "login_compare_timeout", ctxErr)
		}
		incrementLoginFailure("wrong_password")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(string(user.ID), user.Email, user.Name)
	if err != nil {
		return AuthResult{}, s.internalError(ctx, "login_token_issue_failed", err)
	}

	incrementLogins()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return AuthResult{User: user, Token: token}, nil
}

// WhoAmI resolves a session token to the current user record. The token's
// embedded name/email are never served directly: the account may have changed
// since issuance.
func (s *AuthService) WhoAmI(ctx context.Context, token string) (userdomain.User, error) {
	payload, ok := s.tokens.Verify(token)
	if !ok {
		return userdomain.User{}, ErrNotAuthenticated
	}

	user, err := s.repo.FindByID(ctx, userdomain.ID(payload.UserID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": payload.UserID,
				"action":  "whoami_user_gone",
			}).Warn("whoami failed: user no longer exists")
			return userdomain.User{}, commonerrors.ErrUserNotFound
		}
		return userdomain.User{}, s.internalError(ctx, "whoami_lookup_failed", err)
	}

	return user, nil
}

func (s *AuthService) internalError(ctx context.Context, action string, cause error) error {
	s.log.WithFields(ctx, logger.Fields{
		"action": action,
	}).Errorf("%s: %v", action, cause)
	return commonerrors.ErrInternalError.WithCause(cause)
}
