package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specsmith/specsmith/backend/internal/common/clock"
	commonerrors "github.com/specsmith/specsmith/backend/internal/common/errors"
	"github.com/specsmith/specsmith/backend/internal/common/logger"
	userdomain "github.com/specsmith/specsmith/backend/internal/user/domain"
	userrepo "github.com/specsmith/specsmith/backend/internal/user/repository"
)

func setupAuthService(t *testing.T) (*AuthService, *mockUserRepo, *stubHasher, *TokenIssuer, *clock.MockClock) {
	t.Helper()

	repo := &mockUserRepo{}
	hasher := &stubHasher{}
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, clk)

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}

	svc, err := NewAuthService(repo, hasher, &stubIDGenerator{}, issuer, clk, log)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	return svc, repo, hasher, issuer, clk
}

func TestAuthService_Signup_Success(t *testing.T) {
	svc, repo, _, issuer, clk := setupAuthService(t)

	var created userdomain.User
	repo.createFunc = func(_ context.Context, user userdomain.User) error {
		created = user
		return nil
	}

	result, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Ann",
		Email:    "Ann@X.Com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	if created.Email != "ann@x.com" {
		t.Errorf("stored email = %q, want lowercased ann@x.com", created.Email)
	}
	if created.PasswordHash != "hashed:secret1" {
		t.Errorf("stored hash = %q, want hashed:secret1", created.PasswordHash)
	}
	if !created.CreatedAt.Equal(clk.Now()) {
		t.Errorf("CreatedAt = %v, want %v", created.CreatedAt, clk.Now())
	}

	payload, ok := issuer.Verify(result.Token)
	if !ok {
		t.Fatal("signup token does not verify")
	}
	if payload.UserID != string(created.ID) {
		t.Errorf("token UserID = %q, want %q", payload.UserID, created.ID)
	}
	if result.User.PasswordHash != created.PasswordHash {
		t.Errorf("result user does not match created user")
	}
}

func TestAuthService_Signup_EmailTaken(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.findByEmailFunc = func(_ context.Context, email string) (userdomain.User, error) {
		if email == "ann@x.com" {
			return userdomain.User{ID: "id-9", Email: "ann@x.com"}, nil
		}
		return userdomain.User{}, userrepo.ErrUserNotFound
	}

	// Same address with different casing must hit the same conflict.
	_, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Ann",
		Email:    "Ann@X.com",
		Password: "secret1",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.HTTPStatus() != 409 {
		t.Errorf("expected 409 conflict, got %v", err)
	}
}

func TestAuthService_Signup_InsertRaceLost(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.createFunc = func(_ context.Context, _ userdomain.User) error {
		return userrepo.ErrEmailAlreadyExists
	}

	_, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "secret1",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken on lost insert race, got %v", err)
	}
}

func TestAuthService_Signup_ValidationErrors(t *testing.T) {
	svc, _, _, _, _ := setupAuthService(t)

	testCases := []struct {
		name    string
		input   SignupInput
		wantErr error
	}{
		{"missing name", SignupInput{Email: "ann@x.com", Password: "secret1"}, ErrMissingFields},
		{"bad email", SignupInput{Name: "Ann", Email: "nope", Password: "secret1"}, ErrInvalidEmailFormat},
		{"weak password", SignupInput{Name: "Ann", Email: "ann@x.com", Password: "abc"}, ErrPasswordTooShort},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAuthService_Signup_RepoFailure(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.findByEmailFunc = func(_ context.Context, _ string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("connection refused")
	}

	_, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "secret1",
	})

	de, ok := commonerrors.AsDomainError(err)
	if !ok {
		t.Fatalf("expected domain error, got %v", err)
	}
	if de.HTTPStatus() != 500 {
		t.Errorf("expected 500, got %d", de.HTTPStatus())
	}
	if de.Message() != "internal server error" {
		t.Errorf("internal detail leaked into message: %q", de.Message())
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, _, issuer, _ := setupAuthService(t)

	repo.findByEmailFunc = func(_ context.Context, email string) (userdomain.User, error) {
		if email != "ann@x.com" {
			t.Errorf("FindByEmail called with %q, want lowercased ann@x.com", email)
		}
		return userdomain.User{ID: "id-7", Name: "Ann", Email: "ann@x.com", PasswordHash: "hashed:secret1"}, nil
	}

	result, err := svc.Login(context.Background(), LoginInput{Email: "Ann@X.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	payload, ok := issuer.Verify(result.Token)
	if !ok {
		t.Fatal("login token does not verify")
	}
	if payload.UserID != "id-7" {
		t.Errorf("token UserID = %q, want id-7", payload.UserID)
	}
}

func TestAuthService_Login_FailureBranchesIndistinguishable(t *testing.T) {
	svc, repo, hasher, _, _ := setupAuthService(t)

	repo.findByEmailFunc = func(_ context.Context, email string) (userdomain.User, error) {
		if email == "ann@x.com" {
			return userdomain.User{ID: "id-7", Email: email, PasswordHash: "hashed:secret1"}, nil
		}
		return userdomain.User{}, userrepo.ErrUserNotFound
	}

	comparesBefore := atomic.LoadInt64(&hasher.compareCalls)

	_, unknownErr := svc.Login(context.Background(), LoginInput{Email: "ghost@x.com", Password: "secret1"})
	comparesAfterUnknown := atomic.LoadInt64(&hasher.compareCalls)

	_, wrongErr := svc.Login(context.Background(), LoginInput{Email: "ann@x.com", Password: "wrong-pass"})
	comparesAfterWrong := atomic.LoadInt64(&hasher.compareCalls)

	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both branches, got %v and %v", unknownErr, wrongErr)
	}

	unknownDE, _ := commonerrors.AsDomainError(unknownErr)
	wrongDE, _ := commonerrors.AsDomainError(wrongErr)
	if unknownDE.Message() != wrongDE.Message() || unknownDE.HTTPStatus() != wrongDE.HTTPStatus() {
		t.Error("unknown-email and wrong-password branches must be indistinguishable")
	}

	// Both branches must cost exactly one hash comparison.
	if comparesAfterUnknown-comparesBefore != 1 {
		t.Errorf("unknown-email branch did %d comparisons, want 1", comparesAfterUnknown-comparesBefore)
	}
	if comparesAfterWrong-comparesAfterUnknown != 1 {
		t.Errorf("wrong-password branch did %d comparisons, want 1", comparesAfterWrong-comparesAfterUnknown)
	}
}

func TestAuthService_WhoAmI(t *testing.T) {
	svc, repo, _, issuer, _ := setupAuthService(t)

	token, err := issuer.Generate("id-7", "ann@x.com", "Ann")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	t.Run("re-reads user from the datastore", func(t *testing.T) {
		repo.findByIDFunc = func(_ context.Context, id userdomain.ID) (userdomain.User, error) {
			if id != "id-7" {
				t.Errorf("FindByID called with %q, want id-7", id)
			}
			// The account was renamed after token issuance.
			return userdomain.User{ID: id, Name: "Annabel", Email: "ann@x.com"}, nil
		}

		user, err := svc.WhoAmI(context.Background(), token)
		if err != nil {
			t.Fatalf("WhoAmI error: %v", err)
		}
		if user.Name != "Annabel" {
			t.Errorf("WhoAmI served the token snapshot, want the datastore record")
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := svc.WhoAmI(context.Background(), "not.a.token")
		if !errors.Is(err, ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("deleted account", func(t *testing.T) {
		repo.findByIDFunc = func(_ context.Context, _ userdomain.ID) (userdomain.User, error) {
			return userdomain.User{}, userrepo.ErrUserNotFound
		}

		_, err := svc.WhoAmI(context.Background(), token)
		if !errors.Is(err, commonerrors.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}
