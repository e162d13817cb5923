package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	userdomain "github.com/specsmith/specsmith/backend/internal/user/domain"
	userrepo "github.com/specsmith/specsmith/backend/internal/user/repository"
)

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user userdomain.User) error
	findByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)
	findByIDFunc    func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

// stubHasher is a fast, deterministic stand-in for the bcrypt pool.
type stubHasher struct {
	hashErr      error
	compareCalls int64
}

func (h *stubHasher) Hash(_ context.Context, password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *stubHasher) Compare(_ context.Context, hash string, password string) error {
	atomic.AddInt64(&h.compareCalls, 1)
	if hash != "hashed:"+password {
		return errors.New("hash mismatch")
	}
	return nil
}

type stubIDGenerator struct {
	next int64
	err  error
}

func (g *stubIDGenerator) NewID() (string, error) {
	if g.err != nil {
		return "", g.err
	}
	n := atomic.AddInt64(&g.next, 1)
	return fmt.Sprintf("id-%d", n), nil
}
