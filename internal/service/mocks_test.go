package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"user-admin-api/internal/domain"
)

type MockUserRepo struct {
	mock.Mock
}

var _ domain.UserRepository = (*MockUserRepo)(nil)

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepo) FindActiveByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) List(ctx context.Context, q domain.UserQuery) ([]domain.User, int64, error) {
	args := m.Called(ctx, q)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepo) Update(ctx context.Context, id string, ch domain.UserChanges) (*domain.User, error) {
	args := m.Called(ctx, id, ch)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) SoftDelete(ctx context.Context, id string, at time.Time) (int64, error) {
	args := m.Called(ctx, id, at)
	return args.Get(0).(int64), args.Error(1)
}
