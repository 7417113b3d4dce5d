package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"user-admin-api/internal/domain"
	"user-admin-api/pkg/utils"
)

type UserService struct {
	repo  domain.UserRepository
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

type Option func(*UserService)

func WithLogger(l *zap.Logger) Option { return func(s *UserService) { s.log = l } }

// WithClock 测试用：固定时间
func WithClock(now func() time.Time) Option { return func(s *UserService) { s.now = now } }

func WithIDGen(gen func() string) Option { return func(s *UserService) { s.newID = gen } }

func NewUserService(repo domain.UserRepository, opts ...Option) *UserService {
	s := &UserService{
		repo:  repo,
		log:   zap.NewNop(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: utils.NewID,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func userNotFound(id string) error { return domain.NotFound(fmt.Sprintf("User %s not found", id)) }

// ListUsers 分页 + 筛选；fetch 用请求页计算 skip，meta 里的页码才被夹到 totalPages
func (s *UserService) ListUsers(ctx context.Context, page, limit float64, filter *domain.UserFilter) (*domain.Paginated[domain.User], error) {
	p := safePage(page)
	l := safeLimit(limit)
	skip := (p - 1) * l

	q, err := buildQuery(filter, skip, l)
	if err != nil {
		return nil, err
	}

	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return &domain.Paginated[domain.User]{Data: users, Meta: pageMeta(p, l, total)}, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, userNotFound(id)
	}
	return u, nil
}

// CreateUser 以 email 幂等：重复创建返回已有用户（created=false）；
// email 属于软删用户时拒绝，不复活也不重复插入
func (s *UserService) CreateUser(ctx context.Context, in domain.CreateUserInput) (*domain.User, bool, error) {
	now := s.now()
	u := &domain.User{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Status:    in.Status,
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Create(ctx, u)
	if err == nil {
		return u, true, nil
	}
	if !isEmailConflict(err) {
		return nil, false, err
	}

	existing, lookupErr := s.repo.FindByEmail(ctx, in.Email)
	if lookupErr != nil {
		return nil, false, lookupErr
	}
	if existing == nil {
		// 冲突后又查不到：原样抛出约束错误
		return nil, false, err
	}
	if existing.Deleted() {
		return nil, false, domain.Conflict("Email already exists (soft-deleted user)")
	}

	s.log.Debug("create user: email exists, returning existing", zap.String("id", existing.ID))
	return existing, false, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	existing, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, userNotFound(id)
	}

	u, err := s.repo.Update(ctx, id, buildChanges(patch, s.now()))
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, domain.ErrUniqueViolation):
		return nil, domain.Conflict("Email already exists")
	case errors.Is(err, domain.ErrNoRowsAffected):
		return nil, userNotFound(id)
	}
	return nil, err
}

// SoftDeleteUser 重复删除视为成功；从未存在的 id 返回 not found
func (s *UserService) SoftDeleteUser(ctx context.Context, id string) error {
	n, err := s.repo.SoftDelete(ctx, id, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return userNotFound(id)
	}
	return nil
}

// buildChanges 只收录显式给出的字段；updated_at 总是刷新
func buildChanges(p domain.UserPatch, now time.Time) domain.UserChanges {
	ch := domain.UserChanges{"updated_at": now}
	if p.Name.Set {
		ch["name"] = p.Name.Value
	}
	if p.Email.Set {
		ch["email"] = p.Email.Value
	}
	if p.Status.Set {
		ch["status"] = string(p.Status.Value)
	}
	if p.Role.Set {
		if p.Role.Null {
			ch["role"] = nil
		} else {
			ch["role"] = string(p.Role.Value)
		}
	}
	return ch
}

// isEmailConflict email 是唯一一个非主键的唯一列，取不到列名时也按 email 处理
func isEmailConflict(err error) bool {
	var uv *domain.UniqueViolationError
	if !errors.As(err, &uv) {
		return false
	}
	return uv.Field == "" || uv.Field == "email"
}
