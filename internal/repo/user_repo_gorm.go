package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"user-admin-api/internal/domain"
)

type UserRepo struct {
	db *gorm.DB
	// 列表读事务选项；sqlite 本身串行化，不需要
	listTx *sql.TxOptions
}

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo {
	r := &UserRepo{db: db}
	switch db.Dialector.Name() {
	case "postgres", "mysql":
		r.listTx = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return r
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return translateError(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepo) FindActiveByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ? AND deleted_at IS NULL", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) List(ctx context.Context, q domain.UserQuery) ([]domain.User, int64, error) {
	where, args, err := activeUsersPredicate(q).ToSql()
	if err != nil {
		return nil, 0, err
	}

	var (
		users []domain.User
		total int64
	)
	read := func(tx *gorm.DB) error {
		// count 和 find 各用一条新链，避免 Count 改写语句
		if err := tx.Model(&domain.User{}).Where(where, args...).Count(&total).Error; err != nil {
			return err
		}
		return tx.Model(&domain.User{}).
			Where(where, args...).
			Order("created_at DESC").
			Order("id DESC").
			Offset(q.Skip).
			Limit(q.Take).
			Find(&users).Error
	}

	db := r.db.WithContext(ctx)
	if r.listTx != nil {
		err = db.Transaction(read, r.listTx)
	} else {
		err = db.Transaction(read)
	}
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, id string, ch domain.UserChanges) (*domain.User, error) {
	var out domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.User{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(map[string]any(ch))
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNoRowsAffected
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SoftDelete 只写 deleted_at；UpdateColumn 不会顺带刷新 updated_at
func (r *UserRepo) SoftDelete(ctx context.Context, id string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND deleted_at IS NULL", id).
		UpdateColumn("deleted_at", at)
	return res.RowsAffected, res.Error
}
