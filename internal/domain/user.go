package domain

import (
	"context"
	"time"

	"user-admin-api/pkg/utils"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

var Statuses = []Status{StatusActive, StatusInactive, StatusSuspended}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

var Roles = []Role{RoleUser, RoleAdmin, RoleModerator}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// User 唯一实体；email 唯一约束覆盖软删行
type User struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Email     string     `gorm:"uniqueIndex:idx_users_email;size:191;not null" json:"email"`
	Status    Status     `gorm:"size:16;not null" json:"status"`
	Role      *Role      `gorm:"size:16" json:"role"`
	CreatedAt time.Time  `gorm:"index:idx_users_deleted_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `gorm:"index:idx_users_deleted_created,priority:1" json:"deletedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) Deleted() bool { return u.DeletedAt != nil }

type CreateUserInput struct {
	Name   string
	Email  string
	Status Status
	Role   *Role
}

// UserPatch 稀疏更新：只有 Set 的字段会写库
type UserPatch struct {
	Name   utils.Optional[string] `json:"name"`
	Email  utils.Optional[string] `json:"email"`
	Status utils.Optional[Status] `json:"status"`
	Role   utils.Optional[Role]   `json:"role"`
}

func (p UserPatch) Empty() bool {
	return !p.Name.Set && !p.Email.Set && !p.Status.Set && !p.Role.Set
}

// UserFilter 列表筛选，空字段表示不限制
type UserFilter struct {
	Name     string
	Status   Status
	FromDate string
	ToDate   string
}

// UserQuery 归一化后的列表查询（总是排除软删行）
type UserQuery struct {
	NameContains string
	Status       Status
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Skip         int
	Take         int
}

// UserChanges 列名 -> 新值，只包含需要写入的列
type UserChanges map[string]any

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type Paginated[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	// FindActiveByID 找不到（或已软删）返回 nil, nil
	FindActiveByID(ctx context.Context, id string) (*User, error)
	// FindByEmail 不区分软删状态
	FindByEmail(ctx context.Context, email string) (*User, error)
	// ExistsByID 不区分软删状态
	ExistsByID(ctx context.Context, id string) (bool, error)
	// List count 与分页查询在同一个读事务里
	List(ctx context.Context, q UserQuery) ([]User, int64, error)
	// Update 只更新未软删的行；未命中返回 ErrNoRowsAffected
	Update(ctx context.Context, id string, ch UserChanges) (*User, error)
	// SoftDelete 返回受影响行数
	SoftDelete(ctx context.Context, id string, at time.Time) (int64, error)
}
