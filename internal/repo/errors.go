package repo

import (
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"user-admin-api/internal/domain"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	uniqueColumnFallback = ""
)

// translateError 把各驱动的唯一约束错误统一成 *domain.UniqueViolationError，其余原样返回
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		field := columnFromKey(keyFromPgDetail(pgErr.Detail))
		if field == uniqueColumnFallback {
			field = columnFromKey(pgErr.ConstraintName)
		}
		return &domain.UniqueViolationError{Field: field, Err: err}
	}

	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return &domain.UniqueViolationError{Field: columnFromKey(keyFromMySQLMessage(myErr.Message)), Err: err}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return &domain.UniqueViolationError{Field: columnFromKey(keyFromSQLiteMessage(liteErr.Error())), Err: err}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.UniqueViolationError{Err: err}
	}
	return err
}

// Key (email)=(a@x.com) already exists.
func keyFromPgDetail(detail string) string {
	i := strings.Index(detail, "Key (")
	if i < 0 {
		return ""
	}
	rest := detail[i+len("Key ("):]
	if j := strings.IndexByte(rest, ')'); j >= 0 {
		return rest[:j]
	}
	return ""
}

// Duplicate entry 'a@x.com' for key 'users.idx_users_email'
func keyFromMySQLMessage(msg string) string {
	i := strings.LastIndex(msg, "for key '")
	if i < 0 {
		return ""
	}
	return strings.TrimSuffix(msg[i+len("for key '"):], "'")
}

// UNIQUE constraint failed: users.email
func keyFromSQLiteMessage(msg string) string {
	i := strings.Index(msg, "failed: ")
	if i < 0 {
		return ""
	}
	return msg[i+len("failed: "):]
}

func columnFromKey(key string) string {
	k := strings.ToLower(key)
	switch {
	case k == "":
		return uniqueColumnFallback
	case strings.Contains(k, "email"):
		return "email"
	case k == "primary" || k == "id" || strings.HasSuffix(k, ".id") || strings.HasSuffix(k, "_pkey"):
		return "id"
	}
	return uniqueColumnFallback
}
