package repo

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"user-admin-api/internal/domain"
)

// LIKE 转义符；'!' 在 postgres/mysql/sqlite 的字符串字面量里都不需要再转义
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// activeUsersPredicate 软删排除总是生效，其余条件按需追加
func activeUsersPredicate(q domain.UserQuery) sq.And {
	where := sq.And{sq.Eq{"deleted_at": nil}}
	if q.NameContains != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.NameContains)) + "%"
		where = append(where, sq.Expr("LOWER(name) LIKE ? ESCAPE '"+likeEscape+"'", pattern))
	}
	if q.Status != "" {
		where = append(where, sq.Eq{"status": string(q.Status)})
	}
	if q.CreatedFrom != nil {
		where = append(where, sq.GtOrEq{"created_at": *q.CreatedFrom})
	}
	if q.CreatedTo != nil {
		where = append(where, sq.LtOrEq{"created_at": *q.CreatedTo})
	}
	return where
}
