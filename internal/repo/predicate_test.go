package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-admin-api/internal/domain"
)

func TestActiveUsersPredicate(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		q        domain.UserQuery
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no filter still excludes soft-deleted",
			q:       domain.UserQuery{},
			wantSQL: "(deleted_at IS NULL)",
		},
		{
			name:     "name is lowered and wrapped",
			q:        domain.UserQuery{NameContains: "JaNe"},
			wantSQL:  "(deleted_at IS NULL AND LOWER(name) LIKE ? ESCAPE '!')",
			wantArgs: []any{"%jane%"},
		},
		{
			name:     "like wildcards are escaped",
			q:        domain.UserQuery{NameContains: "50%_off!"},
			wantSQL:  "(deleted_at IS NULL AND LOWER(name) LIKE ? ESCAPE '!')",
			wantArgs: []any{"%50!%!_off!!%"},
		},
		{
			name:     "status and date range",
			q:        domain.UserQuery{Status: domain.StatusSuspended, CreatedFrom: &from, CreatedTo: &to},
			wantSQL:  "(deleted_at IS NULL AND status = ? AND created_at >= ? AND created_at <= ?)",
			wantArgs: []any{"SUSPENDED", from, to},
		},
		{
			name:     "only upper bound",
			q:        domain.UserQuery{CreatedTo: &to},
			wantSQL:  "(deleted_at IS NULL AND created_at <= ?)",
			wantArgs: []any{to},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args, err := activeUsersPredicate(tc.q).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, sql)
			if tc.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tc.wantArgs, args)
			}
		})
	}
}
