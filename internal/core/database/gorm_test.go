package database

import (
	"errors"
	"testing"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name, in, user, pass, want string
	}{
		{"native passthrough", "u:p@tcp(db:3306)/users?parseTime=true", "", "", "u:p@tcp(db:3306)/users?parseTime=true"},
		{"url", "mysql://u:p@db:3306/users", "", "", "u:p@tcp(db:3306)/users?charset=utf8mb4"},
		{"jdbc with params", "jdbc:mysql://db:3306/users?useSSL=false&serverTimezone=UTC&characterEncoding=utf8", "", "", "tcp(db:3306)/users?charset=utf8&loc=UTC&tls=false"},
		{"override creds", "mysql://a:b@db/users?user=c", "root", "secret", "root:secret@tcp(db)/users?charset=utf8mb4"},
		{"empty", "  ", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass))
		})
	}
}

func TestMySQLDSN_ForcesFoundRowsAndParseTime(t *testing.T) {
	dsn, err := mysqlDSN("mysql://u:p@db:3306/users", "", "")
	require.NoError(t, err)

	cfg, err := mysqldrv.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ClientFoundRows)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "users", cfg.DBName)
	assert.Equal(t, "db:3306", cfg.Addr)
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "u:****@tcp(db)/users", maskDSN("u:p@ss@tcp(db)/users"))
	assert.Equal(t, "tcp(db)/users", maskDSN("tcp(db)/users"))
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.True(t, errors.Is(err, ErrUnsupportedDriver))
}

func TestNewGorm_SQLiteAndMigrate(t *testing.T) {
	db, err := NewGorm(Opts{
		Driver:       "sqlite",
		DSN:          "file::memory:?cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
		Logger:       zap.NewNop(),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasIndex("users", "idx_users_email"))
	assert.True(t, db.Migrator().HasIndex("users", "idx_users_deleted_created"))
}
