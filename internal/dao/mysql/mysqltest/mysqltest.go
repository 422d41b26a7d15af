// Package mysqltest 为测试提供基于临时 SQLite 文件的 Repository
package mysqltest

import (
	"path/filepath"
	"testing"

	"umazing_chat_server/internal/config"
	"umazing_chat_server/internal/dao/mysql"
	"umazing_chat_server/internal/dao/mysql/repository"
)

// NewRepositories 每个测试一个独立的库文件，测试结束时关闭连接
func NewRepositories(tb testing.TB) *repository.Repositories {
	tb.Helper()
	repos, err := mysql.Init(&config.DatabaseConfig{
		Driver:       mysql.DriverSQLite,
		DatabaseName: filepath.Join(tb.TempDir(), "chat.db"),
		AutoMigrate:  true,
	})
	if err != nil {
		tb.Fatalf("init sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = repos.Close() })
	return repos
}
