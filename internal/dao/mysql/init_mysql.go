// Package mysql 提供关系型数据库的连接初始化
// 负责按配置选择驱动、自动迁移表结构、创建 Repository 层
package mysql

import (
	"fmt"
	"time"

	"umazing_chat_server/internal/config"
	"umazing_chat_server/internal/dao/mysql/repository"
	"umazing_chat_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 支持的驱动
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// dialector 根据驱动名构造 GORM Dialector
func dialector(conf *config.DatabaseConfig) (gorm.Dialector, error) {
	switch conf.Driver {
	case "", DriverMySQL:
		// 格式：user:password@tcp(host:port)/database?params
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			conf.User, conf.Password, conf.Host, conf.Port, conf.DatabaseName)
		return mysqldriver.Open(dsn), nil
	case DriverPostgres:
		sslMode := conf.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			conf.Host, conf.Port, conf.User, conf.Password, conf.DatabaseName, sslMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		// 单文件库：写事务立即加锁，避免并发升级锁时报 busy
		dsn := conf.DatabaseName + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
}

// Open 建立数据库连接，不做迁移
func Open(conf *config.DatabaseConfig) (*gorm.DB, error) {
	d, err := dialector(conf)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(d, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", conf.Driver, err)
	}
	if conf.Driver == DriverSQLite {
		// SQLite 只允许一个写者
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return db, nil
}

// Migrate 自动迁移全部表结构
// 如果表不存在则创建，不会删除已有字段或数据
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}

// Init 初始化数据库连接并返回 Repository 层实例
func Init(conf *config.DatabaseConfig) (*repository.Repositories, error) {
	db, err := Open(conf)
	if err != nil {
		return nil, err
	}
	if conf.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	zap.L().Info("database connected",
		zap.String("driver", conf.Driver),
		zap.String("database", conf.DatabaseName))
	return repository.NewRepositories(db), nil
}
