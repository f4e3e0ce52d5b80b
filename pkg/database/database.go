package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/photogram/config"
	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/pkg/logger"
)

// pgUniqueViolation postgres unique_violation 错误码
const pgUniqueViolation = "23505"

// InitDB 按配置打开数据库并在需要时执行迁移
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	logger.Info("database ready", zap.String("driver", cfg.Database.Driver))
	return db, nil
}

// Open 打开连接并设置连接池
func Open(dc config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dc.Driver {
	case "sqlite":
		dsn := dc.DSN
		// 级联删除依赖外键，sqlite 默认关闭
		if !strings.Contains(dsn, "_foreign_keys") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_foreign_keys=on"
		}
		dialector = sqlite.Open(dsn)
	case "postgres", "":
		dialector = postgres.Open(dc.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dc.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(dc.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dc.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dc.MaxOpenConns)
	}
	if dc.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dc.MaxIdleConns)
	}
	if dc.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(dc.ConnMaxLifetime)
	}
	return db, nil
}

// Migrate 自动迁移全部表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Post{},
		&model.Comment{},
		&model.LikePost{},
		&model.LikeComment{},
		&model.Subscription{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close 关闭底层连接池
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation 判断错误是否为唯一键冲突（兼容 postgres / sqlite）
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
