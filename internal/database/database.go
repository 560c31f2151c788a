package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qs3c/classifieds_server/config"
	"github.com/qs3c/classifieds_server/internal/model"
)

// Open 按配置连接 MySQL 或 SQLite
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = "classifieds.db"
		}
		dialector = sqlite.Open(fmt.Sprintf("%s?_foreign_keys=on", path))
	default:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.Username,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Database,
		)
		dialector = mysql.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Models 需要迁移的模型，按依赖顺序排列
func Models() []interface{} {
	return []interface{}{
		&model.Plan{},
		&model.Account{},
		&model.Category{},
		&model.Entry{},
		&model.Image{},
	}
}

// AutoMigrate 建表及外键约束
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
