package db

import (
	"fmt"
	"time"

	"poshts/internal/config"
	"poshts/internal/logger"
	"poshts/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the configured database, migrates it and stores the handle in DB.
func Init(cfg *config.Config) *gorm.DB {
	var err error
	DB, err = Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	logger.Log.Info("Database connection established", zap.String("driver", cfg.DBDriver))

	if err := Migrate(DB); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Log.Info("Database migration completed")

	return DB
}

// Open connects to postgres or sqlite. Timestamps are always written in UTC.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "postgresql", "":
		dialector = postgres.Open(dsn)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	g, err := gorm.Open(dialector, &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" || driver == "sqlite3" {
		sqlDB, err := g.DB()
		if err != nil {
			return nil, err
		}
		// sqlite 单写者；内存库依赖连接常驻
		sqlDB.SetMaxOpenConns(1)
		if err := g.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Migrate creates or updates the users, poshts and comments tables.
func Migrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&models.User{},
		&models.Posht{},
		&models.Comment{},
	)
}

// Close releases the underlying connection pool.
func Close(g *gorm.DB) error {
	sqlDB, err := g.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
