package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ops-portal-backend/internal/domain/allocation"
	"ops-portal-backend/internal/domain/category"
	"ops-portal-backend/internal/domain/notification"
	"ops-portal-backend/internal/domain/ticket"
	"ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/internal/domain/user"
)

// Dialector maps a DB_DRIVER value to its gorm driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported db driver %q", driver)
}

// GormLogLevel follows the application log level: SQL is traced only at debug.
func GormLogLevel(appLevel string) logger.LogLevel {
	if appLevel == "debug" {
		return logger.Info
	}
	return logger.Warn
}

func OpenGorm(driver, dsn string, level logger.LogLevel, log *zap.Logger) (*gorm.DB, error) {
	dial, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := OpenGormWithDialector(dial, level)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// a single writer; also keeps :memory: databases on one connection
		sqlDB, _ := db.DB()
		sqlDB.SetMaxOpenConns(1)
	}
	log.Info("gorm: connected", zap.String("driver", driver))
	return db, nil
}

func OpenGormWithDialector(dial gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	// the pool is tuned before the only ping below
	cfg := &gorm.Config{
		Logger:               logger.Default.LogMode(level),
		DisableAutomaticPing: true,
		TranslateError:       true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&timesheet.WeekHeader{},
		&timesheet.Entry{},
		&allocation.Project{},
		&allocation.Allocation{},
		&allocation.Holiday{},
		&category.SubCategoryConfig{},
		&ticket.Ticket{},
		&ticket.History{},
		&user.User{},
		&notification.Notification{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
