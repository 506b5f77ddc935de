package storage

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"talk2me/backend/internal/config"
)

// Open підключається до сховища обраним драйвером.
//
//   - pgx: gorm postgres dialector on top of pgx (default)
//   - postgres: the same dialector driven by lib/pq
//   - sqlite: pure-Go sqlite, for local runs and tests
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPgx:
		dialector = postgres.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn})
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         NewGormLogger(log.Default().WithPrefix("gorm")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}
	if driver == config.DriverSQLite {
		// sqlite дозволяє лише одного писача
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// NewGormLogger пише попередження GORM у w. Відсутній запис - звичайна
// відповідь сховища (ErrNotFound), тому він не логується.
func NewGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
