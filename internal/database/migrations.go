package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// goose keeps its base FS and dialect in package state.
var migrationMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

type migrationTarget struct {
	dialect string
	dir     string
}

var migrationTargets = map[string]migrationTarget{
	DriverSQLite:   {dialect: "sqlite3", dir: "migrations/sqlite"},
	DriverPostgres: {dialect: "postgres", dir: "migrations/postgres"},
}

func applyMigrations(ctx context.Context, db *gorm.DB, driver string, logger *zap.Logger) error {
	target, ok := migrationTargets[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	migrationMu.Lock()
	defer migrationMu.Unlock()

	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{SugaredLogger: logger.Sugar()})
	if err := goose.SetDialect(target.dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, sqlDB, target.dir); err != nil {
		logger.Error("database migration failed", zap.String("driver", driver), zap.Error(err))
		return fmt.Errorf("apply %s migrations: %w", driver, err)
	}
	return nil
}

type gooseLogger struct {
	*zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.Infof(strings.TrimSpace(format), v...)
}
