package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/siteapi/internal/logger"
	"github.com/example/siteapi/internal/models"
)

// Connect ensures the target database exists and opens a gorm connection to it.
func Connect(dsn string) (*gorm.DB, error) {
	created, err := ensureDatabase(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure database: %w", err)
	}
	if created {
		logger.Log.Info("database created")
	}

	conn, err := gorm.Open(postgres.Open(dsn), Options())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return conn, nil
}

// Options returns the gorm configuration shared by every dialect.
func Options() *gorm.Config {
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Bootstrap migrates the schema and then applies the SQL script at scriptPath.
func Bootstrap(conn *gorm.DB, scriptPath string) error {
	if err := Migrate(conn); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	if err := ApplyScript(conn, scriptPath); err != nil {
		return fmt.Errorf("bootstrap script failed: %w", err)
	}
	return nil
}

// Migrate creates or updates all tables.
func Migrate(conn *gorm.DB) error {
	migrations := []interface{}{
		&models.User{},
		&models.Blog{},
		&models.Image{},
		&models.OTP{},
	}

	for _, migration := range migrations {
		if err := conn.AutoMigrate(migration); err != nil {
			return err
		}
	}

	return nil
}

// ApplyScript executes every statement of the file at path. A missing file is skipped.
func ApplyScript(conn *gorm.DB, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Log.Info("bootstrap script not found, skipping", zap.String("path", path))
			return nil
		}
		return err
	}

	statements := SplitStatements(string(data))
	for i, statement := range statements {
		if err := conn.Exec(statement).Error; err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}

	logger.Log.Info("bootstrap script applied",
		zap.String("path", path),
		zap.Int("statements", len(statements)),
	)
	return nil
}

// SplitStatements splits a script on ';' and drops blank statements.
func SplitStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			statements = append(statements, trimmed)
		}
	}
	return statements
}

// maintenanceDSN points dsn at the "postgres" maintenance database and returns the
// database name it originally targeted. ok is false for key/value DSNs and URLs
// without a database name; those are opened as given.
func maintenanceDSN(dsn string) (admin, name string, ok bool, err error) {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return "", "", false, nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", "", false, err
	}
	name = strings.TrimPrefix(parsed.Path, "/")
	if name == "" {
		return "", "", false, nil
	}

	parsed.Path = "/postgres"
	return parsed.String(), name, true, nil
}

// ensureDatabase creates the database named in dsn when it does not exist yet and
// reports whether it did.
func ensureDatabase(dsn string) (created bool, err error) {
	admin, name, ok, err := maintenanceDSN(dsn)
	if err != nil || !ok {
		return false, err
	}

	conn, err := sql.Open("postgres", admin)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	var exists bool
	row := conn.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("look up database %q: %w", name, err)
	}
	if exists {
		return false, nil
	}

	if _, err := conn.Exec("CREATE DATABASE " + pq.QuoteIdentifier(name)); err != nil {
		return false, fmt.Errorf("create database %q: %w", name, err)
	}
	return true, nil
}
