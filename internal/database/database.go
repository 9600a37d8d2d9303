package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tomlord1122/memo-app/internal/config"
	"github.com/Tomlord1122/memo-app/internal/domain"
)

// ErrUnavailable is returned by Session when the database could not be opened.
var ErrUnavailable = errors.New("database unavailable")

// Service exposes the shared connection pool to the rest of the app.
type Service interface {
	Health() map[string]string
	Close() error
	// Session returns a handle scoped to ctx, or ErrUnavailable.
	Session(ctx context.Context) (*gorm.DB, error)
	// Migrate creates or updates the memo_item table.
	Migrate() error
}

type service struct {
	db      *gorm.DB
	name    string
	openErr error
}

// New opens the database described by cfg. A failed open does not abort the
// process: the returned Service reports ErrUnavailable from every Session call
// so requests can be answered with 503.
func New(cfg config.DatabaseConfig) Service {
	db, err := open(cfg)
	if err != nil {
		log.Printf("Initializing database failed: %v", err)
		return &service{name: cfg.Driver, openErr: err}
	}
	return &service{db: db, name: cfg.Driver}
}

// open builds the gorm handle for cfg.Driver and configures the pool.
func open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  parseLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	configurePool(sqlDB, cfg.Driver)

	return db, nil
}

// configurePool sizes the connection pool. sqlite keeps one connection that is
// never recycled: a :memory: database lives only as long as its connection.
func configurePool(sqlDB *sql.DB, driver string) {
	if driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
		return
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	dsn := cfg.ConnectionString()
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.New(postgres.Config{DriverName: "pgx", DSN: dsn}), nil
	case config.DriverMySQL:
		if dsn == "" {
			return nil, errors.New("DB_DSN is required for mysql")
		}
		return mysql.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (s *service) Session(ctx context.Context) (*gorm.DB, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, s.openErr)
	}
	return s.db.WithContext(ctx), nil
}

func (s *service) Migrate() error {
	if s.db == nil {
		return ErrUnavailable
	}
	return s.db.AutoMigrate(&domain.MemoItem{})
}

// Health pings the database and reports pool statistics.
func (s *service) Health() map[string]string {
	stats := make(map[string]string)
	if s.db == nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db not initialized: %v", s.openErr)
		return stats
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("failed to get underlying DB for health check: %v", err)
		log.Printf("Error getting DB for health check: %v", err)
		return stats
	}

	err = sqlDB.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["driver"] = s.name

	dbStats := sqlDB.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	if dbStats.OpenConnections > 80 {
		stats["message"] = "The database is experiencing heavy load."
	}

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

func (s *service) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB for closing: %v", err)
		return err
	}
	log.Printf("Closing connection pool for database: %s", s.name)
	return sqlDB.Close()
}
