package config

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"route_dispatch/internal/models"
)

// Connect opens the pooled database handle for cfg.DBDriver:
// "postgres" uses pgx, "pq" opens the pool through lib/pq and hands it to
// gorm, "sqlite" is for local runs.
func Connect(cfg *Config, log gormlogger.Interface) (*gorm.DB, error) {
	gcfg := &gorm.Config{TranslateError: true, Logger: log}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case DriverPQ:
		sqlDB, err := sql.Open("postgres", cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("open lib/pq pool: %w", err)
		}
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if cfg.DBDriver == DriverSQLite {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates the schema. Tables are created parents first
// so the foreign keys resolve.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Route{},
		&models.Stop{},
		&models.Delivery{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

// SeedSuperAdmin creates the super-admin from SUPERADMIN_* settings unless
// an admin with that email already exists.
func SeedSuperAdmin(db *gorm.DB, cfg *Config) error {
	if cfg.SuperAdminEmail == "" || cfg.SuperAdminPassword == "" {
		logrus.Warn("seed: SUPERADMIN_EMAIL or SUPERADMIN_PASSWORD not set, skipping")
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.SuperAdminEmail))

	var existing models.Admin
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		logrus.WithField("admin_id", existing.ID).Info("seed: super admin already present")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up super admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.SuperAdminPassword), 10)
	if err != nil {
		return err
	}
	admin := models.Admin{
		Name:        cfg.SuperAdminName,
		Email:       email,
		PhoneNumber: "",
		Password:    string(hashed),
		Role:        models.RoleSuperAdmin,
		Status:      models.StatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}
	logrus.WithField("email", email).Info("seed: super admin created")
	return nil
}
