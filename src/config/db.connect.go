package config

import (
	"fmt"
	"log/slog"

	auth "movieexplorer/src/modules/auth/models"
	notifications "movieexplorer/src/modules/notifications/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase opens postgres and migrates the tables the storefront owns.
func ConnectDatabase(cfg DBConfig, log *slog.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Info("connected to postgres", slog.String("host", cfg.Host), slog.String("db", cfg.Name))

	if err := runMigrations(db); err != nil {
		return nil, err
	}
	log.Info("all migrations completed")
	return db, nil
}

// CheckConnection reports whether the database answers a trivial query.
func CheckConnection(db *gorm.DB) bool {
	if db == nil {
		return false
	}
	sqlDB, err := db.DB()
	if err != nil {
		return false
	}
	if err := sqlDB.Ping(); err != nil {
		return false
	}
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return false
	}
	return result == 1
}

func runMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		auth.MigrateSessions,
		notifications.MigratePreferences,
	}
	for _, migrate := range migrations {
		if err := migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
