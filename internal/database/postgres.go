package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	log "github.com/sirupsen/logrus"

	"richmarket-bot/internal/config"
	"richmarket-bot/internal/models"
)

func ConnectPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	// TranslateError lets unique-constraint violations surface as
	// gorm.ErrDuplicatedKey, which the referral ledger relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Connected to PostgreSQL")

	err = db.AutoMigrate(&models.User{}, &models.ReferralEdge{}, &models.Category{}, &models.Item{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := SeedCatalog(db); err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	return db, nil
}
