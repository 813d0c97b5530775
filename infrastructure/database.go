package infrastructure

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hr-portal/config"
	"hr-portal/domain"
)

// NewDatabase opens the configured driver, migrates the schema and seeds the job board.
func NewDatabase(cfg config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	if cfg.Seed {
		if err := seedJobListings(db); err != nil {
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"driver":   cfg.Driver,
		"migrated": cfg.AutoMigrate,
	}).Info("connected to database")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.JobListing{},
		&domain.Resume{},
		&domain.Employee{},
		&domain.Leave{},
		&domain.Evaluation{},
		&domain.Collaboration{},
		&domain.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func seedJobListings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.JobListing{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count job listings: %w", err)
	}

	if count > 0 {
		return nil
	}

	now := time.Now()
	listings := []domain.JobListing{
		{
			Title:      "Backend Engineer",
			Department: "Engineering",
			Description: "Build and operate the services behind the HR portal: REST APIs, relational storage, " +
				"message queues and integrations with AI model providers.",
			Requirements: datatypes.JSONSlice[string]{
				"3+ years building backend services in Go or a similar language",
				"Relational database design (MySQL or PostgreSQL)",
				"REST API design",
			},
			PreferredSkills: datatypes.JSONSlice[string]{"RabbitMQ", "Redis", "LLM integration"},
			Status:          domain.JobListingActive,
			PostedAt:        now,
		},
		{
			Title:       "HR Generalist",
			Department:  "People",
			Description: "Own onboarding, leave administration and performance review cycles across the company.",
			Requirements: datatypes.JSONSlice[string]{
				"2+ years in an HR generalist role",
				"Working knowledge of employment law",
			},
			Status:   domain.JobListingActive,
			PostedAt: now,
		},
	}

	if err := db.Create(&listings).Error; err != nil {
		return fmt.Errorf("failed to seed job listings: %w", err)
	}

	return nil
}
