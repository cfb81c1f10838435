package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/ozanyurt/voice-campaign-service/environments"
	"github.com/ozanyurt/voice-campaign-service/pkg/logger"
)

func NewMySQLDB(cfg environments.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Connected to MySQL database")
	return db, nil
}

func RunMigrations(db *sqlx.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS campaigns (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			region VARCHAR(50) NOT NULL DEFAULT 'global',
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			scheduled_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_campaigns_status (status),
			INDEX idx_campaigns_scheduled_at (scheduled_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS contacts (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			phone_number VARCHAR(20) NOT NULL,
			tag VARCHAR(100) NOT NULL DEFAULT '',
			region VARCHAR(50) NOT NULL DEFAULT 'global',
			INDEX idx_contacts_region (region)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS call_logs (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			campaign_id BIGINT NOT NULL,
			contact_id BIGINT NOT NULL,
			contact_name VARCHAR(255) NOT NULL,
			contact_number VARCHAR(20) NOT NULL,
			region VARCHAR(50) NOT NULL,
			provider VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'initiated',
			recording_url VARCHAR(512),
			error_detail TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_call_logs_campaign (campaign_id),
			INDEX idx_call_logs_campaign_contact (campaign_id, contact_id),
			INDEX idx_call_logs_status (status),
			INDEX idx_call_logs_created_at (created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Infof("Database migrations completed")

	return nil
}

func SeedTestData(db *sqlx.DB) error {
	var count int

	err := db.Get(&count, "SELECT COUNT(*) FROM contacts")
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Infof("Database already has %d contacts, skipping seed", count)
		return nil
	}

	testContacts := []struct {
		name   string
		phone  string
		tag    string
		region string
	}{
		{"Alice Carter", "+14155550101", "lead", "global"},
		{"Bob Keller", "+14155550102", "customer", "global"},
		{"Carol Nguyen", "+14155550103", "lead", "global"},
		{"Deepak Sharma", "+919855501001", "lead", "india"},
		{"Esha Patel", "+919855501002", "customer", "india"},
		{"Frank Ortiz", "+14155550104", "customer", "global"},
		{"Gita Rao", "+919855501003", "lead", "india"},
		{"Helen Byrne", "+14155550105", "lead", "global"},
	}

	for _, contact := range testContacts {
		_, err := db.Exec(
			"INSERT INTO contacts (name, phone_number, tag, region) VALUES (?, ?, ?, ?)",
			contact.name, contact.phone, contact.tag, contact.region,
		)
		if err != nil {
			return fmt.Errorf("failed to seed test data: %w", err)
		}
	}

	logger.Infof("Seeded %d test contacts", len(testContacts))
	return nil
}
