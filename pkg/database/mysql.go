package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/bravo6co-debug/SMS-solapi/environments"
	"github.com/bravo6co-debug/SMS-solapi/pkg/logger"
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
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			name VARCHAR(100) NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS companies (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			phone VARCHAR(20) NOT NULL,
			business_id VARCHAR(50) NOT NULL,
			memo TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_companies_name (name),
			INDEX idx_companies_business_id (business_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS templates (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			category VARCHAR(50) NOT NULL,
			title VARCHAR(100) NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS draft (
			draft_key VARCHAR(50) PRIMARY KEY,
			user_id BIGINT,
			template_id BIGINT,
			items TEXT NOT NULL,
			saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			CONSTRAINT fk_draft_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			CONSTRAINT fk_draft_template FOREIGN KEY (template_id) REFERENCES templates(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS send_history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			template_id BIGINT NOT NULL,
			company_id BIGINT NOT NULL,
			campaign_name VARCHAR(200) NOT NULL,
			message_content TEXT NOT NULL,
			status VARCHAR(20) NOT NULL,
			provider_message_id VARCHAR(100),
			sent_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_send_history_sent_at (sent_at),
			INDEX idx_send_history_company (company_id),
			CONSTRAINT chk_send_history_status CHECK (
				status IN ('sent', 'failed', 'resent_success', 'resent_failure')
			),
			CONSTRAINT fk_history_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT,
			CONSTRAINT fk_history_template FOREIGN KEY (template_id) REFERENCES templates(id) ON DELETE RESTRICT,
			CONSTRAINT fk_history_company FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE RESTRICT
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

	err := db.Get(&count, "SELECT COUNT(*) FROM users")
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Infof("Database already has %d users, skipping seed", count)
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	_, err = db.Exec(
		"INSERT INTO users (username, password, name) VALUES (?, ?, ?)",
		"admin", string(hashed), "관리자",
	)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	testCompanies := []struct {
		name       string
		phone      string
		businessID string
	}{
		{"한빛유통", "010-1234-5678", "123-45-67890"},
		{"대성상사", "010-2345-6789", "234-56-78901"},
		{"미래물산", "010-3456-7890", "345-67-89012"},
		{"성원기업", "010-4567-8901", "456-78-90123"},
		{"태평양무역", "010-5678-9012", "567-89-01234"},
	}

	for _, company := range testCompanies {
		_, err := db.Exec(
			"INSERT INTO companies (name, phone, business_id) VALUES (?, ?, ?)",
			company.name, company.phone, company.businessID,
		)
		if err != nil {
			return fmt.Errorf("failed to seed test data: %w", err)
		}
	}

	testTemplates := []struct {
		category string
		title    string
		content  string
	}{
		{"검수완료", "검수 완료 안내", "{발주사명}님, {캠페인명} 캠페인의 검수가 완료되었습니다. 확인 부탁드립니다."},
		{"진행률50%", "진행률 50% 안내", "{발주사명}님, {캠페인명} 캠페인이 50% 진행되었습니다."},
		{"진행률100%", "진행률 100% 안내", "{발주사명}님, {캠페인명} 캠페인이 100% 완료되었습니다. 감사합니다."},
	}

	for _, tmpl := range testTemplates {
		_, err := db.Exec(
			"INSERT INTO templates (category, title, content) VALUES (?, ?, ?)",
			tmpl.category, tmpl.title, tmpl.content,
		)
		if err != nil {
			return fmt.Errorf("failed to seed test data: %w", err)
		}
	}

	logger.Infof("Seeded admin user, %d companies, %d templates", len(testCompanies), len(testTemplates))
	return nil
}
