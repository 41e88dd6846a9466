package db

import (
	"database/sql"
	"log"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

func InitDB(dbURL string) *sql.DB {
	// Timestamps come back as time.Time.
	if !strings.Contains(dbURL, "parseTime") {
		if strings.Contains(dbURL, "?") {
			dbURL += "&parseTime=true"
		} else {
			dbURL += "?parseTime=true"
		}
	}

	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Database is not responding:", err)
	}

	log.Println("Database connected")
	return db
}

func RunMigrations(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			email VARCHAR(100) PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'user',
			wallet_balance DECIMAL(20,2) NOT NULL DEFAULT 0,
			eco_points BIGINT NOT NULL DEFAULT 0,
			co2_saved DECIMAL(20,2) NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS earn_events (
			id INT AUTO_INCREMENT PRIMARY KEY,
			account_email VARCHAR(100) NOT NULL,
			created_at DATETIME NOT NULL,
			waste_type VARCHAR(50) NOT NULL,
			weight DECIMAL(10,2) NOT NULL,
			amount DECIMAL(20,2) NOT NULL,
			points BIGINT NOT NULL,
			INDEX idx_earn_account (account_email),
			FOREIGN KEY (account_email) REFERENCES accounts(email)
		);`,
		`CREATE TABLE IF NOT EXISTS redeem_events (
			id INT AUTO_INCREMENT PRIMARY KEY,
			account_email VARCHAR(100) NOT NULL,
			created_at DATETIME NOT NULL,
			item VARCHAR(100) NOT NULL,
			cost DECIMAL(20,2) NOT NULL,
			cost_type VARCHAR(20) NOT NULL,
			INDEX idx_redeem_account (account_email),
			FOREIGN KEY (account_email) REFERENCES accounts(email)
		);`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			log.Fatal("Migration failed:", err)
		}
	}
	log.Println("Migrations complete")
}
