package database

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLDialect struct{}

func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) Name() string {
	return "mysql"
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

func (d *MySQLDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	return query
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *MySQLDialect) CreateScoresTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS scores (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			score INT NOT NULL,
			wpm INT NOT NULL,
			accuracy INT NOT NULL,
			correct_chars INT NOT NULL,
			date VARCHAR(32) NOT NULL,
			created_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		) CHARACTER SET utf8mb4;
	`
}
