package database

import (
	"database/sql"
	"fmt"
	"os"

	"mal_vip_backend/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// InitDB opens the connection pool, verifies connectivity, and applies the
// schema script when a path is configured. The schema uses IF NOT EXISTS
// statements throughout so repeated startups are safe.
func InitDB(host, port, user, password, dbname, sslmode, schemaPath string) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	utils.LogInfo("Connected to database", map[string]interface{}{"host": host, "database": dbname})

	if err := applySchema(db, schemaPath); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// applySchema reads and executes the schema script.
func applySchema(db *sql.DB, schemaPath string) error {
	if schemaPath == "" {
		utils.LogInfo("No schema path provided, skipping schema application")
		return nil
	}
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}
	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"path": schemaPath})
	return nil
}

// VerifySchema checks that the core tables exist before the server starts
// taking traffic.
func VerifySchema(db *sql.DB) error {
	tables := []string{
		"users", "staff_members", "applications", "members",
		"benefits", "activities", "notifications", "investment_portfolios",
	}
	for _, table := range tables {
		var exists bool
		err := db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
			table,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking table %s: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("required table %s is missing", table)
		}
	}
	return nil
}
