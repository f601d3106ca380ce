package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Up      string
	Down    string
}

// Migrations contains all database migrations
var Migrations = []Migration{
	{
		Version: 1,
		Up: `
			CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				email VARCHAR(255) UNIQUE NOT NULL,
				display_name VARCHAR(255) NOT NULL,
				avatar_url TEXT,
				password_hash VARCHAR(255) NOT NULL,
				role VARCHAR(20) NOT NULL DEFAULT 'member',
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
		`,
		Down: `
			DROP TABLE IF EXISTS users;
		`,
	},
	{
		Version: 2,
		Up: `
			CREATE TABLE IF NOT EXISTS posts (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				kind VARCHAR(10) NOT NULL,
				parent_id UUID REFERENCES posts(id) ON DELETE CASCADE,
				title VARCHAR(255),
				body TEXT NOT NULL,
				automod_status VARCHAR(20) NOT NULL DEFAULT 'approved',
				risk_level VARCHAR(20) NOT NULL DEFAULT 'none',
				crisis_resources_added BOOLEAN NOT NULL DEFAULT FALSE,
				report_count INT NOT NULL DEFAULT 0,
				is_removed BOOLEAN NOT NULL DEFAULT FALSE,
				removed_by UUID,
				removed_reason TEXT,
				ai_analysis JSONB,
				ai_analyzed_at TIMESTAMP,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id);
			CREATE INDEX IF NOT EXISTS idx_posts_parent ON posts(parent_id);
			CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(automod_status);
		`,
		Down: `
			DROP TABLE IF EXISTS posts;
		`,
	},
	{
		Version: 3,
		Up: `
			CREATE TABLE IF NOT EXISTS behavior_records (
				author_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
				posts_last_hour INT NOT NULL DEFAULT 0,
				posts_last_day INT NOT NULL DEFAULT 0,
				last_post_at TIMESTAMP,
				recent_hashes BIGINT[] NOT NULL DEFAULT '{}',
				duplicate_detected BOOLEAN NOT NULL DEFAULT FALSE,
				rapid_posting_detected BOOLEAN NOT NULL DEFAULT FALSE,
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`,
		Down: `
			DROP TABLE IF EXISTS behavior_records;
		`,
	},
	{
		Version: 4,
		Up: `
			CREATE TABLE IF NOT EXISTS reports (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				reporter_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				content_id UUID NOT NULL,
				content_type VARCHAR(10) NOT NULL,
				reason VARCHAR(50) NOT NULL,
				details TEXT,
				priority VARCHAR(5) NOT NULL,
				status VARCHAR(20) NOT NULL DEFAULT 'pending',
				reviewed_by UUID,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_reports_reporter ON reports(reporter_id);
			CREATE INDEX IF NOT EXISTS idx_reports_content ON reports(content_id);
			CREATE INDEX IF NOT EXISTS idx_reports_status_priority ON reports(status, priority);
		`,
		Down: `
			DROP TABLE IF EXISTS reports;
		`,
	},
	{
		Version: 5,
		Up: `
			CREATE TABLE IF NOT EXISTS disputes (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				content_id UUID NOT NULL,
				content_type VARCHAR(10) NOT NULL,
				author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				reason_text TEXT NOT NULL,
				status VARCHAR(20) NOT NULL DEFAULT 'open',
				resolved_by UUID,
				resolution_notes TEXT,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				resolved_at TIMESTAMP
			);

			CREATE INDEX IF NOT EXISTS idx_disputes_content ON disputes(content_id);
			CREATE INDEX IF NOT EXISTS idx_disputes_status ON disputes(status);
		`,
		Down: `
			DROP TABLE IF EXISTS disputes;
		`,
	},
	{
		Version: 6,
		Up: `
			CREATE TABLE IF NOT EXISTS crisis_logs (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				content_id UUID NOT NULL,
				content_type VARCHAR(10) NOT NULL,
				risk_level VARCHAR(20) NOT NULL,
				action VARCHAR(30) NOT NULL,
				resolution_status VARCHAR(20) NOT NULL DEFAULT 'unresolved',
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				resolved_at TIMESTAMP
			);

			CREATE INDEX IF NOT EXISTS idx_crisis_logs_content ON crisis_logs(content_id);
			CREATE INDEX IF NOT EXISTS idx_crisis_logs_status ON crisis_logs(resolution_status);
		`,
		Down: `
			DROP TABLE IF EXISTS crisis_logs;
		`,
	},
	{
		Version: 7,
		Up: `
			CREATE TABLE IF NOT EXISTS user_reputation (
				user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
				warnings_received INT NOT NULL DEFAULT 0,
				reports_received INT NOT NULL DEFAULT 0,
				crisis_posts_count INT NOT NULL DEFAULT 0,
				last_crisis_post_at TIMESTAMP,
				trust_level INT NOT NULL DEFAULT 1,
				is_banned BOOLEAN NOT NULL DEFAULT FALSE,
				ban_expires_at TIMESTAMP,
				ban_reason TEXT,
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`,
		Down: `
			DROP TABLE IF EXISTS user_reputation;
		`,
	},
}

func RunMigrations(db *sql.DB) error {
	// Ensure migrations table exists
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	// Get current version
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return err
	}

	// Run pending migrations in ascending order by version
	sorted := make([]Migration, len(Migrations))
	copy(sorted, Migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	// Run pending migrations
	for _, migration := range sorted {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d...\n", migration.Version)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("Migration %d completed\n", migration.Version)
	}

	return nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}
