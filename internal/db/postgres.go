package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitPostgres initializes and returns a PostgreSQL connection pool
func InitPostgres() (*pgxpool.Pool, error) {
	// Get database URL from environment variable or use default
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Default local development configuration
		host := getEnvOrDefault("POSTGRES_HOST", "localhost")
		port := getEnvOrDefault("POSTGRES_PORT", "5432")
		user := getEnvOrDefault("POSTGRES_USER", "triplog")
		password := getEnvOrDefault("POSTGRES_PASSWORD", "")
		dbname := getEnvOrDefault("POSTGRES_DB", "triplog")
		sslmode := getEnvOrDefault("POSTGRES_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			user, password, host, port, dbname, sslmode)
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.HealthCheckPeriod = time.Minute * 5

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pool, nil
}

// createTables creates all required tables if they don't exist
func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	// Users table - stores auth provider user information
	usersTable := `
		CREATE TABLE IF NOT EXISTS users (
			uid VARCHAR(255) PRIMARY KEY,
			display_name VARCHAR(255),
			email VARCHAR(255) UNIQUE NOT NULL,
			photo_url TEXT,
			home_timezone VARCHAR(50) DEFAULT 'UTC',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		);
	`

	// Milestones table - ordered trip stops. arrival_date/departure_date are
	// DATEs on purpose: the grouping engine works at calendar-day granularity.
	milestonesTable := `
		CREATE TABLE IF NOT EXISTS milestones (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_uid VARCHAR(255) NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			latitude DECIMAL(10, 8) NOT NULL,
			longitude DECIMAL(11, 8) NOT NULL,
			display_order INTEGER NOT NULL,
			arrival_date DATE,
			departure_date DATE,
			created_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(user_uid, display_order)
		);
	`

	// Posts table - diary entries; captured_at comes from photo EXIF and may
	// legitimately predate created_at
	postsTable := `
		CREATE TABLE IF NOT EXISTS posts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_uid VARCHAR(255) NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
			body TEXT NOT NULL,
			latitude DECIMAL(10, 8),
			longitude DECIMAL(11, 8),
			location_name VARCHAR(500),
			created_at TIMESTAMP DEFAULT NOW(),
			captured_at TIMESTAMP
		);
	`

	// Post tags - set of short strings per post
	postTagsTable := `
		CREATE TABLE IF NOT EXISTS post_tags (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			tag VARCHAR(100) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(post_id, tag)
		);
	`

	// Media table - photos/videos attached to posts; display_order 0 is the
	// post's cover
	mediaTable := `
		CREATE TABLE IF NOT EXISTS media (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			type VARCHAR(10) NOT NULL CHECK (type IN ('image', 'video')),
			storage_path TEXT NOT NULL,
			thumbnail_path TEXT,
			width INTEGER,
			height INTEGER,
			latitude DECIMAL(10, 8),
			longitude DECIMAL(11, 8),
			captured_at TIMESTAMP,
			exif JSONB,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW()
		);
	`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`,
		`CREATE INDEX IF NOT EXISTS idx_milestones_user_uid ON milestones(user_uid);`,
		`CREATE INDEX IF NOT EXISTS idx_milestones_display_order ON milestones(user_uid, display_order);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_uid ON posts(user_uid);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_effective_ts ON posts(user_uid, (COALESCE(captured_at, created_at)));`,
		`CREATE INDEX IF NOT EXISTS idx_posts_coords ON posts(latitude, longitude);`,
		`CREATE INDEX IF NOT EXISTS idx_post_tags_post_id ON post_tags(post_id);`,
		`CREATE INDEX IF NOT EXISTS idx_post_tags_tag ON post_tags(tag);`,
		`CREATE INDEX IF NOT EXISTS idx_media_post_id ON media(post_id);`,
		`CREATE INDEX IF NOT EXISTS idx_media_display_order ON media(post_id, display_order);`,
	}

	tables := []string{usersTable, milestonesTable, postsTable, postTagsTable, mediaTable}

	for _, table := range tables {
		if _, err := pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, index := range indexes {
		if _, err := pool.Exec(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
