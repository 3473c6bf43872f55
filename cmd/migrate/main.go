package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS settlement_holds CASCADE`,
		`DROP TABLE IF EXISTS token_distributions CASCADE`,
		`DROP TABLE IF EXISTS submissions CASCADE`,
		`DROP TABLE IF EXISTS activities CASCADE`,
		`DROP TABLE IF EXISTS moderators CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS moderators (
			id UUID PRIMARY KEY,
			wallet_address VARCHAR(64) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS activities (
			id UUID PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			token_reward BIGINT NOT NULL CHECK (token_reward >= 0),
			category VARCHAR(32) NOT NULL DEFAULT 'general',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_by VARCHAR(64) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS submissions (
			id UUID PRIMARY KEY,
			activity_id UUID NOT NULL REFERENCES activities(id),
			wallet_address VARCHAR(64) NOT NULL,
			proof_text TEXT NOT NULL,
			proof_url TEXT,
			status VARCHAR(16) NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'approved', 'rejected')),
			review_note TEXT,
			reviewer_wallet VARCHAR(64),
			token_reward BIGINT NOT NULL CHECK (token_reward >= 0),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			reviewed_at TIMESTAMPTZ
		)`,

		// submission_id uniqueness is the anti-double-payout constraint
		`CREATE TABLE IF NOT EXISTS token_distributions (
			id UUID PRIMARY KEY,
			submission_id UUID UNIQUE NOT NULL REFERENCES submissions(id),
			from_wallet VARCHAR(64) NOT NULL,
			to_wallet VARCHAR(64) NOT NULL,
			amount BIGINT NOT NULL CHECK (amount >= 0),
			tx_signature TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS settlement_holds (
			submission_id UUID PRIMARY KEY REFERENCES submissions(id),
			reason TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			resolved_at TIMESTAMPTZ
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_active ON activities(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_wallet ON submissions(wallet_address)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_distributions_to_wallet ON token_distributions(to_wallet)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
		fmt.Printf("  Created: %s\n", getTableName(query))
	}

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	// The first moderator has to exist before anyone can manage the roster
	// over the API.
	bootstrapWallet := os.Getenv("BOOTSTRAP_MODERATOR_WALLET")
	if bootstrapWallet != "" {
		query := `
			INSERT INTO moderators (id, wallet_address, name)
			VALUES (gen_random_uuid(), $1, 'bootstrap')
			ON CONFLICT (wallet_address) DO NOTHING
		`
		if _, err := conn.Exec(ctx, query, bootstrapWallet); err != nil {
			return fmt.Errorf("failed to seed bootstrap moderator: %w", err)
		}
		fmt.Println("  Seeded bootstrap moderator")
	}

	query := `
		INSERT INTO activities (id, title, description, token_reward, category, created_by) VALUES
		(gen_random_uuid(), 'Attend weekly meetup', 'Join the weekly club meetup and check in', 50, 'attendance', 'seed'),
		(gen_random_uuid(), 'Share an event post', 'Share the club event announcement on social media', 25, 'social', 'seed'),
		(gen_random_uuid(), 'Host a workshop', 'Prepare and host a technical workshop for members', 500, 'contribution', 'seed')
		ON CONFLICT DO NOTHING
	`

	if _, err := conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to seed activities: %w", err)
	}

	fmt.Println("  Seeded 3 activities")

	return nil
}

func getTableName(query string) string {
	if len(query) > 50 {
		return query[:50] + "..."
	}
	return query
}
