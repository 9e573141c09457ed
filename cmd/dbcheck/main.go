// Command dbcheck is a disposable connectivity self-test: it applies
// migrations, writes a throwaway candidacy, reads it back and deletes it.
// This is the only code path that ever deletes a candidate.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"bridgerh/internal/config"
	"bridgerh/internal/database"
	"bridgerh/internal/domain/candidate"
	"bridgerh/internal/repository/postgres"
)

func main() {
	cfg := config.Load()

	if err := database.Migrate(cfg.MigrationsDir, cfg.PostgresDSN); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxIdle:     time.Minute,
		ConnMaxLifetime: time.Minute,
	})
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := postgres.NewCandidateRepository(db)
	probeEmail := fmt.Sprintf("dbcheck-%d@example.invalid", time.Now().UnixNano())
	created, err := repo.UpsertByEmail(ctx, candidate.Submission{
		FirstName: "Connectivity",
		LastName:  "Check",
		Email:     probeEmail,
		Skills:    "none",
		Position:  "none",
	})
	if err != nil {
		log.Fatalf("insert failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); err != nil {
		log.Fatalf("read back failed: %v", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM candidates WHERE email = $1`, probeEmail); err != nil {
		log.Fatalf("cleanup failed: %v", err)
	}

	log.Printf("database ok (candidate %s created, read and removed)", created.ID)
}
