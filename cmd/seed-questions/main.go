package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/exstem-paper/internal/config"
	"github.com/stemsi/exstem-paper/internal/database"
	"github.com/stemsi/exstem-paper/internal/logger"
	"github.com/stemsi/exstem-paper/internal/repository"
	"github.com/stemsi/exstem-paper/internal/seed"
)

func main() {
	var path string
	flag.StringVar(&path, "file", "seed/questions.yaml", "Path to the YAML question bank")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	bank, err := seed.LoadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Invalid seed file")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	disciplineRepo := repository.NewDisciplineRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	fmt.Printf("=== Seeding %d Questions ===\n", len(bank.Questions))

	disciplineIDs := make(map[string]int, len(bank.Disciplines))
	for _, name := range bank.Disciplines {
		d, err := disciplineRepo.Upsert(ctx, name)
		if err != nil {
			log.Fatal().Err(err).Str("discipline", name).Msg("Failed to upsert discipline")
		}
		disciplineIDs[name] = d.ID
	}

	creatorIDs := map[string]*int{}
	creatorOf := func(email string) *int {
		if email == "" {
			return nil
		}
		if id, ok := creatorIDs[email]; ok {
			return id
		}
		u, err := userRepo.GetByEmail(ctx, email)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			log.Warn().Str("email", email).Msg("Creator not found, leaving unassigned")
			creatorIDs[email] = nil
		case err != nil:
			log.Fatal().Err(err).Str("email", email).Msg("Failed to look up creator")
		default:
			creatorIDs[email] = &u.ID
		}
		return creatorIDs[email]
	}

	created, skipped := 0, 0
	for _, entry := range bank.Questions {
		var disciplineID *int
		if id, ok := disciplineIDs[entry.Discipline]; ok {
			disciplineID = &id
		}

		q := entry.Question()
		inserted, err := questionRepo.Create(ctx, &q, disciplineID, creatorOf(entry.CreatorEmail))
		if err != nil {
			log.Fatal().Err(err).Str("statement", entry.Statement).Msg("Failed to create question")
		}
		if inserted {
			created++
		} else {
			skipped++
		}
	}

	fmt.Printf("Done. Disciplines: %d, created: %d, already present: %d\n", len(disciplineIDs), created, skipped)
}
