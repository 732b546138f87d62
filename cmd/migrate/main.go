package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stemsi/exstem-paper/internal/config"
	"github.com/stemsi/exstem-paper/internal/logger"
)

// errUsage reports a command line that names no known command.
var errUsage = errors.New("unknown or missing command")

// migrator is the part of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Force(version int) error
}

func main() {
	var migrationDir string
	flag.StringVar(&migrationDir, "path", "migrations", "Directory holding NNNNNN_name.{up,down}.sql files (e.g. migrations/000001_init.up.sql)")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	m, err := migrate.New("file://"+migrationDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("path", migrationDir).Msg("Migration failed to initialize")
	}
	defer m.Close()

	result, err := run(m, flag.Args())
	if errors.Is(err, errUsage) {
		printUsage()
		return
	}
	if err != nil {
		log.Fatal().Err(err).Strs("args", flag.Args()).Msg("Migration failed")
	}
	log.Info().Str("path", migrationDir).Msg(result)
}

// run executes one command and returns a summary line. A migration that
// is already current is not an error.
func run(m migrator, args []string) (string, error) {
	if len(args) < 1 {
		return "", errUsage
	}

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return "", fmt.Errorf("up: %w", err)
		}
		return "Migrated up successfully", nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return "", fmt.Errorf("down: %w", err)
		}
		return "Migrated down successfully", nil
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return "No migration applied yet", nil
		}
		if err != nil {
			return "", fmt.Errorf("version: %w", err)
		}
		return fmt.Sprintf("Version: %d, Dirty: %t", version, dirty), nil
	case "force":
		if len(args) < 2 {
			return "", fmt.Errorf("force requires a version argument")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := m.Force(v); err != nil {
			return "", fmt.Errorf("force: %w", err)
		}
		return fmt.Sprintf("Forced version to %d", v), nil
	default:
		return "", errUsage
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, version, force <version>")
	fmt.Println("Migrations are read from -path, e.g. migrations/000001_init.up.sql")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
