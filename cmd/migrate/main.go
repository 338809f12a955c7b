package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/config"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

var errUsage = errors.New("usage")

// migrator is the part of *migrate.Migrate the commands use.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
}

func main() {
	var migrationDir string
	flag.StringVar(&migrationDir, "path", "migrations", "Path to the class_logs schema migrations")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}
	if flag.NArg() < 1 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	m, err := migrate.New("file://"+migrationDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("path", migrationDir).Msg("Migration failed to initialize")
	}
	defer m.Close()

	if err := run(m, flag.Args(), os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(2)
		}
		log.Fatal().Err(err).Str("command", flag.Arg(0)).Msg("Migration failed")
	}
}

// run executes one migration command and reports the outcome on out.
func run(m migrator, args []string, out io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("up: %w", err)
		}
		fmt.Fprintln(out, "class_logs schema is up to date")
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("down: %w", err)
		}
		fmt.Fprintln(out, "class_logs schema removed")
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		if err := m.Steps(n); err != nil {
			return fmt.Errorf("steps %d: %w", n, err)
		}
		fmt.Fprintf(out, "Applied %d migration step(s)\n", n)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(out, "No migration applied yet")
			return nil
		}
		if err != nil {
			return fmt.Errorf("version: %w", err)
		}
		fmt.Fprintf(out, "Version: %d, Dirty: %t\n", version, dirty)
	case "force":
		v, err := intArg(args)
		if err != nil {
			return err
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("force %d: %w", v, err)
		}
		fmt.Fprintf(out, "Forced version to %d\n", v)
	default:
		return errUsage
	}
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a number: %w", args[0], errUsage)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q: %w", args[0], args[1], errUsage)
	}
	return n, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: migrate [-path dir] <command>")
	fmt.Fprintln(w, "Manages the class_logs table schema in DATABASE_URL.")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  up            apply all pending migrations")
	fmt.Fprintln(w, "  down          roll back every migration (drops class_logs)")
	fmt.Fprintln(w, "  steps <n>     apply n migrations, or roll back -n")
	fmt.Fprintln(w, "  version       print the applied version")
	fmt.Fprintln(w, "  force <v>     mark version v as applied after a failed migration")
}
