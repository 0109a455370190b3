// Command migrate управляет схемой БД PayToGether (golang-migrate).
//
// Usage:
//
//	migrate [-path ./migrations] [-database-url URL] up|down|steps N|force V|version|drop
//
// Без -database-url адрес берётся из DATABASE_URL, иначе собирается из
// конфигурации (PAYTOGETHER_DATABASE_* / DB_* / .env).
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/config"
	"github.com/Haleralex/paytogether/internal/pkg/logger"
)

func main() {
	var (
		migrationsPath string
		databaseURL    string
		steps          int
	)

	flag.StringVar(&migrationsPath, "path", "./migrations", "Path to migrations directory")
	flag.StringVar(&databaseURL, "database-url", "", "Database connection URL")
	flag.IntVar(&steps, "steps", 0, "Number of steps for up/down (0 = all)")
	flag.Parse()

	log := logger.Setup(&logger.Config{Level: "info", Format: "console"})
	defer func() { _ = log.Sync() }()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		cfg, err := config.LoadFromEnv()
		if err != nil {
			log.Fatal("failed to load configuration", zap.Error(err))
		}
		databaseURL = cfg.Database.DSN()
	}

	command := "up"
	args := flag.Args()
	if len(args) > 0 {
		command = args[0]
	}

	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		log.Fatal("failed to create migrate instance", zap.Error(err))
	}
	defer m.Close()

	m.Log = &migrationLogger{log: log.Sugar()}

	if err := execute(m, command, args, steps); err != nil {
		log.Fatal("migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func execute(m *migrate.Migrate, command string, args []string, steps int) error {
	switch command {
	case "up":
		var err error
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		fmt.Println("Migrations applied successfully")

	case "down":
		var err error
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		fmt.Println("Migrations rolled back successfully")

	case "force":
		if len(args) < 2 {
			return errors.New("force requires a version argument")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		if err := m.Force(version); err != nil {
			return err
		}
		fmt.Printf("Forced version to %d\n", version)

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migrations applied yet")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Current version: %d (dirty: %v)\n", version, dirty)

	case "drop":
		if err := m.Drop(); err != nil {
			return err
		}
		fmt.Println("All tables dropped successfully")

	default:
		return fmt.Errorf("unknown command %q (available: up, down, force, version, drop)", command)
	}
	return nil
}

// migrationLogger реализует migrate.Logger поверх zap.
type migrationLogger struct {
	log *zap.SugaredLogger
}

func (l *migrationLogger) Printf(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

func (l *migrationLogger) Verbose() bool {
	return true
}
