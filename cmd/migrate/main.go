package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/config"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/logger"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// env is what a command runs against. m is nil for commands that only read
// the migrations directory.
type env struct {
	dir  string
	args []string
	log  *zap.Logger
	m    *migration.Migrator
}

type command struct {
	usage   string
	needsDB bool
	run     func(e *env) error
}

var commands = map[string]command{
	"up":      {"up                    Apply all pending migrations", true, func(e *env) error { return e.m.Up() }},
	"down":    {"down                  Roll back all migrations", true, func(e *env) error { return e.m.Down() }},
	"step":    {"step <n>              Apply n migrations, negative rolls back", true, runStep},
	"version": {"version               Show the applied version", true, runVersion},
	"status":  {"status                List migrations and whether they are applied", true, runStatus},
	"force":   {"force <version>       Mark a version applied after a manual repair", true, runForce},
	"create":  {"create <name> [desc]  Scaffold a new up/down pair", false, runCreate},
	"list":    {"list                  List migration files", false, runList},
}

var commandOrder = []string{"up", "down", "step", "version", "status", "force", "create", "list"}

func main() {
	dir := flag.String("path", "", "migrations directory (default: database.migrations_path)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *logLevel, Format: "console", Output: "stdout", TimeFormat: "15:04:05"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cmd, *dir, flag.Args()[1:], log); err != nil {
		log.Error("Migration command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cmd command, dir string, args []string, log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if dir == "" {
		dir = cfg.Database.MigrationsPath
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return err
	}
	e := &env{dir: dir, args: args, log: log}
	if !cmd.needsDB {
		return cmd.run(e)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if e.m, err = migration.New(db, dir, log); err != nil {
		return err
	}
	defer e.m.Close()
	return cmd.run(e)
}

func intArg(e *env, name string) (int, error) {
	if len(e.args) == 0 {
		return 0, fmt.Errorf("%s is required", name)
	}
	n, err := strconv.Atoi(e.args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, e.args[0])
	}
	return n, nil
}

func runStep(e *env) error {
	n, err := intArg(e, "step count")
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("step count must not be zero")
	}
	return e.m.Steps(n)
}

func runForce(e *env) error {
	v, err := intArg(e, "version")
	if err != nil {
		return err
	}
	return e.m.Force(v)
}

func runVersion(e *env) error {
	v, dirty, err := e.m.Version()
	if err != nil {
		return err
	}
	e.log.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	return nil
}

func runStatus(e *env) error {
	files, err := migration.List(e.dir)
	if err != nil {
		return err
	}
	applied, dirty, err := e.m.Version()
	if err != nil {
		return err
	}
	for _, f := range files {
		mark := "applied"
		switch {
		case f.Version == applied && dirty:
			mark = "DIRTY"
		case f.Version > applied:
			mark = "pending"
		}
		fmt.Printf("  %06d  %-8s %s\n", f.Version, mark, f.Name)
	}
	e.log.Info("Schema status",
		zap.Uint("version", applied),
		zap.Int("pending", len(migration.Pending(files, applied))),
		zap.Bool("dirty", dirty))
	return nil
}

func runCreate(e *env) error {
	if len(e.args) == 0 {
		return errors.New("migration name is required")
	}
	description := ""
	if len(e.args) > 1 {
		description = e.args[1]
	}
	f, err := migration.Create(e.dir, e.args[0], description)
	if err != nil {
		return err
	}
	e.log.Info("Migration created",
		zap.Uint("version", f.Version),
		zap.String("up", f.UpPath),
		zap.String("down", f.DownPath))
	return nil
}

func runList(e *env) error {
	files, err := migration.List(e.dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Printf("  %06d  %s\n", f.Version, f.Name)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "RT/RW ledger schema migrations\n\nUsage:\n  migrate [flags] <command> [arguments]\n\nCommands:")
	for _, name := range commandOrder {
		fmt.Fprintln(os.Stderr, "  "+commands[name].usage)
	}
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}
