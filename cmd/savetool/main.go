// Command savetool inspects and edits game save files and manages their
// backups.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/andreyvit/savecodec/backup"
)

// env is shared by all commands. It is filled in by the global flags and
// the config file before any command runs.
type env struct {
	configPath string
	backups    string
	catalog    string
	logLevel   string

	cfg    *Config
	logger *slog.Logger
}

func main() {
	app := kingpin.New("savetool", "Inspect, edit and back up game save files.")
	app.HelpFlag.Short('h')

	e := &env{}
	app.Flag("config", "Path to the YAML config file.").Default(defaultConfigPath()).StringVar(&e.configPath)
	app.Flag("backups", "Path to the backup database (overrides config).").StringVar(&e.backups)
	app.Flag("catalog", "Path to the plot catalog YAML (overrides config).").StringVar(&e.catalog)
	app.Flag("log-level", "debug, info, warn or error (overrides config).").StringVar(&e.logLevel)
	app.PreAction(e.setup)

	addInspectCommand(app, e)
	addRoundTripCommand(app, e)
	addPlotsCommand(app, e)
	addBackupCommand(app, e)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func (e *env) setup(*kingpin.ParseContext) error {
	explicit := e.configPath != defaultConfigPath()
	cfg, err := loadConfig(e.configPath, explicit)
	if err != nil {
		return err
	}
	if e.backups != "" {
		cfg.Backups = e.backups
	}
	if e.catalog != "" {
		cfg.Catalog = e.catalog
	}
	if e.logLevel != "" {
		cfg.LogLevel = e.logLevel
	}
	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	e.cfg = cfg
	e.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(e.logger)
	return nil
}

// openBackups opens the configured backup store, or returns nil if none is
// configured and required is false.
func (e *env) openBackups(required bool) *backup.Store {
	if e.cfg.Backups == "" {
		if required {
			exitWithErr(fmt.Errorf("no backup database configured; use --backups or set backups in %s", e.configPath))
		}
		return nil
	}
	store, err := backup.Open(e.cfg.Backups, backup.Options{Logger: e.logger})
	if err != nil {
		exitWithErr(err)
	}
	return store
}

func readFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		exitWithErr(err)
	}
	return data
}

func exitWithErr(err error) {
	fmt.Fprintf(os.Stderr, "savetool: %v\n", err)
	os.Exit(1)
}
