package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/pfkeygen/internal/config"
	"github.com/pfkeygen/internal/datefmt"
	"github.com/pfkeygen/internal/history"
	"github.com/pfkeygen/internal/kvstore"
	"github.com/pfkeygen/internal/license"
	"github.com/pfkeygen/internal/logging"
)

// Output formats accepted by --output.
const (
	outputPretty = "pretty"
	outputJSON   = "json"
)

// GlobalFlags returns the flags shared by every command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Load configuration from `FILE`",
			EnvVars: []string{"PFKEYGEN_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// Commands returns every top-level command.
func Commands() []*cli.Command {
	return []*cli.Command{
		GenerateCommand(),
		VerifyCommand(),
		HistoryCommand(),
		DeviceIDCommand(),
		ServeCommand(),
		PasswdCommand(),
		ConfigCommand(),
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   outputPretty,
		Usage:   "output format: pretty or json",
	}
}

// deps is what a command needs once configuration is loaded.
type deps struct {
	cfg      *config.Config
	storage  kvstore.Store
	licenses *license.Service
	logs     io.Closer
}

func loadDeps(c *cli.Context) (*deps, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.Log.Level
	if c.Bool("verbose") {
		level = "debug"
	}
	logs, err := logging.Setup(logging.Options{Level: level, Pretty: cfg.Log.Pretty, File: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	dates, err := datefmt.New(cfg.Format.Locale, loc)
	if err != nil {
		logs.Close()
		return nil, err
	}

	storage, err := kvstore.Open(contextOf(c), cfg.StorageOptions())
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("failed to open history storage: %w", err)
	}
	log.Debug().Str("backend", cfg.History.Backend).Str("slot", cfg.History.Slot).Msg("History storage ready")

	store := history.NewStore(storage, cfg.HistoryOptions())
	licenses := license.NewService(license.NewDeriver(cfg.LicenseConfig()), store, dates)

	return &deps{cfg: cfg, storage: storage, licenses: licenses, logs: logs}, nil
}

func (d *deps) Close() {
	if err := d.storage.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close history storage")
	}
	d.logs.Close()
}

func contextOf(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printRecord(w io.Writer, r history.Record) {
	fmt.Fprintf(w, "License key: %s\n", r.Key)
	fmt.Fprintf(w, "Device ID:   %s\n", r.DeviceID)
	fmt.Fprintf(w, "Customer:    %s\n", r.CustomerLabel)
	fmt.Fprintf(w, "Created:     %s\n", r.CreatedAt)
	fmt.Fprintf(w, "Expires:     %s\n", r.Expiry)
}

func checkOutput(format string) error {
	if format != outputPretty && format != outputJSON {
		return fmt.Errorf("unknown output format %q (want pretty or json)", format)
	}
	return nil
}
