package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pfkeygen/internal/config"
	"github.com/pfkeygen/internal/license"
)

// ConfigCommand returns the config command
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Initialize a new configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "pfkeygen.toml",
					},
				},
				Action: runConfigInit,
			},
			{
				Name:  "validate",
				Usage: "Validate the configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "server",
						Usage: "Also check the settings the serve command needs",
					},
				},
				Action: runConfigValidate,
			},
		},
	}
}

func runConfigInit(c *cli.Context) error {
	outputPath := c.String("output")

	if err := config.InitConfig(outputPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Created configuration file at %s\n", outputPath)
	return nil
}

func runConfigValidate(c *cli.Context) error {
	configPath := c.String("config")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Bool("server") {
		if err := config.ValidateServer(cfg); err != nil {
			return fmt.Errorf("invalid server configuration: %w", err)
		}
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Configuration is valid (history: %s backend, slot %q, capacity %d; overflow: %s)\n",
		cfg.History.Backend, cfg.History.Slot, cfg.History.Capacity, cfg.License.Segment5Overflow)
	if cfg.License.Secret != license.DefaultSecret {
		fmt.Fprintln(w, "Warning: custom license secret; keys will not match the stock extension")
	}
	return nil
}
