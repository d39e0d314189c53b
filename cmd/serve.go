package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/pfkeygen/internal/api"
	"github.com/pfkeygen/internal/config"
)

// ServeCommand returns the CLI command for starting the API server
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the password-protected HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides server.port)",
			},
		},
		Action: func(c *cli.Context) error {
			d, err := loadDeps(c)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := config.ValidateServer(d.cfg); err != nil {
				return fmt.Errorf("invalid server configuration: %w", err)
			}

			port := d.cfg.Server.Port
			if c.IsSet("port") {
				port = c.Int("port")
			}
			log.Info().Int("port", port).Msg("Starting pfkeygen API server")

			server := api.NewServer(api.Config{
				Port:            port,
				PasswordHash:    d.cfg.Server.PasswordHash,
				JWTSecret:       d.cfg.Server.JWTSecret,
				SessionTTL:      d.cfg.Server.SessionTTL,
				UnlockPerMinute: d.cfg.Server.UnlockPerMin,
				AllowedOrigin:   d.cfg.Server.AllowedOrigin,
			}, d.licenses)
			return server.Start()
		},
	}
}
