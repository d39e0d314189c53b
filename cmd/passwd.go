package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pfkeygen/internal/api"
)

// PasswdCommand returns the passwd command
func PasswdCommand() *cli.Command {
	return &cli.Command{
		Name:  "passwd",
		Usage: "Hash an operator password for server.password_hash",
		Action: func(c *cli.Context) error {
			fmt.Fprint(c.App.ErrWriter, "Password: ")
			line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")

			hash, err := api.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, hash)
			return nil
		},
	}
}
