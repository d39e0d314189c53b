package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pfkeygen/internal/license"
)

// VerifyCommand returns the verify command
func VerifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check that a key was derived for a device with the configured secret",
		ArgsUsage: "KEY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "device",
				Usage:    "device ID the key should belong to",
				Required: true,
			},
		},
		Action: runVerify,
	}
}

func runVerify(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: KEY")
	}

	d, err := loadDeps(c)
	if err != nil {
		return err
	}
	defer d.Close()

	key, err := d.licenses.Verify(c.Args().Get(0), c.String("device"))
	if errors.Is(err, license.ErrDeviceMismatch) {
		return cli.Exit("Key does not match this device", 1)
	}
	if err != nil {
		return err
	}

	w := c.App.Writer
	if key.IsLifetime() {
		fmt.Fprintln(w, "Key is valid: lifetime license")
		return nil
	}
	fmt.Fprintf(w, "Key is valid: %d day license\n", key.ValidityDays())
	return nil
}
