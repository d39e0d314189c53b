package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pfkeygen/internal/device"
)

// deviceAppID scopes the hashed machine id to this tool.
const deviceAppID = "pfkeygen"

// DeviceIDCommand returns the device-id command
func DeviceIDCommand() *cli.Command {
	return &cli.Command{
		Name:  "device-id",
		Usage: "Print this machine's device ID",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "print the id without upper-casing",
			},
		},
		Action: func(c *cli.Context) error {
			id := device.LocalID(deviceAppID)
			if !c.Bool("raw") {
				id = device.Normalize(id)
			}
			fmt.Fprintln(c.App.Writer, id)
			return nil
		},
	}
}
