package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pfkeygen/internal/license"
	"github.com/pfkeygen/internal/share"
)

// GenerateCommand returns the generate command
func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Derive a license key for a device and record it in history",
		ArgsUsage: "DEVICE_ID",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"d"},
				Usage:   "validity period in days (0 = lifetime)",
				Value:   30,
			},
			&cli.StringFlag{
				Name:  "customer",
				Usage: "customer name shown in the share message",
			},
			&cli.StringFlag{
				Name:  "share",
				Usage: "also print a share message: text, whatsapp or telegram",
			},
			outputFlag(),
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: DEVICE_ID")
	}
	format := c.String("output")
	if err := checkOutput(format); err != nil {
		return err
	}
	channel := c.String("share")
	if channel != "" && !share.ValidChannel(channel) {
		return fmt.Errorf("unknown share channel %q (want text, whatsapp or telegram)", channel)
	}

	d, err := loadDeps(c)
	if err != nil {
		return err
	}
	defer d.Close()

	issued, err := d.licenses.Issue(contextOf(c), license.Request{
		DeviceID:     c.Args().Get(0),
		Customer:     c.String("customer"),
		ValidityDays: c.Int("days"),
	})
	if err != nil {
		return err
	}

	w := c.App.Writer
	if format == outputJSON {
		return writeJSON(w, struct {
			*license.Issued
			Share share.Links `json:"share"`
		}{issued, share.For(issued.Record)})
	}

	printRecord(w, issued.Record)
	if channel != "" {
		out, err := share.Render(issued.Record, channel)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n", out)
	}
	return nil
}
