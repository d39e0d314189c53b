package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pfkeygen/internal/share"
)

// HistoryCommand returns the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect or clear previously generated keys",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List generated keys, newest first",
				Flags:  []cli.Flag{outputFlag()},
				Action: runHistoryList,
			},
			{
				Name:      "show",
				Usage:     "Show one entry and its share message",
				ArgsUsage: "INDEX",
				Action:    runHistoryShow,
			},
			{
				Name:  "clear",
				Usage: "Delete the whole history",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "skip the confirmation prompt",
					},
				},
				Action: runHistoryClear,
			},
		},
	}
}

func runHistoryList(c *cli.Context) error {
	format := c.String("output")
	if err := checkOutput(format); err != nil {
		return err
	}

	d, err := loadDeps(c)
	if err != nil {
		return err
	}
	defer d.Close()

	records := d.licenses.History(contextOf(c))
	w := c.App.Writer
	if format == outputJSON {
		return writeJSON(w, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No licenses generated yet")
		return nil
	}
	for i, r := range records {
		fmt.Fprintf(w, "%3d  %s  %-20s  %s  (expires %s)\n", i, r.Key, r.CustomerLabel, r.CreatedAt, r.Expiry)
	}
	return nil
}

func runHistoryShow(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: INDEX")
	}
	idx, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", c.Args().Get(0), err)
	}

	d, err := loadDeps(c)
	if err != nil {
		return err
	}
	defer d.Close()

	records := d.licenses.History(contextOf(c))
	if idx < 0 || idx >= len(records) {
		return fmt.Errorf("no history entry at index %d (have %d)", idx, len(records))
	}

	w := c.App.Writer
	printRecord(w, records[idx])
	fmt.Fprintf(w, "\n%s\n", share.Message(records[idx]))
	return nil
}

func runHistoryClear(c *cli.Context) error {
	if !c.Bool("yes") {
		fmt.Fprint(c.App.Writer, "Clear all license history? [y/N]: ")
		answer, _ := bufio.NewReader(c.App.Reader).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(c.App.Writer, "Aborted")
			return nil
		}
	}

	d, err := loadDeps(c)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.licenses.Clear(contextOf(c)); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "History cleared")
	return nil
}
