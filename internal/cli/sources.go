package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/instrsync/instrsync/internal/merge"
	"github.com/instrsync/instrsync/internal/ui"
)

func sourcesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "List the merged instruction sources",
		Description: `Show every instruction source a sync run would consider, after merging
   the remote configuration with local sources. A local source for the same
   language and destination overrides the remote one and is listed as local.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
			&cli.BoolFlag{
				Name:    "refresh",
				Aliases: []string{"r"},
				Usage:   "Refetch the remote configuration even if the cache is fresh",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSources(ctx, cmd)
		},
	}
}

// sourceRow is the JSON shape of one merged source.
type sourceRow struct {
	Language    string `json:"language"`
	URL         string `json:"url"`
	Destination string `json:"destination"`
	Origin      string `json:"origin"`
	Enabled     bool   `json:"enabled"`
}

func runSources(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	remoteCfg := loadRemoteConfig(ctx, cfg, cmd.Bool("refresh"))

	layered := merge.Layered(remoteCfg.Sources, cfg.Sources)

	rows := make([]sourceRow, len(layered))
	for i, ls := range layered {
		rows[i] = sourceRow{
			Language:    ls.Source.Language,
			URL:         ls.Source.URL,
			Destination: ls.Source.Destination().FullPath,
			Origin:      string(ls.Origin),
			Enabled:     ls.Source.IsEnabled(),
		}
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	outputSourcesTable(rows)
	return nil
}

func outputSourcesTable(rows []sourceRow) {
	if len(rows) == 0 {
		fmt.Println("No instruction sources configured.")
		fmt.Println("Add sources to the config file or set a remote configuration URL.")
		return
	}

	fmt.Println(ui.Header(fmt.Sprintf("Instruction sources (%d)", len(rows))))
	fmt.Println()
	fmt.Printf("%-14s %-8s %-8s %-33s %s\n", "LANGUAGE", "ORIGIN", "ENABLED", "DESTINATION", "URL")

	title := cases.Title(language.English)
	for _, row := range rows {
		enabled := "yes"
		if !row.Enabled {
			enabled = "no"
		}
		fmt.Printf("%-14s %-8s %-8s %-33s %s\n",
			title.String(row.Language), row.Origin, enabled, row.Destination, row.URL)
	}
}
