package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/instrsync/instrsync/internal/fetch"
	"github.com/instrsync/instrsync/internal/logging"
	"github.com/instrsync/instrsync/internal/store"
	"github.com/instrsync/instrsync/internal/ui"
	"github.com/instrsync/instrsync/internal/validate"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Fetch and validate a source without writing anything",
		UsageText: "instrsync check [options] <url-or-path>",
		Description: `Fetch a single instruction document and run the same content validation
   a sync run applies, without touching any workspace. Useful for vetting a
   URL before adding it as a source.

   Examples:
     instrsync check https://raw.githubusercontent.com/org/standards/main/go.md
     instrsync check --preview ./docs/standards.md`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "preview",
				Aliases: []string{"p"},
				Usage:   "Render the document in the terminal",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("check requires exactly 1 argument: <url-or-path>")
			}
			return runCheck(ctx, cmd, args.Get(0))
		},
	}
}

func runCheck(ctx context.Context, cmd *cli.Command, spec string) error {
	fetcher := fetch.New(nil, &fetch.EnvTokenProvider{Interactive: isTerminal()}, store.NewDisk())

	content, err := fetcher.Fetch(ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", spec, err)
	}

	size := humanize.Bytes(uint64(len(content)))
	if verdict := validate.Content(content); !verdict.Valid {
		fmt.Println(ui.StatusError(fmt.Sprintf("%s: %s (%s)", spec, verdict.Reason, size)))
		return fmt.Errorf("content failed validation: %s", verdict.Reason)
	}

	fmt.Println(ui.StatusSuccess(fmt.Sprintf("%s: valid instructions document (%s)", spec, size)))

	if cmd.Bool("preview") {
		rendered, err := glamour.Render(content, "auto")
		if err != nil {
			logging.Warn("failed to render preview", logging.Err(err))
			fmt.Println(content)
			return nil
		}
		fmt.Print(rendered)
	}

	return nil
}
