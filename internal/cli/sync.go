package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/instrsync/instrsync/internal/config"
	"github.com/instrsync/instrsync/internal/fetch"
	"github.com/instrsync/instrsync/internal/logging"
	"github.com/instrsync/instrsync/internal/progress"
	"github.com/instrsync/instrsync/internal/remote"
	"github.com/instrsync/instrsync/internal/store"
	"github.com/instrsync/instrsync/internal/syncer"
	"github.com/instrsync/instrsync/internal/ui"
	"github.com/instrsync/instrsync/internal/ui/tui"
	"github.com/instrsync/instrsync/internal/util"
	"github.com/instrsync/instrsync/internal/workspace"
)

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Sync instruction files into matching workspace roots",
		UsageText: "instrsync sync [options] [DIR ...]",
		Description: `Fetch the configured instruction documents and write them into every
   workspace root whose detected languages match. Without DIR arguments the
   current directory is the only root.

   Remote sources from the central configuration are merged with local
   sources; a local source for the same language and destination overrides
   the remote one.

   Examples:
     instrsync sync
     instrsync sync --dry-run ~/src/service ~/src/frontend
     instrsync sync --yes --refresh`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Preview changes without prompting or writing",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Write changed files without asking for confirmation",
			},
			&cli.BoolFlag{
				Name:    "refresh",
				Aliases: []string{"r"},
				Usage:   "Refetch the remote configuration even if the cache is fresh",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Confirm with plain line prompts instead of the full-screen prompt",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSync(ctx, cmd)
		},
	}
}

// runOptions carries the per-run settings shared by sync and watch.
type runOptions struct {
	dirs   []string
	dryRun bool
	yes    bool
	plain  bool
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	remoteCfg := loadRemoteConfig(ctx, cfg, cmd.Bool("refresh"))

	opts := runOptions{
		dirs:   util.ExpandPaths(cmd.Args().Slice(), ""),
		dryRun: cmd.Bool("dry-run"),
		yes:    cmd.Bool("yes"),
		plain:  cmd.Bool("plain"),
	}

	result, err := executeSync(ctx, cmd, cfg, remoteCfg, opts)
	if err != nil {
		return err
	}

	printResult(result)

	if !result.Success() {
		return fmt.Errorf("%d source(s) failed", len(result.Failed()))
	}
	return nil
}

// executeSync assembles the pipeline and runs it once. Watch reuses it for
// every triggered run.
func executeSync(ctx context.Context, cmd *cli.Command, cfg *config.Config, remoteCfg *remote.Config, opts runOptions) (*syncer.Result, error) {
	scanner := workspace.NewScanner(opts.dirs)
	scanner.MaxDepth = cfg.Workspace.MaxDepth
	scanner.ExtraSkip = cfg.Workspace.Skip

	disk := store.NewDisk()
	fetcher := fetch.New(nil, &fetch.EnvTokenProvider{Interactive: isTerminal()}, disk)

	confirm := cfg.ConfirmBeforeSync(remoteCfg.ConfirmBeforeSync) && !opts.yes

	// --plain works on any stdin, including piped answers. The full-screen
	// prompt needs a real terminal.
	var prompter syncer.Prompter
	if confirm && !opts.dryRun {
		switch {
		case opts.plain:
			prompter = NewStdinPrompter()
		case !isTerminal():
			logging.Warn("stdin is not a terminal; changed files will be skipped (pass --yes to write without prompts)")
		default:
			prompter = tui.ConfirmPrompter{}
		}
	}

	runOpts := syncer.Options{
		DryRun:  opts.dryRun,
		Confirm: confirm,
		DisableConfirm: func() error {
			disabled := false
			cfg.Sync.ConfirmBeforeSync = &disabled
			return cfg.SaveToPath(configSavePath(cmd))
		},
	}

	// A spinner and an interactive prompt cannot share the terminal.
	var bar *progress.Bar
	if prompter == nil && !opts.dryRun {
		bar = progress.Simple(-1, "Syncing instruction files")
		runOpts.OnResult = func(sr syncer.SourceResult) {
			bar.Describe(fmt.Sprintf("Synced %s", sr.Label()))
			_ = bar.Add(1)
		}
	}

	s := syncer.New(fetcher, disk, scanner, prompter)
	result, err := s.Run(ctx, remoteCfg.Sources, cfg.Sources, runOpts)
	if bar != nil {
		_ = bar.Clear()
	}
	return result, err
}

// loadRemoteConfig fetches the centrally distributed configuration. Remote
// problems degrade to cached or empty configuration, they never abort a run.
func loadRemoteConfig(ctx context.Context, cfg *config.Config, force bool) *remote.Config {
	if cfg.Remote.URL == "" {
		logging.Debug("no remote configuration URL set")
		return &remote.Config{}
	}

	cache, err := remote.OpenCache(cfg.Remote.CacheDir)
	if err != nil {
		logging.Warn("failed to open remote config cache", logging.Err(err))
		cache = nil
	}

	fetcher := fetch.New(nil, &fetch.EnvTokenProvider{Interactive: isTerminal()}, store.NewDisk())
	loader := remote.NewLoader(fetcher, cache, cfg.Remote.TTL)
	return loader.Load(ctx, cfg.Remote.URL, force)
}

// configSavePath returns the path configuration changes are written to,
// honoring the --config override.
func configSavePath(cmd *cli.Command) string {
	if path := cmd.String("config"); path != "" {
		return path
	}
	return config.FilePath()
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// printResult prints one status line per processed source plus the summary.
func printResult(result *syncer.Result) {
	for _, sr := range result.Sources {
		fmt.Println(statusLine(sr, result.DryRun))
	}
	if len(result.Sources) > 0 {
		fmt.Println()
	}
	fmt.Print(result.Summary())
}

func statusLine(sr syncer.SourceResult, dryRun bool) string {
	dest := sr.Source.Destination().FullPath
	label := sr.Label()

	switch sr.Action {
	case syncer.ActionCreated:
		verb := "created"
		if dryRun {
			verb = "would create"
		}
		return ui.StatusSuccess(fmt.Sprintf("%s: %s %s (+%d)", label, verb, dest, sr.Added))
	case syncer.ActionUpdated:
		verb := "updated"
		if dryRun {
			verb = "would update"
		}
		return ui.StatusSuccess(fmt.Sprintf("%s: %s %s (+%d/-%d)", label, verb, dest, sr.Added, sr.Removed))
	case syncer.ActionUpToDate:
		return ui.StatusUnchanged(fmt.Sprintf("%s: %s up to date", label, dest))
	case syncer.ActionSkipped:
		return ui.StatusSkipped(fmt.Sprintf("%s: skipped %s (%s)", label, dest, sr.Message))
	default:
		return ui.StatusError(fmt.Sprintf("%s: %s", label, sr.Message))
	}
}
