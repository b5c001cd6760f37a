package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/instrsync/instrsync/internal/logging"
	"github.com/instrsync/instrsync/internal/util"
	"github.com/instrsync/instrsync/internal/workspace"
)

// watchDebounce collapses bursts of file events into one sync run. Editors
// commonly write a config file several times in quick succession.
const watchDebounce = 500 * time.Millisecond

// Watch run triggers, used in log and output lines.
const (
	triggerStartup      = "startup"
	triggerConfigChange = "config change"
	triggerInterval     = "interval"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch configuration for changes and re-sync",
		UsageText: "instrsync watch [options] [DIR ...]",
		Description: `Run until interrupted, re-syncing whenever the configuration file or a
   workspace override file changes. The remote configuration's sync_on_open
   toggle controls the initial run and sync_on_config_change controls the
   change-triggered runs; local configuration overrides both.

   Examples:
     instrsync watch
     instrsync watch --interval 30m ~/src/service`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Also re-sync on a fixed interval (0 disables)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runWatch(ctx, cmd)
		},
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	dirs := util.ExpandPaths(cmd.Args().Slice(), "")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	remoteCfg := loadRemoteConfig(ctx, cfg, false)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	configBase := filepath.Base(configSavePath(cmd))
	for _, dir := range watchTargets(cmd, dirs) {
		if err := watcher.Add(dir); err != nil {
			logging.Warn("cannot watch directory", logging.Path(dir), logging.Err(err))
			continue
		}
		logging.Debug("watching directory", logging.Path(dir))
	}

	runOnce := func(trigger string) {
		freshCfg, err := loadConfig(cmd)
		if err != nil {
			logging.Error("failed to reload configuration", logging.Err(err))
			return
		}
		freshRemote := loadRemoteConfig(ctx, freshCfg, false)
		if trigger == triggerConfigChange && !freshCfg.SyncOnConfigChange(freshRemote.SyncOnConfigChange) {
			logging.Info("sync on config change disabled, ignoring change")
			return
		}

		result, err := executeSync(ctx, cmd, freshCfg, freshRemote, runOptions{dirs: dirs})
		if err != nil {
			logging.Error("sync run failed", logging.Err(err))
			return
		}
		fmt.Printf("\nSync triggered by %s:\n", trigger)
		printResult(result)
	}

	if cfg.SyncOnOpen(remoteCfg.SyncOnOpen) {
		runOnce(triggerStartup)
	} else {
		logging.Info("sync on open disabled, waiting for changes")
	}

	// Armed only while a change burst is pending.
	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	var tick <-chan time.Time
	if interval := cmd.Duration("interval"); interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	fmt.Println("Watching for configuration changes (ctrl+c to stop)")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigEvent(event, configBase) {
				continue
			}
			logging.Debug("configuration change detected",
				logging.Path(event.Name),
				slog.String("op", event.Op.String()),
			)
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("watcher error", logging.Err(err))

		case <-debounce.C:
			runOnce(triggerConfigChange)

		case <-tick:
			runOnce(triggerInterval)
		}
	}
}

// watchTargets lists the directories to watch: the configuration directory
// plus every workspace root, where override files live.
func watchTargets(cmd *cli.Command, dirs []string) []string {
	targets := []string{filepath.Dir(configSavePath(cmd))}
	if len(dirs) == 0 {
		if cwd, err := os.Getwd(); err == nil {
			targets = append(targets, cwd)
		}
		return targets
	}
	return append(targets, dirs...)
}

// isConfigEvent reports whether a file event concerns the configuration
// file or a workspace override file.
func isConfigEvent(event fsnotify.Event, configBase string) bool {
	relevant := event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Rename) ||
		event.Op.Has(fsnotify.Remove)
	if !relevant {
		return false
	}
	base := filepath.Base(event.Name)
	return base == configBase || base == workspace.OverrideFileName
}
