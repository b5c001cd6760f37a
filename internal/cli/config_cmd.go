package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/instrsync/instrsync/internal/config"
	"github.com/instrsync/instrsync/internal/model"
	"github.com/instrsync/instrsync/internal/ui"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the instrsync configuration file",
		Commands: []*cli.Command{
			configShowCommand(),
			configInitCommand(),
			configPathCommand(),
		},
	}
}

func configShowCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Display the effective configuration",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return runConfigShow(cmd)
		},
	}
}

func configInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a starter configuration file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing configuration file",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return runConfigInit(cmd)
		},
	}
}

func configPathCommand() *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Print the configuration file path",
		Action: func(_ context.Context, cmd *cli.Command) error {
			fmt.Println(configSavePath(cmd))
			return nil
		},
	}
}

func runConfigShow(cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	path := configSavePath(cmd)
	if _, statErr := os.Stat(path); statErr != nil {
		fmt.Printf("# No configuration file at %s, showing defaults\n", path)
	} else {
		fmt.Printf("# %s\n", path)
	}
	fmt.Print(string(data))
	return nil
}

func runConfigInit(cmd *cli.Command) error {
	path := configSavePath(cmd)
	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", path)
	}

	cfg := config.Default()
	disabled := false
	cfg.Sources = []model.InstructionSource{
		{
			Language: "go",
			URL:      "https://raw.githubusercontent.com/your-org/standards/main/go.md",
			Enabled:  &disabled,
		},
	}

	if err := cfg.SaveToPath(path); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	fmt.Println(ui.StatusSuccess(fmt.Sprintf("Wrote %s", path)))
	fmt.Println("Edit it to add your instruction sources, then run 'instrsync sync'.")
	return nil
}
