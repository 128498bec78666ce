package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"weblog-analytics/internal/app"
	"weblog-analytics/internal/shared/configs"

	cli "github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "analyzer",
		Usage: "web server log analysis batch",
		Commands: []*cli.Command{
			runCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "analyzer: %v\n", err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:  "run",
		Usage: "run one analysis job over the configured input",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to the YAML config file",
				Value:       "./configs/configs.yml",
				Destination: &configPath,
			},
		},
		Action: func(cliCtx *cli.Context) error {
			return runAction(cliCtx.Context, configPath)
		},
	}
}

func runAction(ctx context.Context, configPath string) error {
	cfg, err := configs.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	// SIGINT or SIGTERM cancels the run between phases
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := application.Run(ctx); err != nil {
		return fmt.Errorf("job failed: %w", err)
	}
	return nil
}
