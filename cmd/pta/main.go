package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pta/internal/cli"
	"pta/internal/cli/commands"
	"pta/internal/config"
	"pta/internal/logger"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	logger.Init()

	// Create root command
	rootCmd := &cobra.Command{
		Use:           "pta",
		Short:         "pytest process adapter",
		Long:          `Discover and run pytest tests as child processes and stream every test start and outcome as structured records. Runs can be split across parallel pytest sessions.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, os.Stdout)

	// Register all commands
	cmds.Register(rootCmd, &flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, commands.ErrTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
