package commands

import (
	"io"

	"pta/internal/cli"
	"pta/internal/command"
	"pta/internal/config"
	"pta/internal/discovery"
	"pta/internal/execution"
	"pta/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	config      *config.Config
	Run         *RunCommand
	List        *ListCommand
	Commandline *CommandlineCommand
	Failures    *FailuresCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config, out io.Writer) *Commands {
	c := &Commands{config: cfg}
	c.wire(out)
	return c
}

// wire builds the command dependencies from the current config. It runs
// again once flags and the config file have been loaded.
func (c *Commands) wire(out io.Writer) {
	cfg := c.config
	builder := command.NewBuilder(
		command.WithPython(cfg.Python),
		command.WithPytestArgs(cfg.PytestArgs...),
	)
	runner := execution.NewRunner(cfg)
	lister := discovery.NewLister(builder, runner)
	scheduler := execution.NewRoundRobinScheduler()
	executor := execution.NewWorkerPool(cfg, builder, runner, scheduler, lister)
	formatter := ui.NewFormatter(out)

	c.Run = NewRunCommand(cfg, lister, executor, formatter, out)
	c.List = NewListCommand(cfg, lister, formatter)
	c.Commandline = NewCommandlineCommand(cfg, builder, out)
	c.Failures = NewFailuresCommand(cfg)
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ProjectPath, "project", "", "Project root pytest runs in (default: current directory)")
	pf.StringVar(&flags.Python, "python", "", "Python interpreter with pytest installed (default: python)")
	pf.StringVar(&flags.ConfigFile, "config", "", "Config file, relative to the project (default: pta.yaml)")
	pf.StringVar(&flags.Store, "store", "", "Where run reports are kept: json or mysql (DSN from "+config.MySQLDSNEnv+")")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		*c.config = *loaded
		c.wire(cmd.OutOrStdout())
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [selection...]",
		Short: "Run pytest tests",
		Long: "Execute the selected tests (identifiers, files or directories, all tests if none) " +
			"in one or more pytest sessions and report every outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run.Execute(cmd, args)
		},
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of parallel pytest sessions (default: from config, or 1)")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Run only tests matching a name pattern (supports wildcards, e.g. 'test_api*' or '*login*')")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop every session after the first failed or errored test")
	runCmd.Flags().BoolVar(&flags.JSON, "json", false, "Write the event stream as JSON lines to stdout instead of the progress bar and table")
	runCmd.Flags().BoolVar(&flags.NoReport, "no-report", false, "Do not store a report of this run")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests",
		Long:  "Collect tests with pytest and list their identifiers without executing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.List.Execute(cmd, args)
		},
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g. 'test_api*' or '*login*')")
	listCmd.Flags().BoolVar(&flags.Tree, "tree", false, "Group identifiers by file")
	rootCmd.AddCommand(listCmd)

	// Commandline command
	commandlineCmd := &cobra.Command{
		Use:   "commandline",
		Short: "Print the pytest commandline for discovery or execution",
		Long:  "Print the argument vector and working directory a front end should use to run pytest, as JSON",
	}
	commandlineCmd.AddCommand(&cobra.Command{
		Use:   "discover",
		Short: "Print the discovery commandline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Commandline.Discover(cmd, args)
		},
	})
	commandlineCmd.AddCommand(&cobra.Command{
		Use:   "execute [selection...]",
		Short: "Print the execution commandline for a selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Commandline.Execute(cmd, args)
		},
	})
	rootCmd.AddCommand(commandlineCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Aliases: []string{"faills"},
		Short:   "View test failures interactively",
		Long:    "Display failed and errored tests from the last stored report in an interactive viewer",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Failures.Execute(cmd, args)
		},
	}
	rootCmd.AddCommand(failuresCmd)
}
