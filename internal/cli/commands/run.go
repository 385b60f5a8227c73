package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"pta/internal/command"
	"pta/internal/config"
	"pta/internal/discovery"
	"pta/internal/domain"
	"pta/internal/execution"
	"pta/internal/storage"
	"pta/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ErrTestsFailed is returned by run when at least one test failed or errored,
// so the process exits non-zero.
var ErrTestsFailed = errors.New("tests failed")

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	lister    *discovery.Lister
	executor  *execution.WorkerPool
	formatter *ui.Formatter
	out       io.Writer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	lister *discovery.Lister,
	executor *execution.WorkerPool,
	formatter *ui.Formatter,
	out io.Writer,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		lister:    lister,
		executor:  executor,
		formatter: formatter,
		out:       out,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := rc.config.Flags
	selection := args

	for _, o := range command.Overlaps(selection) {
		slog.Warn("selection entries overlap, pytest runs the inner tests twice", "outer", o.Outer, "inner", o.Inner)
	}

	if flags.NameFilter != "" {
		if len(selection) > 0 {
			return errors.New("--filter cannot be combined with a selection")
		}
		ids, err := rc.lister.Matching(ctx, flags.NameFilter)
		if errors.Is(err, discovery.ErrNoTests) {
			color.Yellow("No tests to execute")
			return nil
		}
		if err != nil {
			return err
		}
		selection = domain.SelectionOf(ids)
	}

	if flags.JSON {
		rc.executor.SetObserver(ui.NewEventWriter(rc.out).Observe)
	} else {
		rc.executor.SetProgress(ui.NewProgressBar())
	}

	summary, err := rc.executor.ExecuteWithOptions(ctx, selection, flags.FailFast)
	if err != nil {
		return err
	}
	if len(summary.Started) == 0 && len(summary.Outcomes) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	output, err := rc.report(summary)
	if err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	if !flags.JSON {
		rc.formatter.PrintStats(output)
		if summary.Interrupted {
			color.Yellow("Stopped after the first failure (--fail-fast)")
		}
	}

	if problems := len(summary.Problems()); problems > 0 {
		return fmt.Errorf("%w: %d of %d", ErrTestsFailed, problems, len(summary.Outcomes))
	}
	return nil
}

// report stores the run unless --no-report was given.
func (rc *RunCommand) report(summary *domain.RunSummary) (*domain.TestResultsOutput, error) {
	if rc.config.Flags.NoReport {
		return storage.BuildOutput(summary), nil
	}
	st, err := storage.New(rc.config)
	if err != nil {
		return nil, err
	}
	if closer, ok := st.(io.Closer); ok {
		defer closer.Close()
	}
	return st.Save(summary)
}
