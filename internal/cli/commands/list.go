package commands

import (
	"errors"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"pta/internal/config"
	"pta/internal/discovery"
	"pta/internal/storage"
	"pta/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	lister    *discovery.Lister
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	lister *discovery.Lister,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		lister:    lister,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	ids, err := lc.lister.Matching(cmd.Context(), lc.config.Flags.NameFilter)
	if errors.Is(err, discovery.ErrNoTests) {
		color.Yellow("No tests found")
		return nil
	}
	if err != nil {
		return err
	}

	lc.formatter.PrintTestList(ids, lc.config.Flags.Tree, lc.lastFailures())
	return nil
}

// lastFailures returns the identifiers that failed in the last stored report,
// or nil if there is none.
func (lc *ListCommand) lastFailures() map[string]struct{} {
	st, err := storage.New(lc.config)
	if err != nil {
		slog.Debug("no report storage", "error", err)
		return nil
	}
	if closer, ok := st.(io.Closer); ok {
		defer closer.Close()
	}
	output, err := st.Load()
	if err != nil {
		slog.Debug("no previous report", "error", err)
		return nil
	}
	failed := make(map[string]struct{}, len(output.Details))
	for _, f := range output.Details {
		if !f.Resolved {
			failed[f.TestID] = struct{}{}
		}
	}
	return failed
}
