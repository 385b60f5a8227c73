package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"pta/internal/config"
	"pta/internal/storage"
	"pta/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config *config.Config
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config) *FailuresCommand {
	return &FailuresCommand{config: cfg}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	st, err := storage.New(fc.config)
	if err != nil {
		return err
	}
	if closer, ok := st.(io.Closer); ok {
		defer closer.Close()
	}

	results, err := st.Load()
	if err != nil {
		return fmt.Errorf("no stored report, run tests first: %w", err)
	}
	return ui.NewErrorViewer(st).View(results)
}
