package commands

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"pta/internal/command"
	"pta/internal/config"
)

// Commandline is the JSON printed by the commandline command.
type Commandline struct {
	Dir  string   `json:"dir"`
	Args []string `json:"args"`
}

// CommandlineCommand prints pytest commandlines for front ends that spawn
// pytest themselves.
type CommandlineCommand struct {
	config  *config.Config
	builder *command.Builder
	out     io.Writer
}

// NewCommandlineCommand creates a new CommandlineCommand
func NewCommandlineCommand(cfg *config.Config, builder *command.Builder, out io.Writer) *CommandlineCommand {
	return &CommandlineCommand{config: cfg, builder: builder, out: out}
}

// Discover prints the discovery commandline.
func (cc *CommandlineCommand) Discover(cmd *cobra.Command, args []string) error {
	return cc.print(cc.builder.DiscoverCommandline())
}

// Execute prints the execution commandline for the selection in args.
func (cc *CommandlineCommand) Execute(cmd *cobra.Command, args []string) error {
	return cc.print(cc.builder.ExecuteCommandline(args))
}

func (cc *CommandlineCommand) print(inv command.Invocation) error {
	dir, err := filepath.Abs(cc.config.ProjectPath)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cc.out)
	enc.SetIndent("", "  ")
	return enc.Encode(Commandline{Dir: dir, Args: inv.Args})
}
