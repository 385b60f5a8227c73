package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pta/internal/command"
	"pta/internal/domain"
	"pta/internal/execution"
	"pta/internal/parser"
)

// ErrNoTests is returned when collection or filtering leaves nothing to run.
var ErrNoTests = errors.New("no tests found")

// Lister runs pytest collection and returns the discovered identifiers
type Lister struct {
	builder *command.Builder
	runner  *execution.Runner
}

// NewLister creates a new Lister
func NewLister(builder *command.Builder, runner *execution.Runner) *Lister {
	return &Lister{builder: builder, runner: runner}
}

// List returns every test identifier in collection order.
func (l *Lister) List(ctx context.Context) ([]domain.TestID, error) {
	var ids []domain.TestID
	res, err := l.runner.Run(ctx, l.builder.DiscoverCommandline(), parser.ModeDiscovery, 1, func(rec parser.Record) error {
		ids = append(ids, rec.ID)
		return nil
	})
	if err != nil {
		return ids, fmt.Errorf("collect tests: %w", err)
	}
	if res.ExitCode != 0 {
		// Collection errors still leave the collectable tests listed.
		slog.Warn("pytest collection exited with errors", "code", res.ExitCode, "stderr", res.Stderr)
	}
	return ids, nil
}

// Matching lists the tests whose name matches pattern (all tests when pattern
// is empty). It returns ErrNoTests when none are left.
func (l *Lister) Matching(ctx context.Context, pattern string) ([]domain.TestID, error) {
	ids, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	ids = NewFilter().FilterByName(ids, pattern)
	if len(ids) == 0 {
		return nil, ErrNoTests
	}
	return ids, nil
}
