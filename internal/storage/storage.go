package storage

import (
	"fmt"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/google/uuid"

	"pta/internal/config"
	"pta/internal/domain"
)

// Storage persists and loads run reports (e.g. for the failures viewer).
type Storage interface {
	Save(summary *domain.RunSummary) (*domain.TestResultsOutput, error)
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes a previously loaded report back (e.g. after marking failures resolved).
	SaveOutput(output *domain.TestResultsOutput) error
}

// New returns the backend selected by cfg.Store.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.Store {
	case "", config.StoreJSON:
		return NewJSONStorage(cfg), nil
	case config.StoreMySQL:
		return NewMySQLStorage(cfg.DSN())
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// BuildOutput turns a run summary into a report with a fresh run ID. Only
// problem outcomes are kept as details; messages are stripped of ANSI codes.
func BuildOutput(summary *domain.RunSummary) *domain.TestResultsOutput {
	problems := summary.Problems()
	details := make([]domain.TestFailure, 0, len(problems))
	for _, o := range problems {
		f := domain.NewTestFailure(o)
		f.Message = stripansi.Strip(f.Message)
		f.Output = stripansi.Strip(f.Output)
		details = append(details, f)
	}

	counts := make(map[string]int, len(summary.Counts))
	for code, n := range summary.Counts {
		counts[code] = n
	}

	return &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           uuid.NewString(),
			TotalStarted:    len(summary.Started),
			TotalOutcomes:   len(summary.Outcomes),
			FailedTestCases: len(details),
			Counts:          counts,
			Duration:        summary.Duration.String(),
			DurationSeconds: summary.Duration.Seconds(),
			Sessions:        summary.Sessions,
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Details: details,
	}
}
