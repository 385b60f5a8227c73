package execution

import (
	"context"

	"pta/internal/domain"
)

// Executor runs a selection and reports what happened
type Executor interface {
	Execute(ctx context.Context, selection []string) (*domain.RunSummary, error)
}

// Discoverer lists every test the project would run
type Discoverer interface {
	List(ctx context.Context) ([]domain.TestID, error)
}

// Progress receives updates while sessions run
type Progress interface {
	// Start is called once; total is -1 when the number of tests is unknown.
	Start(total int)
	Update(passed, failed int)
	Finish()
}
