package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pta/internal/command"
	"pta/internal/config"
	"pta/internal/domain"
	"pta/internal/parser"
)

// Observer sees every record of every session, serialized, in arrival order.
type Observer func(session int, rec parser.Record)

// WorkerPool runs a selection across one or more independent pytest sessions.
// Each session has its own process and decoder; the pool only merges results.
type WorkerPool struct {
	config     *config.Config
	builder    *command.Builder
	runner     *Runner
	scheduler  Scheduler
	discoverer Discoverer
	progress   Progress
	observer   Observer
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, builder *command.Builder, runner *Runner, scheduler Scheduler, discoverer Discoverer) *WorkerPool {
	return &WorkerPool{
		config:     cfg,
		builder:    builder,
		runner:     runner,
		scheduler:  scheduler,
		discoverer: discoverer,
	}
}

// SetProgress sets the progress reporter for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// SetObserver registers a callback for every decoded record.
func (wp *WorkerPool) SetObserver(observer Observer) {
	wp.observer = observer
}

// Execute runs the selection to completion.
func (wp *WorkerPool) Execute(ctx context.Context, selection []string) (*domain.RunSummary, error) {
	return wp.ExecuteWithOptions(ctx, selection, false)
}

// ExecuteWithOptions runs the selection, optionally stopping every session
// after the first failed or errored outcome. The returned summary holds
// whatever was decoded, even when an error is returned.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, selection []string, failFast bool) (*domain.RunSummary, error) {
	summary := domain.NewRunSummary()

	shards, total, err := wp.plan(ctx, selection)
	if err != nil {
		return summary, err
	}
	if len(shards) == 0 {
		return summary, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if wp.progress != nil {
		wp.progress.Start(total)
	}

	var (
		mu       sync.Mutex
		firstErr error
		stopped  bool
		passed   int
		failed   int
	)
	startTime := time.Now()
	sessions := make([]*domain.RunSummary, len(shards))

	var wg sync.WaitGroup
	for i, shard := range shards {
		own := domain.NewRunSummary()
		own.Sessions = 1
		sessions[i] = own

		wg.Add(1)
		go func(session int, shard []string, own *domain.RunSummary) {
			defer wg.Done()

			inv := wp.builder.ExecuteCommandline(shard)
			res, err := wp.runner.Run(runCtx, inv, parser.ModeExecution, session, func(rec parser.Record) error {
				mu.Lock()
				defer mu.Unlock()

				switch rec.Kind {
				case parser.KindEcho:
					own.AddStarted(rec.ID)
				case parser.KindOutcome:
					own.AddOutcome(rec.Outcome)
					if rec.Outcome.Status.IsProblem() {
						failed++
						if failFast && !stopped {
							stopped = true
							cancel()
						}
					} else {
						passed++
					}
					if wp.progress != nil {
						wp.progress.Update(passed, failed)
					}
				}
				if wp.observer != nil {
					wp.observer(session, rec)
				}
				return nil
			})

			if err == nil && res.ExitCode != 0 && len(own.Outcomes) == 0 {
				slog.Warn("pytest exited without running tests", "session", session, "code", res.ExitCode, "stderr", res.Stderr)
			}

			mu.Lock()
			defer mu.Unlock()
			if err == nil || firstErr != nil {
				return
			}
			if stopped && errors.Is(err, context.Canceled) {
				return
			}
			firstErr = fmt.Errorf("session %d: %w", session, err)
			cancel()
		}(i+1, shard, own)
	}
	wg.Wait()

	if wp.progress != nil {
		wp.progress.Finish()
	}

	for _, own := range sessions {
		summary.Merge(own)
	}
	summary.Duration = time.Since(startTime)
	summary.Interrupted = stopped
	return summary, firstErr
}

// plan splits the selection into per-session selections. With a single
// session the selection is passed through untouched, including the empty
// "run everything" selection. total is the expected number of tests, or -1.
func (wp *WorkerPool) plan(ctx context.Context, selection []string) ([][]string, int, error) {
	sessions := wp.config.Processors
	if sessions <= 0 {
		sessions = 1
	}

	entries := command.Resolve(selection)
	total := countExact(entries)

	if len(entries) == 0 {
		ids, err := wp.discoverer.List(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("discover tests: %w", err)
		}
		if len(ids) == 0 {
			return nil, 0, nil
		}
		total = len(ids)
		if sessions == 1 {
			return [][]string{nil}, total, nil
		}
		entries = domain.SelectionOf(ids)
	}

	if sessions == 1 {
		return [][]string{entries}, total, nil
	}
	return wp.scheduler.Schedule(entries, sessions), total, nil
}

// countExact returns the number of entries if all of them name single tests,
// or -1 when files or directories make the count unknown up front.
func countExact(entries []string) int {
	if len(entries) == 0 {
		return -1
	}
	for _, e := range entries {
		if !domain.TestID(e).HasName() {
			return -1
		}
	}
	return len(entries)
}
