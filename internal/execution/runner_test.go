package execution

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pta/internal/command"
	"pta/internal/domain"
	"pta/internal/parser"
)

func shell(script string) command.Invocation {
	return command.Invocation{Args: []string{"/bin/sh", "-c", script}}
}

func TestRunner_Run_Execution(t *testing.T) {
	cfg := newTestConfig(t)
	runner := NewRunner(cfg)

	var recs []parser.Record
	res, err := runner.Run(context.Background(), shell(`printf '{"path": "a.py::t1"}\nwarning\n{"status": "F"}\n'; exit 1`),
		parser.ModeExecution, 1, func(rec parser.Record) error {
			recs = append(recs, rec)
			return nil
		})

	require.NoError(t, err, "a failing pytest exit code is not an adapter error")
	assert.Equal(t, 1, res.ExitCode)
	require.Len(t, recs, 2)
	assert.Equal(t, domain.TestID("a.py::t1"), recs[1].Outcome.ID)
	assert.Equal(t, domain.StatusFailed, recs[1].Outcome.Status)
}

func TestRunner_Run_SessionEnvAndDir(t *testing.T) {
	cfg := newTestConfig(t)
	runner := NewRunner(cfg)

	var ids []domain.TestID
	_, err := runner.Run(context.Background(), shell(`echo "$PTA_SESSION"; pwd`), parser.ModeDiscovery, 7,
		func(rec parser.Record) error {
			ids = append(ids, rec.ID)
			return nil
		})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, domain.TestID("7"), ids[0])
	assert.Equal(t, filepath.Base(cfg.ProjectPath), filepath.Base(string(ids[1])))
}

func TestRunner_Run_UnknownStatus(t *testing.T) {
	cfg := newTestConfig(t)
	runner := NewRunner(cfg)

	_, err := runner.Run(context.Background(), shell(`printf '{"path": "a.py::t1"}\n{"status": "?"}\n'; exec sleep 5`),
		parser.ModeExecution, 1, func(parser.Record) error { return nil })

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownStatus))
	var decErr *parser.DecodeError
	assert.True(t, errors.As(err, &decErr))
}

func TestRunner_Run_HandlerError(t *testing.T) {
	cfg := newTestConfig(t)
	runner := NewRunner(cfg)
	stop := errors.New("stop")

	_, err := runner.Run(context.Background(), shell(`echo a.py::t1; echo a.py::t2; exec sleep 5`),
		parser.ModeDiscovery, 1, func(parser.Record) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestRunner_Run_Cancel(t *testing.T) {
	cfg := newTestConfig(t)
	runner := NewRunner(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var seen int
	_, err := runner.Run(ctx, shell(`echo a.py::t1; exec sleep 10`), parser.ModeDiscovery, 1,
		func(parser.Record) error {
			seen++
			return nil
		})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, seen)
}

func TestRunner_Run_MissingProgram(t *testing.T) {
	cfg := newTestConfig(t)
	runner := NewRunner(cfg)

	res, err := runner.Run(context.Background(), command.Invocation{Args: []string{"/does/not/exist"}},
		parser.ModeDiscovery, 1, func(parser.Record) error { return nil })
	assert.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestTailBuffer(t *testing.T) {
	tb := &tailBuffer{max: 4}
	tb.Write([]byte("abc"))
	tb.Write([]byte("defg"))
	assert.Equal(t, "defg", tb.String())
}
