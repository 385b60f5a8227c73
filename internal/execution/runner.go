package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"time"

	"pta/internal/command"
	"pta/internal/config"
	"pta/internal/parser"
)

// SessionEnv is set to the 1-based session number in every pytest process,
// so fixtures can pick per-session resources (databases, ports).
const SessionEnv = "PTA_SESSION"

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren.
const waitDelay = 2 * time.Second

// maxStderr bounds how much pytest stderr is kept per session.
const maxStderr = 64 << 10

// Handler receives each decoded record. Returning an error stops the session.
type Handler func(rec parser.Record) error

// SessionResult describes how a pytest process ended
type SessionResult struct {
	ExitCode int    // -1 if the process did not exit normally
	Stderr   string // tail of stderr, for diagnostics
}

// Runner starts one pytest process and decodes its stdout
type Runner struct {
	config *config.Config
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// Run executes inv in the project directory and calls handle for every record
// in arrival order. A non-zero exit code is not an error: pytest exits 1 when
// tests fail. Cancelling ctx kills the process; the records already handled
// stay valid and ctx.Err() is returned.
func (r *Runner) Run(ctx context.Context, inv command.Invocation, mode parser.Mode, session int, handle Handler) (SessionResult, error) {
	res := SessionResult{ExitCode: -1}

	env, err := r.config.Environ()
	if err != nil {
		return res, err
	}

	cmd := exec.CommandContext(ctx, inv.Program(), inv.Arguments()...)
	cmd.Dir = r.config.ProjectPath
	cmd.Env = append(env, SessionEnv+"="+strconv.Itoa(session))

	stderr := &tailBuffer{max: maxStderr}
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return res, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return res, fmt.Errorf("start %s: %w", inv.Program(), err)
	}
	slog.Debug("pytest started", "session", session, "mode", mode, "pid", cmd.Process.Pid, "args", len(inv.Args))

	// Unblock the reader on cancellation even if a grandchild keeps stdout open.
	stop := context.AfterFunc(ctx, func() { _ = stdout.Close() })
	defer stop()

	streamErr := consume(parser.NewDecoder(stdout, mode), handle)
	if streamErr != nil {
		// Stop reading; kill so Wait does not block on a full pipe.
		_ = cmd.Process.Kill()
	}

	waitErr := cmd.Wait()
	res.Stderr = stderr.String()

	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	if streamErr != nil {
		return res, streamErr
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		res.ExitCode = 0
	case errors.As(waitErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, fmt.Errorf("wait for %s: %w", inv.Program(), waitErr)
	}
	slog.Debug("pytest exited", "session", session, "code", res.ExitCode)
	return res, nil
}

func consume(dec *parser.Decoder, handle Handler) error {
	for {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := handle(rec); err != nil {
			return err
		}
	}
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - t.max; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}
