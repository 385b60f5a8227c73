package execution

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"pta/internal/config"
	"pta/internal/domain"
)

// fakePytest stands in for "python -c <plugin> [options] [selection]". It
// answers discovery with three tests and execution with one echo and one
// outcome per selected id; ids containing "fail" fail and "bad" yields an
// unknown code.
const fakePytest = `#!/bin/sh
script="$2"
shift 2
ids=""
for a in "$@"; do
	case "$a" in
	-p|no:*|--*) ;;
	*) ids="$ids $a" ;;
	esac
done
case "$script" in
*pytest_collection_finish*)
	printf 'a.py::t1\n\nb.py::t2\nb.py::t3\n'
	exit 0
	;;
esac
[ -z "$ids" ] && ids="a.py::t1 b.py::t2 b.py::t3"
code=0
for id in $ids; do
	case "$id" in
	*fail*) st=F; code=1 ;;
	*bad*) st=Q ;;
	*) st=OK ;;
	esac
	printf '{"path": "%s"}\nstray output\n{"status": "%s", "duration": 0.01}\n' "$id" "$st"
done
echo "session $PTA_SESSION done" >&2
exit $code
`

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake pytest needs /bin/sh")
	}
	dir := t.TempDir()
	python := filepath.Join(dir, "python")
	if err := os.WriteFile(python, []byte(fakePytest), 0755); err != nil {
		t.Fatalf("failed to write fake python: %v", err)
	}
	cfg := config.New()
	cfg.ProjectPath = dir
	cfg.Python = python
	return cfg
}

type stubDiscoverer struct {
	ids   []domain.TestID
	err   error
	calls int
}

func (s *stubDiscoverer) List(ctx context.Context) ([]domain.TestID, error) {
	s.calls++
	return s.ids, s.err
}

type recordingProgress struct {
	total    int
	updates  int
	finished bool
}

func (p *recordingProgress) Start(total int)           { p.total = total }
func (p *recordingProgress) Update(passed, failed int) { p.updates++ }
func (p *recordingProgress) Finish()                   { p.finished = true }
