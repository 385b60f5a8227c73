package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pta/internal/cli"
	"pta/internal/config"
	"pta/internal/ui"
)

// fakePython answers discovery with three tests and execution with an echo
// and an outcome per selected id; ids containing "fail" fail.
const fakePython = `#!/bin/sh
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
	printf 'tests/test_api.py::test_get\ntests/test_api.py::test_fail_post\ntests/test_db.py::test_query\n'
	exit 0
	;;
esac
[ -z "$ids" ] && ids="tests/test_api.py::test_get tests/test_api.py::test_fail_post tests/test_db.py::test_query"
code=0
for id in $ids; do
	case "$id" in
	*fail*) st=F; code=1 ;;
	*) st=OK ;;
	esac
	printf '{"path": "%s"}\n{"status": "%s", "duration": 0.5, "error": ""}\n' "$id" "$st"
done
exit $code
`

func init() {
	color.NoColor = true
}

type harness struct {
	project string
	python  string
	out     bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake python needs /bin/sh")
	}
	h := &harness{project: t.TempDir()}
	h.python = filepath.Join(t.TempDir(), "python")
	require.NoError(t, os.WriteFile(h.python, []byte(fakePython), 0755))
	return h
}

func (h *harness) run(args ...string) error {
	h.out.Reset()
	root := &cobra.Command{Use: "pta", SilenceUsage: true, SilenceErrors: true}
	root.SetOut(&h.out)
	root.SetErr(&h.out)

	var flags cli.Flags
	NewCommands(config.New(), &h.out).Register(root, &flags)

	root.SetArgs(append([]string{"--project", h.project, "--python", h.python}, args...))
	return root.ExecuteContext(context.Background())
}

func TestCommandline_Discover(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("commandline", "discover"))

	var got Commandline
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	assert.Equal(t, h.project, got.Dir)
	require.NotEmpty(t, got.Args)
	assert.Equal(t, h.python, got.Args[0])
	assert.Equal(t, "-c", got.Args[1])
	assert.Contains(t, got.Args, "--collect-only")
}

func TestCommandline_ExecuteKeepsSelection(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.project, "pta.yaml"), []byte("pytest_args: [\"-x\"]\n"), 0644))

	require.NoError(t, h.run("commandline", "execute", "tests/test_api.py", "tests/test_api.py::test_get"))

	var got Commandline
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	n := len(got.Args)
	require.Greater(t, n, 3)
	assert.Equal(t, []string{"-x", "tests/test_api.py", "tests/test_api.py::test_get"}, got.Args[n-3:])
	assert.NotContains(t, got.Args, "--collect-only")
}

func TestList(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("list"))
	assert.Equal(t, "Found 3 test(s):\n"+
		"tests/test_api.py::test_get\n"+
		"tests/test_api.py::test_fail_post\n"+
		"tests/test_db.py::test_query\n", h.out.String())
}

func TestList_TreeFiltered(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("list", "--tree", "-f", "test_api*"))
	assert.Equal(t, "Found 2 test(s) in 1 file(s):\n"+
		"└── tests/test_api.py\n"+
		"    ├── test_get\n"+
		"    └── test_fail_post\n", h.out.String())
}

func TestRun_JSONEvents(t *testing.T) {
	h := newHarness(t)
	err := h.run("run", "--json", "--no-report", "tests/test_api.py::test_get", "tests/test_api.py::test_fail_post")
	assert.ErrorIs(t, err, ErrTestsFailed)

	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 4)

	var events []ui.Event
	for _, line := range lines {
		var ev ui.Event
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		events = append(events, ev)
	}
	assert.Equal(t, ui.EventStarted, events[0].Event)
	assert.Equal(t, "tests/test_api.py::test_get", events[0].ID)
	assert.Equal(t, "OK", events[1].Status)
	assert.Equal(t, "tests/test_api.py::test_fail_post", events[3].ID)
	assert.Equal(t, "F", events[3].Status)

	_, statErr := os.Stat(filepath.Join(h.project, config.DefaultOutputJSONDir, config.DefaultOutputJSONFile))
	assert.True(t, os.IsNotExist(statErr), "--no-report must not write a report")
}

func TestRun_StoresReportAndListMarksFailures(t *testing.T) {
	h := newHarness(t)
	err := h.run("run", "-p", "2")
	assert.ErrorIs(t, err, ErrTestsFailed)
	assert.Contains(t, h.out.String(), "✗ 1 test case(s) failed")
	assert.Contains(t, h.out.String(), "test_fail_post [F]")

	data, err := os.ReadFile(filepath.Join(h.project, config.DefaultOutputJSONDir, config.DefaultOutputJSONFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"failed_test_cases": 1`)
	assert.Contains(t, string(data), `"sessions": 2`)

	require.NoError(t, h.run("list"))
	assert.Contains(t, h.out.String(), "tests/test_api.py::test_fail_post [F]\n")
	assert.Contains(t, h.out.String(), "tests/test_api.py::test_get\n")
}

func TestRun_AllPassed(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("run", "--filter", "test_db*"))
	assert.Contains(t, h.out.String(), "✓ All tests passed!")
}

func TestRun_FilterWithSelection(t *testing.T) {
	h := newHarness(t)
	err := h.run("run", "-f", "*api*", "tests/test_db.py")
	assert.ErrorContains(t, err, "--filter cannot be combined")
}

func TestInvalidConfig(t *testing.T) {
	h := newHarness(t)
	err := h.run("--store", "sqlite", "list")
	assert.ErrorContains(t, err, "unknown store")
}

func TestFailures_NoReport(t *testing.T) {
	h := newHarness(t)
	err := h.run("failures")
	assert.ErrorContains(t, err, "no stored report")
}
