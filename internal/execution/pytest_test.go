package execution

import (
	"context"
	"os/exec"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pta/internal/command"
	"pta/internal/config"
	"pta/internal/domain"
	"pta/internal/parser"
)

var sampleTests = []string{
	"test_root.py::test_at_root",
	"tests/submodule/subsubmodule/test_deep_nesting.py::test_stuff",
	"tests/submodule/subsubmodule/test_deep_nesting.py::test_things",
	"tests/submodule/test_more_nesting.py::test_stuff",
	"tests/submodule/test_more_nesting.py::test_things",
	"tests/submodule/test_nesting.py::test_stuff",
	"tests/submodule/test_nesting.py::test_things",
	"tests/test_outcomes.py::test_assertion_item",
	"tests/test_outcomes.py::test_error_item",
	"tests/test_outcomes.py::test_failing_item",
	"tests/test_outcomes.py::test_passing_item",
	"tests/test_outcomes.py::test_skipped_item",
	"tests/test_outcomes.py::test_upassed_item",
	"tests/test_outcomes.py::test_upassed_strict_item",
	"tests/test_outcomes.py::test_xfailing_item",
	"tests/test_unusual.py::test_item_output",
	"tests/test_unusual.py::test_item_with_protocol_lookalike_output",
	"tests/test_unusual.py::test_slow_0",
	"tests/test_unusual.py::test_slow_1",
	"tests/test_unusual.py::test_slow_2",
	"tests/test_unusual.py::test_slow_3",
	"tests/test_unusual.py::test_slow_4",
	"tests/test_unusual.py::test_slow_5",
	"tests/test_unusual.py::test_slow_6",
	"tests/test_unusual.py::test_slow_7",
	"tests/test_unusual.py::test_slow_8",
	"tests/test_unusual.py::test_slow_9",
}

// pytestSample returns a config and builder for testdata/sample, skipping the
// test when no interpreter with pytest is available.
func pytestSample(t *testing.T) (*config.Config, *command.Builder) {
	t.Helper()
	if testing.Short() {
		t.Skip("runs pytest")
	}

	var python string
	for _, name := range []string{"python3", "python"} {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		if exec.Command(path, "-c", "import pytest").Run() == nil {
			python = path
			break
		}
	}
	if python == "" {
		t.Skip("pytest is not installed")
	}

	dir, err := filepath.Abs(filepath.Join("testdata", "sample"))
	require.NoError(t, err)

	cfg := config.New()
	cfg.ProjectPath = dir
	cfg.Python = python
	return cfg, command.NewBuilder(command.WithPython(python))
}

func discoverSample(t *testing.T, cfg *config.Config, builder *command.Builder) []string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var found []string
	_, err := NewRunner(cfg).Run(ctx, builder.DiscoverCommandline(), parser.ModeDiscovery, 1, func(rec parser.Record) error {
		found = append(found, rec.ID.String())
		return nil
	})
	require.NoError(t, err)
	sort.Strings(found)
	return found
}

// executeSample returns the echoed identifiers (sorted, duplicates kept) and
// the outcome counts.
func executeSample(t *testing.T, cfg *config.Config, builder *command.Builder, selection ...string) ([]string, map[string]int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	summary := domain.NewRunSummary()
	_, err := NewRunner(cfg).Run(ctx, builder.ExecuteCommandline(selection), parser.ModeExecution, 1, func(rec parser.Record) error {
		switch rec.Kind {
		case parser.KindEcho:
			summary.AddStarted(rec.ID)
		case parser.KindOutcome:
			summary.AddOutcome(rec.Outcome)
		}
		return nil
	})
	require.NoError(t, err)

	var found []string
	for _, id := range summary.Started {
		found = append(found, id.String())
	}
	sort.Strings(found)
	return found, summary.Counts
}

func TestPytest_Discovery(t *testing.T) {
	cfg, builder := pytestSample(t)

	first := discoverSample(t, cfg, builder)
	assert.Equal(t, sampleTests, first)

	second := discoverSample(t, cfg, builder)
	assert.Equal(t, first, second, "discovery must be repeatable")
}

func TestPytest_RunAll(t *testing.T) {
	cfg, builder := pytestSample(t)

	found, counts := executeSample(t, cfg, builder)
	assert.Equal(t, sampleTests, found)
	assert.Equal(t, map[string]int{"OK": 20, "F": 2, "E": 1, "x": 1, "u": 1, "U": 1, "s": 1}, counts)
}

func TestPytest_Selections(t *testing.T) {
	cfg, builder := pytestSample(t)

	tests := []struct {
		name      string
		selection []string
		found     []string
	}{
		{
			name:      "single test",
			selection: []string{"tests/submodule/test_nesting.py::test_stuff"},
			found:     []string{"tests/submodule/test_nesting.py::test_stuff"},
		},
		{
			name: "multiple tests",
			selection: []string{
				"tests/submodule/test_nesting.py::test_stuff",
				"tests/submodule/test_nesting.py::test_things",
			},
			found: []string{
				"tests/submodule/test_nesting.py::test_stuff",
				"tests/submodule/test_nesting.py::test_things",
			},
		},
		{
			name:      "file",
			selection: []string{"tests/submodule/test_nesting.py"},
			found: []string{
				"tests/submodule/test_nesting.py::test_stuff",
				"tests/submodule/test_nesting.py::test_things",
			},
		},
		{
			name:      "directory",
			selection: []string{"tests/submodule"},
			found: []string{
				"tests/submodule/subsubmodule/test_deep_nesting.py::test_stuff",
				"tests/submodule/subsubmodule/test_deep_nesting.py::test_things",
				"tests/submodule/test_more_nesting.py::test_stuff",
				"tests/submodule/test_more_nesting.py::test_things",
				"tests/submodule/test_nesting.py::test_stuff",
				"tests/submodule/test_nesting.py::test_things",
			},
		},
		{
			name: "file and test elsewhere",
			selection: []string{
				"tests/submodule/subsubmodule/test_deep_nesting.py",
				"tests/submodule/test_nesting.py::test_stuff",
			},
			found: []string{
				"tests/submodule/subsubmodule/test_deep_nesting.py::test_stuff",
				"tests/submodule/subsubmodule/test_deep_nesting.py::test_things",
				"tests/submodule/test_nesting.py::test_stuff",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, counts := executeSample(t, cfg, builder, tt.selection...)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, map[string]int{"OK": len(tt.found)}, counts)
		})
	}
}

// pytest does not merge a file with a test inside that same file; the test
// runs twice. The adapter forwards both entries and reports both runs.
func TestPytest_OverlapRunsTwice(t *testing.T) {
	cfg, builder := pytestSample(t)

	selection := []string{
		"tests/submodule/test_nesting.py",
		"tests/submodule/test_nesting.py::test_things",
	}
	require.Len(t, command.Overlaps(selection), 1)

	found, counts := executeSample(t, cfg, builder, selection...)
	assert.Equal(t, []string{
		"tests/submodule/test_nesting.py::test_stuff",
		"tests/submodule/test_nesting.py::test_things",
		"tests/submodule/test_nesting.py::test_things",
	}, found)
	assert.Equal(t, map[string]int{"OK": 3}, counts)
}
