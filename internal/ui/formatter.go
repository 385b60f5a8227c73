package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"pta/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// PrintStats prints the statistics table of a stored report, followed by a
// tree of the failures if there are any.
func (f *Formatter) PrintStats(output *domain.TestResultsOutput) {
	meta := output.Meta

	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                    Test Execution Statistics                  ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)

	const sep = "├─────────────────────────────────┼─────────────────────────────┤"
	row := func(c *color.Color, label string, value any) {
		fmt.Fprintf(f.out, "│ %-31s │ ", label)
		c.Fprintf(f.out, "%-27v", value)
		fmt.Fprintln(f.out, " │")
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	row(white, "Run", shortRunID(meta.RunID))
	fmt.Fprintln(f.out, sep)
	row(white, "Tests Started", meta.TotalStarted)
	fmt.Fprintln(f.out, sep)
	row(white, "Tests Finished", meta.TotalOutcomes)
	for _, st := range domain.Statuses {
		n := meta.Counts[st.Code()]
		if n == 0 {
			continue
		}
		fmt.Fprintln(f.out, sep)
		row(statusColor(st), fmt.Sprintf("%s (%s)", capitalize(st.String()), st.Code()), n)
	}
	fmt.Fprintln(f.out, sep)
	row(red, "Failed Test Cases", meta.FailedTestCases)
	fmt.Fprintln(f.out, sep)
	row(white, "Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds))
	fmt.Fprintln(f.out, sep)
	row(white, "Sessions", meta.Sessions)
	fmt.Fprintln(f.out, sep)
	row(white, "Timestamp", meta.Timestamp)
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.FailedTestCases == 0 {
		green.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	red.Fprintf(f.out, "✗ %d test case(s) failed\n", meta.FailedTestCases)
	fmt.Fprintln(f.out)
	f.printFailedTestsTree(output.Details)
}

// TreeNode represents a node in the file tree structure
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Failures []domain.TestFailure
	IsFile   bool
}

// printFailedTestsTree prints failures grouped under their directories and files.
func (f *Formatter) printFailedTestsTree(failures []domain.TestFailure) {
	root := &TreeNode{Children: make(map[string]*TreeNode)}
	for _, failure := range failures {
		parts := strings.Split(strings.TrimPrefix(failure.FilePath, "./"), "/")
		current := root
		for i, part := range parts {
			if part == "" {
				continue
			}
			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
					IsFile:   i == len(parts)-1,
				}
			}
			current = current.Children[part]
		}
		current.Failures = append(current.Failures, failure)
	}
	f.printTreeNode(root, "")
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	keys := make([]string, 0, len(node.Children))
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		last := i == len(keys)-1
		connector, childPrefix := "├── ", prefix+"│   "
		if last {
			connector, childPrefix = "└── ", prefix+"    "
		}

		if child.IsFile {
			yellow.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
			for j, failure := range child.Failures {
				caseConnector := "├── "
				if j == len(child.Failures)-1 {
					caseConnector = "└── "
				}
				fmt.Fprintf(f.out, "%s%s", childPrefix, caseConnector)
				red.Fprintf(f.out, "%s [%s]\n", failure.TestName, failure.Status)
			}
		} else {
			cyan.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
		}
		f.printTreeNode(child, childPrefix)
	}
}

// PrintTestList prints discovered identifiers, either flat or grouped by file.
// failed is optional; identifiers in it are marked with [F] (from the last report).
func (f *Formatter) PrintTestList(ids []domain.TestID, tree bool, failed map[string]struct{}) {
	marker := func(id string) string {
		if _, ok := failed[id]; ok {
			return " " + red.Sprint("[F]")
		}
		return ""
	}

	if !tree {
		green.Fprintf(f.out, "Found %d test(s):\n", len(ids))
		for _, id := range ids {
			fmt.Fprintf(f.out, "%s%s\n", id, marker(id.String()))
		}
		return
	}

	var files []string
	byFile := make(map[string][]domain.TestID)
	for _, id := range ids {
		file := id.File()
		if _, ok := byFile[file]; !ok {
			files = append(files, file)
		}
		byFile[file] = append(byFile[file], id)
	}

	green.Fprintf(f.out, "Found %d test(s) in %d file(s):\n", len(ids), len(files))
	for i, file := range files {
		lastFile := i == len(files)-1
		connector, childPrefix := "├── ", "│   "
		if lastFile {
			connector, childPrefix = "└── ", "    "
		}
		cyan.Fprintf(f.out, "%s%s\n", connector, file)

		cases := byFile[file]
		for j, id := range cases {
			caseConnector := "├── "
			if j == len(cases)-1 {
				caseConnector = "└── "
			}
			name := id.Name()
			if name == "" {
				name = id.String()
			}
			fmt.Fprintf(f.out, "%s%s%s%s\n", childPrefix, caseConnector, yellow.Sprint(name), marker(id.String()))
		}
	}
}

func statusColor(st domain.Status) *color.Color {
	switch {
	case st == domain.StatusPassed:
		return green
	case st.IsProblem():
		return red
	}
	return yellow
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
