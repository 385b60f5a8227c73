package cli

import (
	"testing"

	"pta/internal/config"
)

func TestFlags_ToConfigFlags(t *testing.T) {
	f := Flags{
		ProjectPath: "/srv/app",
		ConfigFile:  "ci.yaml",
		Python:      ".venv/bin/python",
		Processors:  4,
		NameFilter:  "*api*",
		Tree:        true,
		FailFast:    true,
		JSON:        true,
		Store:       config.StoreMySQL,
		NoReport:    true,
	}

	got := f.ToConfigFlags()
	want := config.Flags{
		ProjectPath: "/srv/app",
		ConfigFile:  "ci.yaml",
		Python:      ".venv/bin/python",
		Processors:  4,
		NameFilter:  "*api*",
		Tree:        true,
		FailFast:    true,
		JSON:        true,
		Store:       config.StoreMySQL,
		NoReport:    true,
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
