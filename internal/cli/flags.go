package cli

import "pta/internal/config"

// Flags holds command-line flags
type Flags struct {
	ProjectPath string
	ConfigFile  string
	Python      string
	Processors  int
	NameFilter  string
	Tree        bool
	FailFast    bool
	JSON        bool
	Store       string
	NoReport    bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ProjectPath: f.ProjectPath,
		ConfigFile:  f.ConfigFile,
		Python:      f.Python,
		Processors:  f.Processors,
		NameFilter:  f.NameFilter,
		Tree:        f.Tree,
		FailFast:    f.FailFast,
		JSON:        f.JSON,
		Store:       f.Store,
		NoReport:    f.NoReport,
	}
}
