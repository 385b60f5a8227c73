package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	ConfigFile  string
	EnvFile     string

	// pytest settings
	Python     string
	PytestArgs []string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	Store          string
	MySQLDSN       string

	// Execution settings
	Processors int

	// Command flags
	Flags Flags
}

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

// fileConfig is the YAML layout of pta.yaml.
type fileConfig struct {
	Python     string   `yaml:"python"`
	PytestArgs []string `yaml:"pytest_args"`
	Processors int      `yaml:"processors"`
	Store      string   `yaml:"store"`
	OutputDir  string   `yaml:"output_dir"`
	EnvFile    string   `yaml:"env_file"`
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath:    DefaultProjectPath,
		ConfigFile:     DefaultConfigFile,
		EnvFile:        DefaultEnvFile,
		Python:         DefaultPython,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Store:          DefaultStore,
		Processors:     DefaultProcessors,
		Flags:          Flags{Processors: DefaultProcessors},
	}
}

// Load creates a config from defaults, the project config file and flags,
// in increasing order of precedence.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if flags.ProjectPath != "" {
		cfg.ProjectPath = flags.ProjectPath
	}
	if flags.ConfigFile != "" {
		cfg.ConfigFile = flags.ConfigFile
	}
	if err := cfg.LoadFile(); err != nil {
		return nil, err
	}
	cfg.Apply(flags)
	return cfg, nil
}

// LoadFile reads the project config file if it exists. A missing file is not
// an error unless it was named explicitly.
func (c *Config) LoadFile() error {
	path := c.resolve(c.ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && c.ConfigFile == DefaultConfigFile {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Python != "" {
		c.Python = fc.Python
	}
	if len(fc.PytestArgs) > 0 {
		c.PytestArgs = append([]string(nil), fc.PytestArgs...)
	}
	if fc.Processors > 0 {
		c.Processors = fc.Processors
	}
	if fc.Store != "" {
		c.Store = fc.Store
	}
	if fc.OutputDir != "" {
		c.OutputJSONDir = fc.OutputDir
	}
	if fc.EnvFile != "" {
		c.EnvFile = fc.EnvFile
	}
	return nil
}

// Apply copies flag overrides into the config
func (c *Config) Apply(flags Flags) {
	c.Flags = flags
	if flags.Python != "" {
		c.Python = flags.Python
	}
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.Store != "" {
		c.Store = flags.Store
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Processors < 1 {
		return fmt.Errorf("processors must be at least 1, got %d", c.Processors)
	}
	switch c.Store {
	case StoreJSON:
	case StoreMySQL:
		if c.DSN() == "" {
			return fmt.Errorf("store %q needs %s to be set", StoreMySQL, MySQLDSNEnv)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	return nil
}

// GetOutputPath returns the full path to the output JSON file.
// Resolves to an absolute path so run and failures always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// DotEnv returns the variables from the project's env file, or nil if the
// file does not exist.
func (c *Config) DotEnv() (map[string]string, error) {
	path := c.resolve(c.EnvFile)
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}

// Environ returns the environment for pytest processes: the current process
// environment followed by the env file, so the file wins on duplicates.
func (c *Config) Environ() ([]string, error) {
	vars, err := c.DotEnv()
	if err != nil {
		return nil, err
	}
	env := os.Environ()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env, nil
}

// DSN returns the MySQL DSN from the environment or the env file.
func (c *Config) DSN() string {
	if c.MySQLDSN != "" {
		return c.MySQLDSN
	}
	if dsn := os.Getenv(MySQLDSNEnv); dsn != "" {
		return dsn
	}
	if vars, err := c.DotEnv(); err == nil {
		return vars[MySQLDSNEnv]
	}
	return ""
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectPath, path)
}
