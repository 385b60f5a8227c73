package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultPython is the interpreter used to run pytest
	DefaultPython = "python"
	// DefaultConfigFile is the optional project config, relative to the project
	DefaultConfigFile = "pta.yaml"
	// DefaultEnvFile is loaded into the pytest environment when present
	DefaultEnvFile = ".env"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".pta"
	// DefaultProcessors is the default number of concurrent pytest sessions
	DefaultProcessors = 1
	// DefaultStore is the default report backend
	DefaultStore = StoreJSON
)

// Report backends.
const (
	StoreJSON  = "json"
	StoreMySQL = "mysql"
)

// MySQLDSNEnv names the environment variable holding the MySQL DSN.
const MySQLDSNEnv = "PTA_MYSQL_DSN"
