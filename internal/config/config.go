package config

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Env         string         `yaml:"env"`          // Env is the current environment: local, development, production.
	Storage     StorageConfig  `yaml:"storage"`      // Storage selects and configures the key-value backend.
	Postgres    PostgresConfig `yaml:"postgres"`     // Postgres holds the database configuration for the postgres driver.
	SeedFile    string         `yaml:"seed_file"`    // SeedFile optionally replaces the built-in seed set.
	RosterFile  string         `yaml:"roster_file"`  // RosterFile is an HTML roster imported at startup, if set.
	MetricsPort int            `yaml:"metrics_port"` // MetricsPort is where /metrics and /healthz are served.
}

// StorageConfig struct holds the key-value backend settings.
type StorageConfig struct {
	Driver string `yaml:"driver"` // Driver is one of file, memory, postgres.
	Path   string `yaml:"path"`   // Path is the data directory of the file driver.
	Key    string `yaml:"key"`    // Key is the slot the employee collection is stored under.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
}

// MustLoad reads the optional YAML file named by CONFIG_PATH, applies
// environment overrides and returns the resulting Config. It panics when the
// configuration cannot be used.
func MustLoad() *Config {
	vpr := viper.New()

	setDefaults(vpr)
	bindEnv(vpr)

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}

		vpr.SetConfigFile(configPath)
		if err := vpr.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	cfg := &Config{
		Env: vpr.GetString("env"),
		Storage: StorageConfig{
			Driver: strings.ToLower(vpr.GetString("storage.driver")),
			Path:   vpr.GetString("storage.path"),
			Key:    vpr.GetString("storage.key"),
		},
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
		SeedFile:    vpr.GetString("seed_file"),
		RosterFile:  vpr.GetString("roster_file"),
		MetricsPort: vpr.GetInt("metrics_port"),
	}

	if msg := cfg.validate(); msg != "" {
		panic(msg)
	}

	return cfg
}

func setDefaults(vpr *viper.Viper) {
	defMetricsPort := 8080

	vpr.SetDefault("env", "local")
	vpr.SetDefault("storage.driver", DriverFile)
	vpr.SetDefault("storage.path", "./data")
	vpr.SetDefault("storage.key", "employees")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("metrics_port", defMetricsPort)
}

func bindEnv(vpr *viper.Viper) {
	bindings := map[string]string{
		"env":               "STAFFBOOK_ENV",
		"storage.driver":    "STAFFBOOK_STORAGE_DRIVER",
		"storage.path":      "STAFFBOOK_STORAGE_PATH",
		"storage.key":       "STAFFBOOK_STORAGE_KEY",
		"seed_file":         "STAFFBOOK_SEED_FILE",
		"roster_file":       "STAFFBOOK_ROSTER_FILE",
		"metrics_port":      "STAFFBOOK_METRICS_PORT",
		"postgres.host":     "DB_HOST",
		"postgres.port":     "DB_PORT",
		"postgres.user":     "DB_USERNAME",
		"postgres.password": "DB_PASSWORD",
		"postgres.db_name":  "DB_NAME",
	}

	for key, env := range bindings {
		_ = vpr.BindEnv(key, env)
	}
}

func (c *Config) validate() string {
	drivers := []string{DriverFile, DriverMemory, DriverPostgres}
	if !slices.Contains(drivers, c.Storage.Driver) {
		return "unknown storage driver: " + c.Storage.Driver
	}
	if c.Storage.Driver == DriverFile && c.Storage.Path == "" {
		return "storage path is required for the file driver"
	}
	if c.Storage.Driver == DriverPostgres && (c.Postgres.Host == "" || c.Postgres.Dbname == "") {
		return "postgres host and db_name are required for the postgres driver"
	}
	if c.Storage.Key == "" {
		return "storage key is empty"
	}

	maxPort := 65535
	if c.MetricsPort <= 0 || c.MetricsPort > maxPort {
		return "failed to parse metrics port from configuration"
	}

	return ""
}
