package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/semperland/events-grabber/internal/logger"
)

// Config represents the complete configuration for the events grabber.
type Config struct {
	// Chain contains the blockchain gateway configuration
	Chain ChainConfig `yaml:"chain"`

	// DB contains the database configuration
	DB DatabaseConfig `yaml:"db"`

	// Grabber contains the processing cycle configuration
	Grabber GrabberConfig `yaml:"grabber"`

	// Logging contains logging configuration
	Logging *LoggingConfig `yaml:"logging,omitempty"`

	// Metrics contains Prometheus metrics configuration
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`

	// API contains the read-only query API configuration
	API *APIConfig `yaml:"api,omitempty"`
}

// ChainConfig represents the connection to the blockchain gateway and
// the deployed contract set.
type ChainConfig struct {
	// RPCURL is the Ethereum RPC endpoint URL (must support log retrieval)
	RPCURL string `yaml:"rpc_url"`

	// MetaverseAddress is the address of the root Metaverse contract.
	// All other contract addresses are resolved through its views.
	MetaverseAddress string `yaml:"metaverse_address"`

	// CurrencyDefinitionPluginAddress optionally pins the currency
	// definition plug-in address instead of resolving it on chain
	CurrencyDefinitionPluginAddress string `yaml:"currency_definition_plugin_address,omitempty"`

	// CurrencyMintingPluginAddress optionally pins the currency
	// minting plug-in address instead of resolving it on chain
	CurrencyMintingPluginAddress string `yaml:"currency_minting_plugin_address,omitempty"`
}

// GrabberConfig represents the configuration of one processing cycle.
type GrabberConfig struct {
	// UseTransactions wraps every cycle's writes in a single database
	// transaction. When disabled each write commits independently and a
	// mid-cycle failure leaves a partially applied cycle behind; the
	// checkpoint is only advanced at the end of a successful cycle, so a
	// retry will re-deliver the same events.
	UseTransactions bool `yaml:"use_transactions"`

	// LockPath is the path of the lock file guaranteeing that only one
	// cycle runs at a time across all grabber processes
	LockPath string `yaml:"lock_path"`

	// Interval is the pause between two cycles in loop mode
	Interval time.Duration `yaml:"interval"`

	// MetadataTimeout bounds a single token metadata HTTP fetch
	MetadataTimeout time.Duration `yaml:"metadata_timeout"`
}

// ApplyDefaults sets default values for optional grabber configuration fields.
func (g *GrabberConfig) ApplyDefaults() {
	if g.LockPath == "" {
		g.LockPath = "grabber.lock"
	}
	if g.Interval == 0 {
		g.Interval = 30 * time.Second
	}
	if g.MetadataTimeout == 0 {
		g.MetadataTimeout = 10 * time.Second
	}
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	// Path is the file path to the SQLite database
	Path string `yaml:"path"`

	// JournalMode sets the SQLite journal mode (e.g., "WAL", "DELETE")
	JournalMode string `yaml:"journal_mode"`

	// Synchronous sets the synchronization level ("FULL", "NORMAL", "OFF")
	Synchronous string `yaml:"synchronous"`

	// BusyTimeout is the time in milliseconds to wait when the database is locked
	BusyTimeout int `yaml:"busy_timeout"`

	// MaxOpenConnections is the maximum number of open database connections
	MaxOpenConnections int `yaml:"max_open_connections"`

	// MaxIdleConnections is the maximum number of idle connections in the pool
	MaxIdleConnections int `yaml:"max_idle_connections"`
}

// ApplyDefaults sets default values for optional database configuration fields.
func (d *DatabaseConfig) ApplyDefaults() {
	if d.JournalMode == "" {
		d.JournalMode = "WAL"
	}
	if d.Synchronous == "" {
		d.Synchronous = "NORMAL"
	}
	if d.BusyTimeout == 0 {
		d.BusyTimeout = 5000
	}
	if d.MaxOpenConnections == 0 {
		d.MaxOpenConnections = 25
	}
	if d.MaxIdleConnections == 0 {
		d.MaxIdleConnections = 5
	}
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error"
	Level string `yaml:"level"`

	// Development enables development mode (stack traces, console encoder)
	Development bool `yaml:"development"`
}

// ApplyDefaults sets default values for optional logging configuration fields.
func (l *LoggingConfig) ApplyDefaults() {
	if l.Level == "" {
		l.Level = "info"
	}
}

// Validate checks if the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	if l.Level != "" {
		if _, valid := logger.ValidLogLevels[l.Level]; !valid {
			return fmt.Errorf("logging.level: must be one of: debug, info, warn, error")
		}
	}
	return nil
}

// MetricsConfig configures Prometheus metrics exposition.
type MetricsConfig struct {
	// Enabled controls whether metrics collection and HTTP endpoint are active
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address to bind the metrics HTTP server to
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path where metrics are exposed
	Path string `yaml:"path"`
}

// ApplyDefaults sets default values for optional metrics configuration fields.
func (m *MetricsConfig) ApplyDefaults() {
	if m.ListenAddress == "" {
		m.ListenAddress = ":9090"
	}
	if m.Path == "" {
		m.Path = "/metrics"
	}
}

// Validate checks if the metrics configuration is valid.
func (m *MetricsConfig) Validate() error {
	if m.Enabled {
		if m.ListenAddress == "" {
			return fmt.Errorf("listen_address is required when metrics are enabled")
		}
		if m.Path == "" || m.Path[0] != '/' {
			return fmt.Errorf("path must start with '/'")
		}
	}
	return nil
}

// APIConfig configures the read-only query API server.
type APIConfig struct {
	// Enabled controls whether the API server runs
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address to bind the API server to
	ListenAddress string `yaml:"listen_address"`

	// PageSize is the maximum (and default) number of records per page
	PageSize int `yaml:"page_size"`

	// ReadTimeout bounds reading an incoming request
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing a response
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// AllowedOrigins lists the origins allowed by CORS. A "*" entry
	// allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// ApplyDefaults sets default values for optional API configuration fields.
func (a *APIConfig) ApplyDefaults() {
	if a.ListenAddress == "" {
		a.ListenAddress = ":8080"
	}
	if a.PageSize <= 0 {
		a.PageSize = 100
	}
	if a.ReadTimeout == 0 {
		a.ReadTimeout = 10 * time.Second
	}
	if a.WriteTimeout == 0 {
		a.WriteTimeout = 30 * time.Second
	}
	if len(a.AllowedOrigins) == 0 {
		a.AllowedOrigins = []string{"*"}
	}
}

// ApplyDefaults sets default values for optional configuration fields.
func (c *Config) ApplyDefaults() {
	c.DB.ApplyDefaults()
	c.Grabber.ApplyDefaults()

	if c.Logging != nil {
		c.Logging.ApplyDefaults()
	}
	if c.Metrics != nil {
		c.Metrics.ApplyDefaults()
	}
	if c.API != nil {
		c.API.ApplyDefaults()
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Chain.RPCURL == "" {
		return fmt.Errorf("chain.rpc_url is required")
	}

	if c.Chain.MetaverseAddress == "" {
		return fmt.Errorf("chain.metaverse_address is required")
	}
	if !common.IsHexAddress(c.Chain.MetaverseAddress) {
		return fmt.Errorf("chain.metaverse_address is not a valid address: %s", c.Chain.MetaverseAddress)
	}
	if c.Chain.CurrencyDefinitionPluginAddress != "" && !common.IsHexAddress(c.Chain.CurrencyDefinitionPluginAddress) {
		return fmt.Errorf("chain.currency_definition_plugin_address is not a valid address: %s",
			c.Chain.CurrencyDefinitionPluginAddress)
	}
	if c.Chain.CurrencyMintingPluginAddress != "" && !common.IsHexAddress(c.Chain.CurrencyMintingPluginAddress) {
		return fmt.Errorf("chain.currency_minting_plugin_address is not a valid address: %s",
			c.Chain.CurrencyMintingPluginAddress)
	}

	if c.DB.Path == "" {
		return fmt.Errorf("db.path is required")
	}

	if c.DB.JournalMode != "" && c.DB.JournalMode != "WAL" &&
		c.DB.JournalMode != "DELETE" && c.DB.JournalMode != "TRUNCATE" &&
		c.DB.JournalMode != "PERSIST" && c.DB.JournalMode != "MEMORY" {
		return fmt.Errorf("db.journal_mode must be one of: WAL, DELETE, TRUNCATE, PERSIST, MEMORY")
	}

	if c.DB.Synchronous != "" && c.DB.Synchronous != "FULL" &&
		c.DB.Synchronous != "NORMAL" && c.DB.Synchronous != "OFF" {
		return fmt.Errorf("db.synchronous must be one of: FULL, NORMAL, OFF")
	}

	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return err
		}
	}

	if c.Metrics != nil {
		if err := c.Metrics.Validate(); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	return nil
}
