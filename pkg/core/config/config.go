package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/glox/foundation/core/error"
)

// EnvConfigPath names the environment variable pointing at the config file
const EnvConfigPath = "GLOX_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	REPL    REPLConfig    `toml:"repl" yaml:"repl"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// REPLConfig holds interactive prompt settings
type REPLConfig struct {
	Prompt         string `toml:"prompt" yaml:"prompt"`
	Color          bool   `toml:"color" yaml:"color"`
	HistoryEnabled bool   `toml:"history_enabled" yaml:"history_enabled"`
	HistoryPath    string `toml:"history_path" yaml:"history_path"`
	HistoryLimit   int    `toml:"history_limit" yaml:"history_limit"`
}

// ServerConfig holds evaluation server settings
type ServerConfig struct {
	Host            string   `toml:"host" yaml:"host"`
	Port            int      `toml:"port" yaml:"port"`
	GRPCPort        int      `toml:"grpc_port" yaml:"grpc_port"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxSourceLength int      `toml:"max_source_length" yaml:"max_source_length"`
}

// ParserConfig holds front end limits
type ParserConfig struct {
	MaxSourceLength int `toml:"max_source_length" yaml:"max_source_length"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.REPL.Color = true
	cfg.REPL.HistoryEnabled = true
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.New("config file not found: " + path).
				WithCode(mdwerror.CodeMissingConfig).
				WithOperation("config.Load")
		}
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load")
	}

	cfg := &Config{}
	cfg.REPL.Color = true
	cfg.REPL.HistoryEnabled = true

	if err := parseContent(data, detectFormat(path), cfg); err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from GLOX_CONFIG or the default locations
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, mdwerror.New("no config file found, set " + EnvConfigPath + " or create configs/glox.toml").
			WithCode(mdwerror.CodeMissingConfig).
			WithOperation("config.LoadFromEnv")
	}

	return Load(path)
}

// DefaultPaths lists the locations searched when GLOX_CONFIG is unset
func DefaultPaths() []string {
	return []string{
		"./configs/glox.toml",
		"./glox.toml",
		filepath.Join(os.Getenv("HOME"), ".config/glox/config.toml"),
	}
}

type fileFormat int

const (
	formatTOML fileFormat = iota
	formatYAML
)

func detectFormat(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatTOML
	}
}

func parseContent(data []byte, format fileFormat, cfg *Config) error {
	switch format {
	case formatYAML:
		return yaml.Unmarshal(data, cfg)
	default:
		return toml.Unmarshal(data, cfg)
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// REPL
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = "> "
	}
	if c.REPL.HistoryPath == "" {
		c.REPL.HistoryPath = filepath.Join(os.Getenv("HOME"), ".local/share/glox/history.db")
	}
	if c.REPL.HistoryLimit == 0 {
		c.REPL.HistoryLimit = 1000
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8420
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 8421
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 30 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 30 * time.Second
	}
	if c.Server.MaxSourceLength == 0 {
		c.Server.MaxSourceLength = 64 * 1024
	}

	// Parser
	if c.Parser.MaxSourceLength == 0 {
		c.Parser.MaxSourceLength = 1024 * 1024
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.REPL.HistoryPath = os.ExpandEnv(c.REPL.HistoryPath)
}

// Validate checks value ranges after defaults were applied
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}) error {
		return mdwerror.New("invalid configuration value").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", field).
			WithDetail("value", value)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return invalid("server.grpc_port", c.Server.GRPCPort)
	}
	if c.REPL.HistoryLimit < 0 {
		return invalid("repl.history_limit", c.REPL.HistoryLimit)
	}
	if c.Parser.MaxSourceLength < 0 {
		return invalid("parser.max_source_length", c.Parser.MaxSourceLength)
	}
	return nil
}

// ServerAddress returns host:port of the websocket endpoint
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// GRPCAddress returns host:port of the gRPC health endpoint
func (c *Config) GRPCAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.GRPCPort))
}
