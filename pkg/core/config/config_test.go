package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/glox/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.General.LogLevel != "warn" {
		t.Errorf("General.LogLevel = %v, want warn", cfg.General.LogLevel)
	}
	if cfg.REPL.Prompt != "> " {
		t.Errorf("REPL.Prompt = %q, want \"> \"", cfg.REPL.Prompt)
	}
	if !cfg.REPL.Color || !cfg.REPL.HistoryEnabled {
		t.Error("REPL color and history should default to enabled")
	}
	if cfg.Server.Port != 8420 || cfg.Server.GRPCPort != 8421 {
		t.Errorf("Server ports = %d/%d, want 8420/8421", cfg.Server.Port, cfg.Server.GRPCPort)
	}
	if cfg.Server.ReadTimeout.Duration != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Parser.MaxSourceLength != 1024*1024 {
		t.Errorf("Parser.MaxSourceLength = %d, want 1MiB", cfg.Parser.MaxSourceLength)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/glox.toml")
	if err == nil {
		t.Fatal("Load() expected error for non-existent file")
	}
	if !mdwerror.HasCode(err, mdwerror.CodeMissingConfig) {
		t.Errorf("expected CodeMissingConfig, got %v", mdwerror.GetCode(err))
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "glox.toml")

	configContent := `
[general]
log_level = "debug"

[repl]
prompt = "lox> "
color = false

[server]
port = 9999
host = "0.0.0.0"
read_timeout = "5s"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if cfg.REPL.Prompt != "lox> " {
		t.Errorf("REPL.Prompt = %q, want \"lox> \"", cfg.REPL.Prompt)
	}
	if cfg.REPL.Color {
		t.Error("REPL.Color should be false when set explicitly")
	}
	if !cfg.REPL.HistoryEnabled {
		t.Error("REPL.HistoryEnabled should keep its default")
	}
	if cfg.Server.Port != 9999 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server = %s:%d, want 0.0.0.0:9999", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.GRPCPort != 8421 {
		t.Errorf("Server.GRPCPort = %v, want 8421 (default)", cfg.Server.GRPCPort)
	}
	if got := cfg.ServerAddress(); got != "0.0.0.0:9999" {
		t.Errorf("ServerAddress() = %v", got)
	}
}

func TestLoad_YAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "glox.yaml")
	configContent := `
general:
  log_format: json
server:
  port: 7000
  write_timeout: 2m
parser:
  max_source_length: 4096
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogFormat != "json" {
		t.Errorf("General.LogFormat = %v, want json", cfg.General.LogFormat)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %v, want 7000", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout.Duration != 2*time.Minute {
		t.Errorf("Server.WriteTimeout = %v, want 2m", cfg.Server.WriteTimeout)
	}
	if cfg.Parser.MaxSourceLength != 4096 {
		t.Errorf("Parser.MaxSourceLength = %v, want 4096", cfg.Parser.MaxSourceLength)
	}
}

func TestLoad_InvalidContent(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "glox.toml")
	if err := os.WriteFile(configPath, []byte("[server\nport = "), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("expected CodeInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 70000

	if err := cfg.Validate(); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("Validate() = %v, want CodeInvalidConfig", err)
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("GLOX_TEST_DIR", "/tmp/glox-test")

	cfg := &Config{REPL: REPLConfig{HistoryPath: "$GLOX_TEST_DIR/history.db"}}
	cfg.expandEnvVars()

	if cfg.REPL.HistoryPath != "/tmp/glox-test/history.db" {
		t.Errorf("HistoryPath = %v, want /tmp/glox-test/history.db", cfg.REPL.HistoryPath)
	}
}

func TestLoadFromEnv_UsesVariable(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(configPath, []byte("[repl]\nprompt = \"$ \"\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	t.Setenv(EnvConfigPath, configPath)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.REPL.Prompt != "$ " {
		t.Errorf("REPL.Prompt = %q, want \"$ \"", cfg.REPL.Prompt)
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", t.TempDir())

	originalWd, _ := os.Getwd()
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	defer os.Chdir(originalWd)

	_, err := LoadFromEnv()
	if !mdwerror.HasCode(err, mdwerror.CodeMissingConfig) {
		t.Errorf("LoadFromEnv() = %v, want CodeMissingConfig", err)
	}
}
