package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestNewLoggerDefaults(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "info")
	v.Set("logging.format", "console")

	logger, err := NewLogger(v)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewLoggerJSONFormat(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "debug")
	v.Set("logging.format", "json")

	if _, err := NewLogger(v); err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "verbose")
	v.Set("logging.format", "console")

	if _, err := NewLogger(v); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestNewLoggerInvalidFormat(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "info")
	v.Set("logging.format", "xml")

	if _, err := NewLogger(v); err == nil {
		t.Error("expected error for invalid log format")
	}
}

func TestLoadDefaults(t *testing.T) {
	v, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := v.GetString("api.base_url"); got != "http://localhost:7999" {
		t.Errorf("api.base_url = %q, want default", got)
	}
	if got := v.GetString("logging.level"); got != "info" {
		t.Errorf("logging.level = %q, want %q", got, "info")
	}

	cfg := Client(v)
	if cfg.BaseURL != "http://localhost:7999" {
		t.Errorf("Client BaseURL = %q, want default", cfg.BaseURL)
	}
	if cfg.StorePath() == "" {
		t.Error("expected non-empty store path")
	}
}
