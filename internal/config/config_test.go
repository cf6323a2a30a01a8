package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadJSONCAndPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	globalDir := filepath.Join(home, ".mirai")
	if err := os.MkdirAll(globalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	globalCfg := `{
  // global
  "weather": {"city": "GlobalCity"},
  "chat": {"max_memory": 4}
}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.jsonc"), []byte(globalCfg), 0o644); err != nil {
		t.Fatal(err)
	}
	projectCfg := `{
  "weather": {"city": "ProjectCity"},
  "search": {"num_results": 5}
}`
	if err := os.WriteFile("mirai.config.jsonc", []byte(projectCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Weather.City != "ProjectCity" {
		t.Fatalf("city=%q", cfg.Weather.City)
	}
	if cfg.Chat.MaxMemory != 4 {
		t.Fatalf("max_memory=%d", cfg.Chat.MaxMemory)
	}
	if cfg.Search.NumResults != 5 {
		t.Fatalf("num_results=%d", cfg.Search.NumResults)
	}
}

func TestDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chat.MaxMemory != 8 {
		t.Fatalf("max_memory=%d", cfg.Chat.MaxMemory)
	}
	if cfg.Trigger.PollMS != 100 || cfg.Trigger.DebounceMS != 700 {
		t.Fatalf("trigger=%+v", cfg.Trigger)
	}
	if cfg.Weather.RefreshIntervalS != 600 {
		t.Fatalf("refresh_interval_s=%d", cfg.Weather.RefreshIntervalS)
	}
	if cfg.Storage.BaseDir != filepath.Join(home, ".mirai") {
		t.Fatalf("base_dir=%q", cfg.Storage.BaseDir)
	}
}

func TestEnvOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENROUTER_API_KEY", "env-key")
	t.Setenv("SERPER_API_KEY", "serper-key")
	t.Setenv("MIRAI_CITY", "EnvCity")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.APIKey != "env-key" {
		t.Fatalf("api_key=%q", cfg.Provider.APIKey)
	}
	if cfg.Search.APIKey != "serper-key" {
		t.Fatalf("search api_key=%q", cfg.Search.APIKey)
	}
	if cfg.Weather.City != "EnvCity" {
		t.Fatalf("city=%q", cfg.Weather.City)
	}
}

func TestMiraiAPIKeyTakesPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MIRAI_API_KEY", "primary")
	t.Setenv("OPENROUTER_API_KEY", "secondary")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.APIKey != "primary" {
		t.Fatalf("api_key=%q", cfg.Provider.APIKey)
	}
}

func TestInvalidMaxMemoryEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MIRAI_MAX_MEMORY", "zero")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid MIRAI_MAX_MEMORY")
	}
}

func TestTemperatureClampedToDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	if err := os.WriteFile("mirai.config.json", []byte(`{"chat":{"temperature": 3.5}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chat.Temperature != 0.7 {
		t.Fatalf("temperature=%v", cfg.Chat.Temperature)
	}
}
