package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type ProviderConfig struct {
	BaseURL      string `json:"base_url"`
	APIKey       string `json:"api_key"`
	CatalogURL   string `json:"catalog_url"`
	SystemPrompt string `json:"system_prompt"`
	TimeoutMS    int    `json:"timeout_ms"`
}

type SearchConfig struct {
	Endpoint   string `json:"endpoint"`
	APIKey     string `json:"api_key"`
	NumResults int    `json:"num_results"`
	TimeoutMS  int    `json:"timeout_ms"`
}

type WeatherConfig struct {
	Endpoint         string `json:"endpoint"`
	City             string `json:"city"`
	RefreshIntervalS int    `json:"refresh_interval_s"`
	TimeoutMS        int    `json:"timeout_ms"`
}

type ChatConfig struct {
	// MaxMemory 对话历史条数上限（FIFO 淘汰）
	// MaxMemory bounds the conversation history (FIFO eviction)
	MaxMemory   int     `json:"max_memory"`
	Temperature float64 `json:"temperature"`
}

type TriggerConfig struct {
	PollMS     int `json:"poll_ms"`
	DebounceMS int `json:"debounce_ms"`
}

type BrowserConfig struct {
	// PreferredPath 优先使用的浏览器可执行文件；启动失败时回退到系统默认
	// PreferredPath is the preferred browser binary; falls back to the OS default on launch failure
	PreferredPath string `json:"preferred_path"`
}

type StorageConfig struct {
	BaseDir string `json:"base_dir"`
}

type Config struct {
	Provider ProviderConfig `json:"provider"`
	Search   SearchConfig   `json:"search"`
	Weather  WeatherConfig  `json:"weather"`
	Chat     ChatConfig     `json:"chat"`
	Trigger  TriggerConfig  `json:"trigger"`
	Browser  BrowserConfig  `json:"browser"`
	Storage  StorageConfig  `json:"storage"`
}

type fileChatConfig struct {
	MaxMemory   *int     `json:"max_memory"`
	Temperature *float64 `json:"temperature"`
}

type fileTriggerConfig struct {
	PollMS     *int `json:"poll_ms"`
	DebounceMS *int `json:"debounce_ms"`
}

type fileConfig struct {
	Provider *ProviderConfig    `json:"provider"`
	Search   *SearchConfig      `json:"search"`
	Weather  *WeatherConfig     `json:"weather"`
	Chat     *fileChatConfig    `json:"chat"`
	Trigger  *fileTriggerConfig `json:"trigger"`
	Browser  *BrowserConfig     `json:"browser"`
	Storage  *StorageConfig     `json:"storage"`
}

func Default() Config {
	return Config{
		Provider: ProviderConfig{
			BaseURL:      "https://openrouter.ai/api/v1",
			CatalogURL:   "https://openrouter.ai/api/v1/models",
			SystemPrompt: "You are a helpful assistant.",
			TimeoutMS:    10000,
		},
		Search: SearchConfig{
			Endpoint:   "https://google.serper.dev/search",
			NumResults: 3,
			TimeoutMS:  10000,
		},
		Weather: WeatherConfig{
			Endpoint:         "https://wttr.in",
			City:             "Bhopal",
			RefreshIntervalS: 600,
			TimeoutMS:        5000,
		},
		Chat: ChatConfig{
			MaxMemory:   8,
			Temperature: 0.7,
		},
		Trigger: TriggerConfig{
			PollMS:     100,
			DebounceMS: 700,
		},
		Storage: StorageConfig{
			BaseDir: "~/.mirai",
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("MIRAI_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dir := filepath.Join(home, ".mirai")
	return []string{
		filepath.Join(dir, "config.jsonc"),
		filepath.Join(dir, "config.json"),
	}
}

func findProjectConfigPath() string {
	candidates := []string{
		"mirai.config.jsonc",
		"mirai.config.json",
		".mirai/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fileCfg fileConfig
	if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Provider != nil {
		cfg.Provider = mergeProvider(cfg.Provider, *fc.Provider)
	}
	if fc.Search != nil {
		cfg.Search = mergeSearch(cfg.Search, *fc.Search)
	}
	if fc.Weather != nil {
		cfg.Weather = mergeWeather(cfg.Weather, *fc.Weather)
	}
	if fc.Chat != nil {
		if fc.Chat.MaxMemory != nil {
			cfg.Chat.MaxMemory = *fc.Chat.MaxMemory
		}
		if fc.Chat.Temperature != nil {
			cfg.Chat.Temperature = *fc.Chat.Temperature
		}
	}
	if fc.Trigger != nil {
		if fc.Trigger.PollMS != nil {
			cfg.Trigger.PollMS = *fc.Trigger.PollMS
		}
		if fc.Trigger.DebounceMS != nil {
			cfg.Trigger.DebounceMS = *fc.Trigger.DebounceMS
		}
	}
	if fc.Browser != nil {
		if strings.TrimSpace(fc.Browser.PreferredPath) != "" {
			cfg.Browser.PreferredPath = fc.Browser.PreferredPath
		}
	}
	if fc.Storage != nil {
		if strings.TrimSpace(fc.Storage.BaseDir) != "" {
			cfg.Storage.BaseDir = fc.Storage.BaseDir
		}
	}
}

func mergeProvider(base ProviderConfig, override ProviderConfig) ProviderConfig {
	if strings.TrimSpace(override.BaseURL) != "" {
		base.BaseURL = override.BaseURL
	}
	if strings.TrimSpace(override.APIKey) != "" {
		base.APIKey = override.APIKey
	}
	if strings.TrimSpace(override.CatalogURL) != "" {
		base.CatalogURL = override.CatalogURL
	}
	if strings.TrimSpace(override.SystemPrompt) != "" {
		base.SystemPrompt = override.SystemPrompt
	}
	if override.TimeoutMS > 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	return base
}

func mergeSearch(base SearchConfig, override SearchConfig) SearchConfig {
	if strings.TrimSpace(override.Endpoint) != "" {
		base.Endpoint = override.Endpoint
	}
	if strings.TrimSpace(override.APIKey) != "" {
		base.APIKey = override.APIKey
	}
	if override.NumResults > 0 {
		base.NumResults = override.NumResults
	}
	if override.TimeoutMS > 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	return base
}

func mergeWeather(base WeatherConfig, override WeatherConfig) WeatherConfig {
	if strings.TrimSpace(override.Endpoint) != "" {
		base.Endpoint = override.Endpoint
	}
	if strings.TrimSpace(override.City) != "" {
		base.City = override.City
	}
	if override.RefreshIntervalS > 0 {
		base.RefreshIntervalS = override.RefreshIntervalS
	}
	if override.TimeoutMS > 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	return base
}

func normalize(cfg *Config) error {
	def := Default()

	if strings.TrimSpace(cfg.Provider.BaseURL) == "" {
		cfg.Provider.BaseURL = def.Provider.BaseURL
	}
	if strings.TrimSpace(cfg.Provider.CatalogURL) == "" {
		cfg.Provider.CatalogURL = def.Provider.CatalogURL
	}
	if strings.TrimSpace(cfg.Provider.SystemPrompt) == "" {
		cfg.Provider.SystemPrompt = def.Provider.SystemPrompt
	}
	if cfg.Provider.TimeoutMS <= 0 {
		cfg.Provider.TimeoutMS = def.Provider.TimeoutMS
	}

	if strings.TrimSpace(cfg.Search.Endpoint) == "" {
		cfg.Search.Endpoint = def.Search.Endpoint
	}
	if cfg.Search.NumResults <= 0 {
		cfg.Search.NumResults = def.Search.NumResults
	}
	if cfg.Search.TimeoutMS <= 0 {
		cfg.Search.TimeoutMS = def.Search.TimeoutMS
	}

	if strings.TrimSpace(cfg.Weather.Endpoint) == "" {
		cfg.Weather.Endpoint = def.Weather.Endpoint
	}
	if strings.TrimSpace(cfg.Weather.City) == "" {
		cfg.Weather.City = def.Weather.City
	}
	if cfg.Weather.RefreshIntervalS <= 0 {
		cfg.Weather.RefreshIntervalS = def.Weather.RefreshIntervalS
	}
	if cfg.Weather.TimeoutMS <= 0 {
		cfg.Weather.TimeoutMS = def.Weather.TimeoutMS
	}

	if cfg.Chat.MaxMemory <= 0 {
		cfg.Chat.MaxMemory = def.Chat.MaxMemory
	}
	if cfg.Chat.Temperature < 0.1 || cfg.Chat.Temperature > 1.0 {
		cfg.Chat.Temperature = def.Chat.Temperature
	}

	if cfg.Trigger.PollMS <= 0 {
		cfg.Trigger.PollMS = def.Trigger.PollMS
	}
	if cfg.Trigger.DebounceMS <= 0 {
		cfg.Trigger.DebounceMS = def.Trigger.DebounceMS
	}

	baseDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	if baseDir == "" {
		baseDir, err = expandPath(def.Storage.BaseDir)
		if err != nil {
			return err
		}
	}
	cfg.Storage.BaseDir = baseDir

	return nil
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("MIRAI_BASE_URL")); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("MIRAI_API_KEY")); v != "" {
		cfg.Provider.APIKey = v
	} else if v := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("SERPER_API_KEY")); v != "" {
		cfg.Search.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("MIRAI_CITY")); v != "" {
		cfg.Weather.City = v
	}
	if v := strings.TrimSpace(os.Getenv("MIRAI_DATA_DIR")); v != "" {
		cfg.Storage.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("MIRAI_MAX_MEMORY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid MIRAI_MAX_MEMORY: %q", v)
		}
		cfg.Chat.MaxMemory = n
	}

	return cfg, normalize(&cfg)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
