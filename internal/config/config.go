package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GraphConfig addresses a document library through Microsoft Graph.
type GraphConfig struct {
	BaseURL string `yaml:"base_url"`
	SiteID  string `yaml:"site_id"`
	// SiteName is resolved to a site id at startup when SiteID is empty.
	SiteName string `yaml:"site_name,omitempty"`
	// Host is the SharePoint hostname used to address SiteName directly.
	Host     string `yaml:"host,omitempty"`
	TokenEnv string `yaml:"token_env"`
}

// LocalConfig serves a local directory as the file store.
type LocalConfig struct {
	Root string `yaml:"root"`
}

// RemoteConfig selects and configures the remote file store.
type RemoteConfig struct {
	Type        string       `yaml:"type"`
	TimeoutSecs int          `yaml:"timeout_secs"`
	Graph       *GraphConfig `yaml:"graph,omitempty"`
	Local       *LocalConfig `yaml:"local,omitempty"`
}

// NavigationConfig configures listings.
type NavigationConfig struct {
	PageSize int    `yaml:"page_size"`
	View     string `yaml:"view"`
}

// RankerConfig holds the tunable constants of the relevance ranker.
type RankerConfig struct {
	SimilarityThreshold float64  `yaml:"similarity_threshold"`
	MinTokens           int      `yaml:"min_tokens"`
	ExcludePatterns     []string `yaml:"exclude_patterns,omitempty"`
	Stopwords           []string `yaml:"stopwords,omitempty"`
}

// DownloadConfig sets where selected files are saved.
type DownloadConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Remote     RemoteConfig     `yaml:"remote"`
	Navigation NavigationConfig `yaml:"navigation"`
	Ranker     RankerConfig     `yaml:"ranker"`
	Download   DownloadConfig   `yaml:"download"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/driveqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/driveqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "driveqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Remote: RemoteConfig{
			Type:        "graph",
			TimeoutSecs: 30,
			Graph:       &GraphConfig{},
		},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Remote.Type == "" {
		cfg.Remote.Type = "graph"
	}
	if cfg.Remote.TimeoutSecs <= 0 {
		cfg.Remote.TimeoutSecs = 30
	}
	switch cfg.Remote.Type {
	case "graph":
		if cfg.Remote.Graph == nil {
			cfg.Remote.Graph = &GraphConfig{}
		}
		if cfg.Remote.Graph.BaseURL == "" {
			cfg.Remote.Graph.BaseURL = "https://graph.microsoft.com/v1.0"
		}
		if cfg.Remote.Graph.TokenEnv == "" {
			cfg.Remote.Graph.TokenEnv = "DRIVEQA_TOKEN"
		}
	case "local":
		if cfg.Remote.Local == nil {
			cfg.Remote.Local = &LocalConfig{}
		}
		if cfg.Remote.Local.Root == "" {
			cfg.Remote.Local.Root = "."
		}
	}
	if cfg.Navigation.PageSize <= 0 {
		cfg.Navigation.PageSize = 20
	}
	if cfg.Navigation.View == "" {
		cfg.Navigation.View = "folder"
	}
	if cfg.Ranker.SimilarityThreshold == 0 {
		cfg.Ranker.SimilarityThreshold = 0.2
	}
	if cfg.Ranker.MinTokens == 0 {
		cfg.Ranker.MinTokens = 6
	}
	if cfg.Download.Dir == "" {
		cfg.Download.Dir = "downloads"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
