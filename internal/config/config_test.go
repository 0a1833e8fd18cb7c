package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Remote.Type != "graph" || cfg.Remote.TimeoutSecs != 30 {
		t.Errorf("remote = %+v", cfg.Remote)
	}
	if cfg.Remote.Graph == nil || cfg.Remote.Graph.TokenEnv != "DRIVEQA_TOKEN" || cfg.Remote.Graph.BaseURL != "https://graph.microsoft.com/v1.0" {
		t.Errorf("graph = %+v", cfg.Remote.Graph)
	}
	if cfg.Navigation.PageSize != 20 || cfg.Navigation.View != "folder" {
		t.Errorf("navigation = %+v", cfg.Navigation)
	}
	if cfg.Ranker.SimilarityThreshold != 0.2 || cfg.Ranker.MinTokens != 6 {
		t.Errorf("ranker = %+v", cfg.Ranker)
	}
	if cfg.Download.Dir != "downloads" || cfg.Logging.Level != "info" {
		t.Errorf("download=%+v logging=%+v", cfg.Download, cfg.Logging)
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `remote:
  type: local
  local:
    root: /srv/share
navigation:
  page_size: 5
ranker:
  exclude_patterns:
    - "^Artificial intelligence"
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Remote.Local.Root != "/srv/share" || cfg.Remote.Graph != nil {
		t.Errorf("remote = %+v", cfg.Remote)
	}
	if cfg.Navigation.PageSize != 5 || cfg.Navigation.View != "folder" {
		t.Errorf("navigation = %+v", cfg.Navigation)
	}
	if len(cfg.Ranker.ExcludePatterns) != 1 || cfg.Ranker.MinTokens != 6 {
		t.Errorf("ranker = %+v", cfg.Ranker)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("remote: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Remote.Graph.SiteID = "contoso.sharepoint.com,abc,def"
	cfg.Navigation.View = "tree"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Remote.Graph.SiteID != cfg.Remote.Graph.SiteID || got.Navigation.View != "tree" {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestLoadDefaultWritesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, path, err := LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(home, ".config", "driveqa", "config.yaml") {
		t.Errorf("path = %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults should be written: %v", err)
	}
	if cfg.Navigation.PageSize != 20 {
		t.Errorf("page size = %d", cfg.Navigation.PageSize)
	}
}
