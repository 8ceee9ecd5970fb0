package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"crm-analytics/internal/analytics"

	"github.com/joho/godotenv"
)

func TestGodotenvQuoting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.test")
	if err := os.WriteFile(path, []byte(`STAGE_RULES_PATH='rules "custom".yml'`), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `rules "custom".yml`
	if env["STAGE_RULES_PATH"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["STAGE_RULES_PATH"])
	}
}

func TestLoad_Settings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("ENABLE_MERMAID_CHARTS", "true")
	t.Setenv("TEAM_RANK_LIMIT", "4")
	t.Setenv("USER_RANK_LIMIT", "zero")
	t.Setenv("DEFAULT_WINDOW_DAYS", "-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.CacheDir != filepath.Join(dir, "cache") {
		t.Errorf("Expected cache dir under DATA_PATH, got %s", cfg.CacheDir)
	}
	if _, err := os.Stat(cfg.CacheDir); err != nil {
		t.Errorf("Expected cache dir to be created: %v", err)
	}
	if !cfg.EnableMermaidCharts {
		t.Error("Expected mermaid charts to be enabled")
	}
	if cfg.TeamRankLimit != 4 {
		t.Errorf("Expected team rank limit 4, got %d", cfg.TeamRankLimit)
	}
	if cfg.UserRankLimit != analytics.DefaultUserRankLimit {
		t.Errorf("Expected default user rank limit, got %d", cfg.UserRankLimit)
	}
	if cfg.DefaultWindowDays != analytics.DefaultWindowDays {
		t.Errorf("Expected default window days, got %d", cfg.DefaultWindowDays)
	}
}

func TestStageRules_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	custom := analytics.StageRules{
		Success: analytics.StageRule{Keywords: []string{"ganho"}, LegacyKey: "ganhos"},
	}

	if err := WriteStageRules(path, custom); err != nil {
		t.Fatalf("WriteStageRules failed: %v", err)
	}

	loaded, err := LoadStageRules(path)
	if err != nil {
		t.Fatalf("LoadStageRules failed: %v", err)
	}

	if !reflect.DeepEqual(loaded.Success, custom.Success) {
		t.Errorf("Expected success rule %+v, got %+v", custom.Success, loaded.Success)
	}
	if !reflect.DeepEqual(loaded.Visit, analytics.DefaultStageRules().Visit) {
		t.Errorf("Expected empty visit rule to fall back to the default, got %+v", loaded.Visit)
	}
}

func TestLoadStageRules_Missing(t *testing.T) {
	if _, err := LoadStageRules(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("Expected an error for a missing rules file")
	}
}

func TestEngineOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	if err := os.WriteFile(path, []byte("visit:\n  keywords: [tour]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &AppConfig{RulesPath: path, TeamRankLimit: 2, UserRankLimit: 7, DefaultWindowDays: 14}
	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatalf("EngineOptions failed: %v", err)
	}

	if opts.TeamRankLimit != 2 || opts.UserRankLimit != 7 || opts.DefaultWindowDays != 14 {
		t.Errorf("Unexpected limits: %+v", opts)
	}
	if len(opts.Rules.Visit.Keywords) != 1 || opts.Rules.Visit.Keywords[0] != "tour" {
		t.Errorf("Expected visit keywords [tour], got %v", opts.Rules.Visit.Keywords)
	}
	if opts.Rules.Success.LegacyKey != "vendas-fechadas" {
		t.Errorf("Expected default success rule, got %+v", opts.Rules.Success)
	}
}
