package config

import (
	"os"
	"path/filepath"
	"testing"

	"sheet-split/internal/model"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	// Load config without a file (should use defaults)
	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load config with defaults: %v", err)
	}

	if cfg.Split.Strategy != string(model.StrategyHideRows) {
		t.Errorf("Expected default strategy hide_rows, got %q", cfg.Split.Strategy)
	}

	if !cfg.Split.SuffixKey {
		t.Error("Expected SuffixKey to default to true")
	}

	if cfg.Output.Dir != "" {
		t.Errorf("Expected Output.Dir to stay empty until a destination is known, got %q", cfg.Output.Dir)
	}

	if cfg.Output.FileName == "" {
		t.Error("Expected Output.FileName to be set")
	}

	if len(cfg.Output.Formats) == 0 {
		t.Error("Expected at least one output format")
	}

	if cfg.Run.ReclaimEvery != 10 {
		t.Errorf("Expected ReclaimEvery 10, got %d", cfg.Run.ReclaimEvery)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	t.Logf("Config loaded successfully with defaults")
	cfg.Print()
}

func TestLoadConfigFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := `split:
  column: Approver
  strategy: minimal
  ignore_values: ["#N/A", "-"]
  suffix_key: false
output:
  dir: reports
  formats: [share, json]
companions:
  patterns: ["*.docx"]
trigger:
  site_url: https://company.sharepoint.com/sites/Reviews
run:
  fail_on_partial: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Split.Column != "Approver" {
		t.Errorf("Column = %q, expected Approver", cfg.Split.Column)
	}
	strategy, err := cfg.Strategy()
	if err != nil || strategy != model.StrategyFilterOnly {
		t.Errorf("Strategy() = %q, %v; expected filter_only", strategy, err)
	}
	if len(cfg.Split.IgnoreValues) != 2 {
		t.Errorf("IgnoreValues = %v, expected 2 entries", cfg.Split.IgnoreValues)
	}
	if cfg.Split.SuffixKey {
		t.Error("Expected SuffixKey false")
	}
	if !filepath.IsAbs(cfg.Output.Dir) {
		t.Errorf("Expected absolute output dir, got %q", cfg.Output.Dir)
	}
	if cfg.Trigger.Library != "Shared Documents" {
		t.Errorf("Expected default library to survive a partial trigger section, got %q", cfg.Trigger.Library)
	}
	if !cfg.Run.FailOnPartial {
		t.Error("Expected FailOnPartial true")
	}
}

func TestIsCompanion(t *testing.T) {
	cfg := &Config{
		Companions: CompanionsConfig{
			Patterns: []string{
				"*.docx",
				"*.pdf",
				"Guide*",
			},
		},
	}

	tests := []struct {
		fileName string
		expected bool
	}{
		{"Instructions.docx", true},
		{"Policy.pdf", true},
		{"Guide.txt", true},
		{"~$Instructions.docx", false},
		{"listing.xlsx", false},
		{"notes.doc", false},
	}

	for _, tt := range tests {
		result := cfg.IsCompanion(tt.fileName)
		if result != tt.expected {
			t.Errorf("IsCompanion(%s) = %v, expected %v", tt.fileName, result, tt.expected)
		}
	}
}

func TestResolveOutputDir(t *testing.T) {
	destRoot := filepath.Join(t.TempDir(), "split")
	cfg := &Config{}

	if err := cfg.ResolveOutputDir(destRoot); err != nil {
		t.Fatalf("ResolveOutputDir failed: %v", err)
	}
	if cfg.Output.Dir != destRoot {
		t.Errorf("Output.Dir = %s, expected %s", cfg.Output.Dir, destRoot)
	}
	if info, err := os.Stat(destRoot); err != nil || !info.IsDir() {
		t.Errorf("Expected %s to be created", destRoot)
	}

	explicit := filepath.Join(t.TempDir(), "reports")
	cfg = &Config{Output: OutputConfig{Dir: explicit}}
	if err := cfg.ResolveOutputDir(destRoot); err != nil {
		t.Fatalf("ResolveOutputDir failed: %v", err)
	}
	if cfg.Output.Dir != explicit {
		t.Errorf("Explicit Output.Dir overwritten: %s", cfg.Output.Dir)
	}
}

func TestGetOutputPath(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{
			Dir:      "/tmp/output",
			FileName: "test-report",
		},
	}

	if got, want := cfg.GetOutputPath(), filepath.Join("/tmp/output", "test-report.xlsx"); got != want {
		t.Errorf("GetOutputPath() = %s, expected %s", got, want)
	}
	if got, want := cfg.GetReportPath(".yaml"), filepath.Join("/tmp/output", "test-report.yaml"); got != want {
		t.Errorf("GetReportPath() = %s, expected %s", got, want)
	}
	if got, want := cfg.GetSharePath(), filepath.Join("/tmp/output", "share_folders.ps1"); got != want {
		t.Errorf("GetSharePath() = %s, expected %s", got, want)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Split:   SplitConfig{Strategy: "hide_rows"},
			Output:  OutputConfig{FileName: "report"},
			Trigger: TriggerConfig{TableName: "FolderPermissions"},
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		shouldErr bool
	}{
		{"Valid config", func(c *Config) {}, false},
		{"Unknown strategy", func(c *Config) { c.Split.Strategy = "delete_rows" }, true},
		{"Empty output filename", func(c *Config) { c.Output.FileName = "" }, true},
		{"Negative reclaim interval", func(c *Config) { c.Run.ReclaimEvery = -1 }, true},
		{"Table name with spaces", func(c *Config) { c.Trigger.TableName = "Folder Permissions" }, true},
		{"Nonexistent companion directory", func(c *Config) { c.Companions.Dir = "/nonexistent/directory" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.shouldErr && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		str      string
		pattern  string
		expected bool
	}{
		{"Guide.docx", "*.docx", true},
		{"Guide.pdf", "*.docx", false},
		{"Guide.docx", "Guide*", true},
		{"ReviewGuide.docx", "*Guide*", true},
		{"Guide.docx", "Guide.docx", true},
		{"anything", "*", true},
	}

	for _, tt := range tests {
		result := matchPattern(tt.str, tt.pattern)
		if result != tt.expected {
			t.Errorf("matchPattern(%s, %s) = %v, expected %v", tt.str, tt.pattern, result, tt.expected)
		}
	}
}
