package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sheet-split/internal/model"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Split      SplitConfig      `mapstructure:"split"`
	Output     OutputConfig     `mapstructure:"output"`
	Companions CompanionsConfig `mapstructure:"companions"`
	Trigger    TriggerConfig    `mapstructure:"trigger"`
	Run        RunConfig        `mapstructure:"run"`
}

// SplitConfig holds partitioning settings
type SplitConfig struct {
	Column       string   `mapstructure:"column"`        // Partition column, used when no column argument is given
	Sheet        string   `mapstructure:"sheet"`         // Worksheet name; empty selects the active sheet
	Strategy     string   `mapstructure:"strategy"`      // hide_rows, filter_only or copy
	EmailColumn  string   `mapstructure:"email_column"`  // Optional column holding reviewer emails
	IgnoreValues []string `mapstructure:"ignore_values"` // Key values treated as empty (e.g., "#N/A")
	SuffixKey    bool     `mapstructure:"suffix_key"`    // Append " - <key>" to artifact file names
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string   `mapstructure:"dir"`       // Report directory; empty means the destination root
	FileName string   `mapstructure:"file_name"` // Report file name (without extension)
	Formats  []string `mapstructure:"formats"`   // Exporters to run after the split
}

// CompanionsConfig holds the documents copied into every group folder
type CompanionsConfig struct {
	Dir              string   `mapstructure:"dir"`               // Where to look; empty means the source directory
	Patterns         []string `mapstructure:"patterns"`          // File name patterns (e.g., "*.docx")
	FillPlaceholders bool     `mapstructure:"fill_placeholders"` // Fill {{Reviewer}} style fields in .docx files
}

// TriggerConfig holds the values written into the Power Automate trigger workbook
type TriggerConfig struct {
	SiteURL         string `mapstructure:"site_url"`         // SharePoint site (e.g., "https://company.sharepoint.com/sites/Reviews")
	Library         string `mapstructure:"library"`          // Document library holding the group folders
	PermissionLevel string `mapstructure:"permission_level"` // Read, Contribute or Edit
	TableName       string `mapstructure:"table_name"`       // Excel table the flow reads
}

// RunConfig holds run behavior settings
type RunConfig struct {
	FailOnPartial bool `mapstructure:"fail_on_partial"` // Exit 2 when any group or exporter fails
	ReclaimEvery  int  `mapstructure:"reclaim_every"`   // Force memory reclamation every n groups (0 = never)
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses sensible defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set sensible defaults
	setDefaults(v)

	// Determine config file to use
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Set config file
	v.SetConfigFile(configPath)

	// Read config file (ignore error if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Println("Config file not found. Using defaults.")
		} else {
			// Config file found but has some other error
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Normalize paths
	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	// Split defaults
	v.SetDefault("split.column", "")
	v.SetDefault("split.sheet", "")
	v.SetDefault("split.strategy", string(model.StrategyHideRows))
	v.SetDefault("split.email_column", "Email Address")
	v.SetDefault("split.ignore_values", []string{})
	v.SetDefault("split.suffix_key", true)

	// Output defaults
	v.SetDefault("output.dir", "")
	v.SetDefault("output.file_name", "split_report")
	v.SetDefault("output.formats", []string{"trigger", "yaml"})

	// Companion defaults - nothing is copied unless patterns are configured
	v.SetDefault("companions.dir", "")
	v.SetDefault("companions.patterns", []string{})
	v.SetDefault("companions.fill_placeholders", true)

	// Trigger defaults
	v.SetDefault("trigger.site_url", "")
	v.SetDefault("trigger.library", "Shared Documents")
	v.SetDefault("trigger.permission_level", "Read")
	v.SetDefault("trigger.table_name", "FolderPermissions")

	// Run defaults
	v.SetDefault("run.fail_on_partial", false)
	v.SetDefault("run.reclaim_every", 10)
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	if c.Output.Dir != "" {
		absOutput, err := filepath.Abs(c.Output.Dir)
		if err != nil {
			return fmt.Errorf("failed to resolve output.dir: %w", err)
		}
		c.Output.Dir = absOutput
	}

	if c.Companions.Dir != "" {
		absCompanions, err := filepath.Abs(c.Companions.Dir)
		if err != nil {
			return fmt.Errorf("failed to resolve companions.dir: %w", err)
		}
		c.Companions.Dir = absCompanions
	}

	return nil
}

// ResolveOutputDir defaults the report directory to destRoot and creates it
func (c *Config) ResolveOutputDir(destRoot string) error {
	if c.Output.Dir == "" {
		c.Output.Dir = destRoot
	}
	return c.EnsureOutputDir()
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// IsCompanion checks if a file name matches any companion pattern
func (c *Config) IsCompanion(fileName string) bool {
	// Office lock files (~$Guide.docx) are never copied
	if strings.HasPrefix(fileName, "~$") {
		return false
	}
	for _, pattern := range c.Companions.Patterns {
		if matchPattern(fileName, pattern) {
			return true
		}
	}
	return false
}

// Strategy returns the parsed suppression strategy
func (c *Config) Strategy() (model.Strategy, error) {
	return model.ParseStrategy(c.Split.Strategy)
}

// GetOutputPath returns the full path for the trigger workbook
func (c *Config) GetOutputPath() string {
	return c.GetReportPath(".xlsx")
}

// GetReportPath returns the report file path for the given extension
func (c *Config) GetReportPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+ext)
}

// GetSharePath returns the full path for the share script
func (c *Config) GetSharePath() string {
	return filepath.Join(c.Output.Dir, "share_folders.ps1")
}

// GetLogPath returns the log file path inside dir
func GetLogPath(dir string) string {
	return filepath.Join(dir, "sheet_split.log")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.Strategy(); err != nil {
		return fmt.Errorf("split.strategy: %w", err)
	}

	// Check if output filename is not empty
	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	if c.Run.ReclaimEvery < 0 {
		return fmt.Errorf("run.reclaim_every cannot be negative")
	}

	if c.Trigger.TableName == "" {
		return fmt.Errorf("trigger.table_name cannot be empty")
	}
	if strings.ContainsAny(c.Trigger.TableName, " -.") {
		return fmt.Errorf("trigger.table_name %q must not contain spaces, dashes or dots", c.Trigger.TableName)
	}

	// Check companion directory if explicitly set
	if c.Companions.Dir != "" {
		if _, err := os.Stat(c.Companions.Dir); os.IsNotExist(err) {
			return fmt.Errorf("companions.dir does not exist: %s", c.Companions.Dir)
		}
	}

	return nil
}

// matchPattern checks if a string matches a simple glob pattern
// Supports only '*' wildcard at the beginning or end
func matchPattern(str, pattern string) bool {
	if pattern == "*" {
		return true
	}

	if strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") {
		// *foo* - contains
		middle := pattern[1 : len(pattern)-1]
		return strings.Contains(str, middle)
	} else if strings.HasPrefix(pattern, "*") {
		// *foo - ends with
		suffix := pattern[1:]
		return strings.HasSuffix(str, suffix)
	} else if strings.HasSuffix(pattern, "*") {
		// foo* - starts with
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(str, prefix)
	}

	// Exact match
	return str == pattern
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Sheet Split Configuration ===")
	fmt.Printf("Partition Column: %s\n", c.Split.Column)
	fmt.Printf("Sheet:            %s\n", valueOr(c.Split.Sheet, "(active sheet)"))
	fmt.Printf("Strategy:         %s\n", c.Split.Strategy)
	fmt.Printf("Email Column:     %s\n", c.Split.EmailColumn)
	fmt.Printf("Ignore Values:    %v\n", c.Split.IgnoreValues)
	fmt.Printf("Suffix Key:       %v\n", c.Split.SuffixKey)
	fmt.Printf("Output Directory: %s\n", valueOr(c.Output.Dir, "(destination root)"))
	fmt.Printf("Output Formats:   %v\n", c.Output.Formats)
	fmt.Printf("Companions:       %v\n", c.Companions.Patterns)
	fmt.Printf("SharePoint Site:  %s\n", valueOr(c.Trigger.SiteURL, "(not set)"))
	fmt.Printf("Fail On Partial:  %v\n", c.Run.FailOnPartial)
	fmt.Println("=================================")
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
