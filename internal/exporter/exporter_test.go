package exporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sheet-split/internal/config"
	"sheet-split/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func testSummary(dest string) *model.Summary {
	started := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &model.Summary{
		SourcePath:      filepath.Join(dest, "listing.xlsx"),
		Sheet:           "Listing",
		Column:          "Reviewer",
		Strategy:        model.StrategyHideRows,
		DestinationRoot: dest,
		StartedAt:       started,
		FinishedAt:      started.Add(2 * time.Second),
		TotalRows:       6,
		UnassignedRows:  1,
		State:           model.StateSummarized,
		Artifacts: []*model.Artifact{
			{
				Group:       model.Group{Key: "Alice Chen", Email: "alice.chen@company.com", Rows: []int{0, 2}},
				FolderName:  "Alice Chen",
				Dir:         filepath.Join(dest, "Alice Chen"),
				Path:        filepath.Join(dest, "Alice Chen", "listing - Alice Chen.xlsx"),
				VisibleRows: 2,
				HiddenRows:  4,
				Status:      model.StatusSucceeded,
			},
			{
				Group:       model.Group{Key: "Pat O'Brien", Rows: []int{1, 3}},
				FolderName:  "Pat O'Brien",
				Dir:         filepath.Join(dest, "Pat O'Brien"),
				Path:        filepath.Join(dest, "Pat O'Brien", "listing - Pat O'Brien.xlsx"),
				VisibleRows: 2,
				HiddenRows:  4,
				Status:      model.StatusSucceeded,
			},
			{
				Group:      model.Group{Key: "Bob", Email: "bob@company.com", Rows: []int{4}},
				FolderName: "Bob",
				Dir:        filepath.Join(dest, "Bob"),
				Path:       filepath.Join(dest, "Bob", "listing - Bob.xlsx"),
				Status:     model.StatusFailed,
				Err:        errors.New("write failed: disk full"),
			},
		},
	}
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Output: config.OutputConfig{Dir: dir, FileName: "split_report"},
		Trigger: config.TriggerConfig{
			SiteURL:         "https://company.sharepoint.com/sites/Reviews",
			Library:         "Shared Documents",
			PermissionLevel: "Read",
			TableName:       "FolderPermissions",
		},
	}
}

func TestGetExporters(t *testing.T) {
	exporters := GetExporters([]string{"xlsx", "Trigger", " YAML ", "yml", "ps1", "json", "html", "bogus", ""})

	names := make([]string, len(exporters))
	for i, e := range exporters {
		names[i] = e.Name()
	}
	assert.Equal(t, []string{"trigger", "yaml", "share", "json", "html"}, names)
}

func TestTriggerExport(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	require.NoError(t, NewTriggerExporter().Export(testSummary(dir), cfg))

	f, err := excelize.OpenFile(cfg.GetOutputPath())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{PermissionsSheet, OptionsSheet, InstructionsSheet}, f.GetSheetList())

	rows, err := f.GetRows(PermissionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus succeeded groups only")
	assert.Equal(t, TriggerHeader, rows[0])
	assert.Equal(t, []string{
		"Alice Chen", "Alice Chen", "/sites/Reviews/Shared Documents/Alice Chen", "alice.chen@company.com",
		"Read", StatusPending, "", "", "https://company.sharepoint.com/sites/Reviews", "Shared Documents",
	}, rows[1])
	assert.Equal(t, "Pat O'Brien", rows[2][0])
	assert.Empty(t, rows[2][3])

	tables, err := f.GetTables(PermissionsSheet)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "FolderPermissions", tables[0].Name)
	assert.Equal(t, "A1:J3", tables[0].Range)

	dvs, err := f.GetDataValidations(PermissionsSheet)
	require.NoError(t, err)
	assert.Len(t, dvs, 2)

	visible, err := f.GetSheetVisible(OptionsSheet)
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestTriggerExportWithoutGroups(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	summary := &model.Summary{SourcePath: filepath.Join(dir, "listing.xlsx"), State: model.StateSummarized}

	require.NoError(t, NewTriggerExporter().Export(summary, cfg))

	f, err := excelize.OpenFile(cfg.GetOutputPath())
	require.NoError(t, err)
	defer f.Close()
	tables, err := f.GetTables(PermissionsSheet)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestFolderPath(t *testing.T) {
	tests := []struct {
		site     string
		expected string
	}{
		{"https://company.sharepoint.com/sites/Reviews", "/sites/Reviews/Docs/Alice"},
		{"https://company.sharepoint.com/sites/Reviews/", "/sites/Reviews/Docs/Alice"},
		{"", "/Docs/Alice"},
	}

	for _, tt := range tests {
		got := FolderPath(config.TriggerConfig{SiteURL: tt.site, Library: "Docs"}, "Alice")
		assert.Equal(t, tt.expected, got, tt.site)
	}
}

func TestShareExport(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	require.NoError(t, NewShareExporter().Export(testSummary(dir), cfg))

	raw, err := os.ReadFile(cfg.GetSharePath())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "missing UTF-8 BOM")

	script := string(raw[3:])
	assert.Contains(t, script, "\r\n")
	assert.Contains(t, script, "$siteUrl = 'https://company.sharepoint.com/sites/Reviews'")
	assert.Contains(t, script, "$userEmail = 'alice.chen@company.com'")
	assert.Contains(t, script, `$folderPath = "$library/" + 'Pat O''Brien'`)
	assert.Contains(t, script, "$userEmail = Read-Host 'Enter email for Pat O''Brien'")
	assert.Contains(t, script, "-AddRole 'Read'")
	assert.NotContains(t, script, "Bob")
}

func TestShareExportPromptsForSite(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Trigger.SiteURL = ""

	require.NoError(t, NewShareExporter().Export(testSummary(dir), cfg))

	raw, err := os.ReadFile(cfg.GetSharePath())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "$siteUrl = Read-Host 'Enter SharePoint site URL'")
}

func TestReportExportYAML(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	require.NoError(t, NewReportExporter(FormatYAML).Export(testSummary(dir), cfg))

	raw, err := os.ReadFile(cfg.GetReportPath(".yaml"))
	require.NoError(t, err)

	var report Report
	require.NoError(t, yaml.Unmarshal(raw, &report))
	assert.Equal(t, "Reviewer", report.Column)
	assert.Equal(t, "hide_rows", report.Strategy)
	assert.Equal(t, model.StateSummarized.String(), report.State)
	assert.Equal(t, GroupCounts{Total: 3, Succeeded: 2, Failed: 1}, report.Groups)
	require.Len(t, report.Items, 3)
	assert.Equal(t, "write failed: disk full", report.Items[2].Error)
	assert.Equal(t, 2, report.Items[0].Rows)
	assert.Contains(t, string(raw), "destination_root:")
}

func TestReportExportJSON(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	require.NoError(t, NewReportExporter(FormatJSON).Export(testSummary(dir), cfg))

	raw, err := os.ReadFile(cfg.GetReportPath(".json"))
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, 6, report.TotalRows)
	assert.Equal(t, 1, report.UnassignedRows)
	assert.Equal(t, "Alice Chen", report.Items[0].Key)
	assert.False(t, strings.Contains(string(raw), `"email": ""`), "empty emails are omitted")
}
