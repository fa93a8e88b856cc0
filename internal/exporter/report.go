package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"sheet-split/internal/config"
	"sheet-split/internal/model"

	"gopkg.in/yaml.v3"
)

// ReportFormat selects the serialization of the run report
type ReportFormat string

const (
	FormatYAML ReportFormat = "yaml"
	FormatJSON ReportFormat = "json"
)

// Report is the machine-readable record of one run
type Report struct {
	Source          string    `yaml:"source" json:"source"`
	Sheet           string    `yaml:"sheet" json:"sheet"`
	Column          string    `yaml:"column" json:"column"`
	Strategy        string    `yaml:"strategy" json:"strategy"`
	DestinationRoot string    `yaml:"destination_root" json:"destination_root"`
	State           string    `yaml:"state" json:"state"`
	StartedAt       time.Time `yaml:"started_at" json:"started_at"`
	FinishedAt      time.Time `yaml:"finished_at" json:"finished_at"`

	TotalRows      int `yaml:"total_rows" json:"total_rows"`
	UnassignedRows int `yaml:"unassigned_rows" json:"unassigned_rows"`

	Groups GroupCounts      `yaml:"groups" json:"groups"`
	Items  []ArtifactReport `yaml:"artifacts" json:"artifacts"`
}

// GroupCounts tallies group outcomes
type GroupCounts struct {
	Total     int `yaml:"total" json:"total"`
	Succeeded int `yaml:"succeeded" json:"succeeded"`
	Failed    int `yaml:"failed" json:"failed"`
	Skipped   int `yaml:"skipped" json:"skipped"`
}

// ArtifactReport describes the outcome of one group
type ArtifactReport struct {
	Key         string   `yaml:"key" json:"key"`
	Email       string   `yaml:"email,omitempty" json:"email,omitempty"`
	Folder      string   `yaml:"folder" json:"folder"`
	Path        string   `yaml:"path" json:"path"`
	Status      string   `yaml:"status" json:"status"`
	Rows        int      `yaml:"rows" json:"rows"`
	VisibleRows int      `yaml:"visible_rows" json:"visible_rows"`
	HiddenRows  int      `yaml:"hidden_rows" json:"hidden_rows"`
	Companions  []string `yaml:"companions,omitempty" json:"companions,omitempty"`
	Error       string   `yaml:"error,omitempty" json:"error,omitempty"`
}

// NewReport flattens a summary into its serializable form
func NewReport(summary *model.Summary) *Report {
	r := &Report{
		Source:          summary.SourcePath,
		Sheet:           summary.Sheet,
		Column:          summary.Column,
		Strategy:        string(summary.Strategy),
		DestinationRoot: summary.DestinationRoot,
		State:           summary.State.String(),
		StartedAt:       summary.StartedAt,
		FinishedAt:      summary.FinishedAt,
		TotalRows:       summary.TotalRows,
		UnassignedRows:  summary.UnassignedRows,
		Groups: GroupCounts{
			Total:     summary.Total(),
			Succeeded: summary.Count(model.StatusSucceeded),
			Failed:    summary.Count(model.StatusFailed),
			Skipped:   summary.Count(model.StatusSkipped),
		},
	}

	for _, a := range summary.Artifacts {
		item := ArtifactReport{
			Key:         a.Group.Key,
			Email:       a.Group.Email,
			Folder:      a.FolderName,
			Path:        a.Path,
			Status:      string(a.Status),
			Rows:        len(a.Group.Rows),
			VisibleRows: a.VisibleRows,
			HiddenRows:  a.HiddenRows,
			Companions:  a.Companions,
		}
		if a.Err != nil {
			item.Error = a.Err.Error()
		}
		r.Items = append(r.Items, item)
	}
	return r
}

// ReportExporter writes the run report as YAML or JSON
type ReportExporter struct {
	format ReportFormat
}

// NewReportExporter creates a ReportExporter for format
func NewReportExporter(format ReportFormat) *ReportExporter {
	return &ReportExporter{format: format}
}

// Name returns the format name
func (e *ReportExporter) Name() string {
	return string(e.format)
}

// Export writes <file_name>.yaml or <file_name>.json
func (e *ReportExporter) Export(summary *model.Summary, cfg *config.Config) error {
	report := NewReport(summary)

	f, err := os.Create(cfg.GetReportPath("." + string(e.format)))
	if err != nil {
		return err
	}
	defer f.Close()

	switch e.format {
	case FormatJSON:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err = enc.Encode(report); err == nil {
			err = enc.Close()
		}
	default:
		err = fmt.Errorf("unknown report format %q", e.format)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s report: %w", e.format, err)
	}
	return f.Close()
}
