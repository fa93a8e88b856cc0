package html

import (
	"html/template"
	"os"
	"path/filepath"

	"sheet-split/internal/config"
	"sheet-split/internal/model"
)

type HTMLExporter struct{}

func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// Name returns the format name
func (e *HTMLExporter) Name() string {
	return "html"
}

// RunIndexData is the view model of RunIndexTemplate
type RunIndexData struct {
	SourceName     string
	Sheet          string
	Column         string
	Strategy       string
	Generated      string
	Total          int
	Succeeded      int
	Failed         int
	TotalRows      int
	UnassignedRows int
	Rows           []RowData
}

// RowData is one group line of the index
type RowData struct {
	Key     string
	Email   string
	Folder  string
	Link    string // relative to the report, empty unless the workbook was written
	Visible int
	Hidden  int
	Status  string
	Error   string
}

func (e *HTMLExporter) Export(summary *model.Summary, cfg *config.Config) error {
	outputFile := cfg.GetReportPath(".html")
	data := buildData(summary, filepath.Dir(outputFile))

	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	tmpl, err := template.New("run-index").Funcs(template.FuncMap{
		"statusClass": statusClass,
		"inc": func(i int) int {
			return i + 1
		},
	}).Parse(RunIndexTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(f, data)
}

func buildData(summary *model.Summary, reportDir string) RunIndexData {
	data := RunIndexData{
		SourceName:     filepath.Base(summary.SourcePath),
		Sheet:          summary.Sheet,
		Column:         summary.Column,
		Strategy:       string(summary.Strategy),
		Generated:      summary.FinishedAt.Format("2006-01-02 15:04:05"),
		Total:          summary.Total(),
		Succeeded:      summary.Succeeded(),
		Failed:         summary.Failed(),
		TotalRows:      summary.TotalRows,
		UnassignedRows: summary.UnassignedRows,
	}

	for _, a := range summary.Artifacts {
		row := RowData{
			Key:     a.Group.Key,
			Email:   a.Group.Email,
			Folder:  a.FolderName,
			Visible: a.VisibleRows,
			Hidden:  a.HiddenRows,
			Status:  string(a.Status),
		}
		if a.Status == model.StatusSucceeded {
			if rel, err := filepath.Rel(reportDir, a.Path); err == nil {
				row.Link = filepath.ToSlash(rel)
			}
		}
		if a.Err != nil {
			row.Error = a.Err.Error()
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// statusClass returns the CSS class for an artifact status
func statusClass(status string) string {
	switch model.ArtifactStatus(status) {
	case model.StatusSucceeded:
		return "status-succeeded"
	case model.StatusFailed:
		return "status-failed"
	case model.StatusSkipped:
		return "status-skipped"
	default:
		return "status-pending"
	}
}
