package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"sheet-split/internal/config"
	"sheet-split/internal/model"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ShareExporter writes a PnP.PowerShell script granting each reviewer access to their folder
type ShareExporter struct{}

// NewShareExporter creates a new ShareExporter
func NewShareExporter() *ShareExporter {
	return &ShareExporter{}
}

// Name returns the format name
func (e *ShareExporter) Name() string {
	return "share"
}

type shareEntry struct {
	Key    string
	Folder string
	Email  string
}

type shareData struct {
	Source          string
	Generated       string
	SiteURL         string
	Library         string
	PermissionLevel string
	Entries         []shareEntry
}

// shareScript lines end in CRLF once rendered; Windows PowerShell 5.1 needs the BOM
// to read non-ASCII folder names.
const shareScript = `# PowerShell script to share group folders on SharePoint
# Source: {{.Source}}
# Generated: {{.Generated}}
# Run after uploading the group folders. Requires the PnP.PowerShell module.

{{if .SiteURL}}$siteUrl = {{ps .SiteURL}}{{else}}$siteUrl = Read-Host 'Enter SharePoint site URL'{{end}}
$library = {{ps .Library}}

Connect-PnPOnline -Url $siteUrl -Interactive
{{range .Entries}}
# Share folder for {{.Key}}
$folderPath = "$library/" + {{ps .Folder}}
{{if .Email}}$userEmail = {{ps .Email}}{{else}}$userEmail = Read-Host {{ps (printf "Enter email for %s" .Key)}}{{end}}
try {
    Set-PnPFolderPermission -List $library -Identity $folderPath -User $userEmail -AddRole {{ps $.PermissionLevel}}
    Write-Host {{ps (printf "Shared folder for %s" .Key)}} -ForegroundColor Green
} catch {
    Write-Host ({{ps (printf "Failed to share with %s: " .Key)}} + $_) -ForegroundColor Red
}
{{end}}`

var shareTemplate = template.Must(template.New("share").Funcs(template.FuncMap{
	"ps": quotePS,
}).Parse(shareScript))

// quotePS returns s as a single-quoted PowerShell literal
func quotePS(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Export generates share_folders.ps1 for every succeeded group
func (e *ShareExporter) Export(summary *model.Summary, cfg *config.Config) error {
	data := shareData{
		Source:          filepath.Base(summary.SourcePath),
		Generated:       summary.FinishedAt.Format("2006-01-02 15:04"),
		SiteURL:         cfg.Trigger.SiteURL,
		Library:         cfg.Trigger.Library,
		PermissionLevel: cfg.Trigger.PermissionLevel,
	}
	for _, a := range summary.SucceededArtifacts() {
		data.Entries = append(data.Entries, shareEntry{
			Key:    oneLine(a.Group.Key),
			Folder: a.FolderName,
			Email:  a.Group.Email,
		})
	}

	var b strings.Builder
	if err := shareTemplate.Execute(&b, data); err != nil {
		return fmt.Errorf("failed to render share script: %w", err)
	}
	script := strings.ReplaceAll(b.String(), "\n", "\r\n")

	f, err := os.Create(cfg.GetSharePath())
	if err != nil {
		return err
	}
	defer f.Close()

	w := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	if _, err := w.Write([]byte(script)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

// oneLine keeps keys with line breaks from ending a comment early
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
