package exporter

import (
	"fmt"
	"net/url"
	"path"

	"sheet-split/internal/config"
	"sheet-split/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	PermissionsSheet  = "Permissions"
	InstructionsSheet = "Instructions"
	OptionsSheet      = "Options"

	// StatusPending is the value the flow watches for
	StatusPending = "Pending"
)

// TriggerHeader is the column layout the Power Automate flow reads
var TriggerHeader = []string{
	"Reviewer", "Folder Name", "Folder Path", "Email", "Permission Level",
	"Status", "Processed At", "Result", "Site URL", "Library",
}

var (
	permissionLevels = []string{"Read", "Contribute", "Edit", "Full Control"}
	flowStatuses     = []string{StatusPending, "Processing", "Done", "Failed"}
)

// TriggerExporter writes the workbook a Power Automate flow watches to grant folder permissions
type TriggerExporter struct {
	// Stateless
}

// NewTriggerExporter creates a new TriggerExporter
func NewTriggerExporter() *TriggerExporter {
	return &TriggerExporter{}
}

// Name returns the format name
func (e *TriggerExporter) Name() string {
	return "trigger"
}

// Export generates the trigger workbook with one row per succeeded group
func (e *TriggerExporter) Export(summary *model.Summary, cfg *config.Config) error {
	outputFile := cfg.GetOutputPath()
	f := excelize.NewFile()
	defer f.Close()

	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", PermissionsSheet); err != nil {
		return err
	}

	// 1. Permissions table
	rows, err := e.writePermissions(f, styler, summary, cfg.Trigger)
	if err != nil {
		return err
	}

	// 2. Hidden option lists + drop-downs
	if err := e.writeOptions(f, rows); err != nil {
		return err
	}

	// 3. Instructions
	if err := e.writeInstructions(f, styler, cfg.Trigger); err != nil {
		return err
	}

	// Save
	if err := f.SaveAs(outputFile); err != nil {
		return err
	}

	return nil
}

// --- Permissions Sheet Logic ---

func (e *TriggerExporter) writePermissions(f *excelize.File, s *Styler, summary *model.Summary, trigger config.TriggerConfig) (int, error) {
	sheet := PermissionsSheet
	e.writeRow(f, sheet, 1, TriggerHeader, s.HeaderStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	row := 2
	for _, a := range summary.SucceededArtifacts() {
		values := []interface{}{
			a.Group.Key,
			a.FolderName,
			FolderPath(trigger, a.FolderName),
			a.Group.Email,
			trigger.PermissionLevel,
			StatusPending,
			"", // Processed At, set by the flow
			"", // Result, set by the flow
			trigger.SiteURL,
			trigger.Library,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return 0, err
		}
		row++
	}
	count := row - 2

	// A table needs at least one data row
	if count > 0 {
		if err := f.AddTable(sheet, &excelize.Table{
			Range:     fmt.Sprintf("A1:J%d", count+1),
			Name:      trigger.TableName,
			StyleName: "TableStyleMedium2",
		}); err != nil {
			return 0, fmt.Errorf("failed to add table %s: %w", trigger.TableName, err)
		}
	}

	// Column widths
	f.SetColWidth(sheet, "A", "B", 15) // Reviewer/Folder
	f.SetColWidth(sheet, "C", "C", 40) // Folder Path
	f.SetColWidth(sheet, "D", "D", 30) // Email
	f.SetColWidth(sheet, "E", "F", 15) // Permission/Status
	f.SetColWidth(sheet, "G", "G", 20) // Processed At
	f.SetColWidth(sheet, "H", "H", 30) // Result
	f.SetColWidth(sheet, "I", "I", 50) // Site URL
	f.SetColWidth(sheet, "J", "J", 15) // Library

	return count, nil
}

// FolderPath returns the server-relative folder path the flow grants access to,
// e.g. /sites/Reviews/Shared Documents/Alice
func FolderPath(trigger config.TriggerConfig, folder string) string {
	base := "/"
	if u, err := url.Parse(trigger.SiteURL); err == nil && u.Path != "" {
		base = u.Path
	}
	return path.Join(base, trigger.Library, folder)
}

// --- Options Sheet Logic ---

func (e *TriggerExporter) writeOptions(f *excelize.File, rows int) error {
	sheet := OptionsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for i, level := range permissionLevels {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), level)
	}
	for i, status := range flowStatuses {
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), status)
	}
	if err := f.SetSheetVisible(sheet, false); err != nil {
		return err
	}

	// Leave room for rows added by hand
	last := rows + 100
	lists := []struct {
		col, ref string
	}{
		{"E", fmt.Sprintf("%s!$A$1:$A$%d", sheet, len(permissionLevels))},
		{"F", fmt.Sprintf("%s!$B$1:$B$%d", sheet, len(flowStatuses))},
	}
	for _, l := range lists {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s%d", l.col, l.col, last+1)
		dv.SetSqrefDropList(l.ref)
		if err := f.AddDataValidation(PermissionsSheet, dv); err != nil {
			return err
		}
	}
	return nil
}

// --- Instructions Sheet Logic ---

func (e *TriggerExporter) writeInstructions(f *excelize.File, s *Styler, trigger config.TriggerConfig) error {
	sheet := InstructionsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	lines := []struct {
		text  string
		style int
	}{
		{"SharePoint folder permission trigger", s.TitleStyle},
		{"", 0},
		{"Step 1: Set up the flow", s.StepStyle},
		{"1. Upload the group folders to the " + trigger.Library + " library", 0},
		{"2. Upload this workbook to OneDrive or SharePoint", 0},
		{"3. Point the flow's Excel Online action at table " + trigger.TableName, 0},
		{"", 0},
		{"Step 2: Review the rows", s.StepStyle},
		{"1. Fill in any missing Email values", 0},
		{"2. Adjust Permission Level per row if needed", 0},
		{"", 0},
		{"Step 3: Trigger processing", s.StepStyle},
		{"1. Rows with Status " + StatusPending + " are picked up by the flow", 0},
		{"2. The flow writes Processed At and Result, and sets Status to Done or Failed", 0},
		{"", 0},
		{"Permission levels", s.StepStyle},
		{"Read: view and download", 0},
		{"Contribute: view, download, upload and edit", 0},
		{"Edit: contribute plus delete", 0},
		{"Full Control: use with care", 0},
	}

	for i, line := range lines {
		cell := fmt.Sprintf("A%d", i+1)
		f.SetCellValue(sheet, cell, line.text)
		if line.style != 0 {
			f.SetCellStyle(sheet, cell, cell, line.style)
		}
	}
	f.SetColWidth(sheet, "A", "A", 80)
	return nil
}

func (e *TriggerExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
