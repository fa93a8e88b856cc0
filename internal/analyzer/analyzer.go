// Package analyzer inspects workbook structure without modifying it: sheets,
// tables, filters, data validations and the cross-sheet references that make
// a sheet unsafe to split on its own.
package analyzer

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"sheet-split/internal/logger"
	"sheet-split/internal/model"
	"sheet-split/internal/scope"

	"github.com/TsubasaBE/go-xlsb"
	"github.com/xuri/excelize/v2"
)

const filterDatabase = "_xlnm._FilterDatabase"

// sheetRefPattern matches 'Sheet Name'!A1 and Sheet!$A$1 references
var sheetRefPattern = regexp.MustCompile(`(?:'((?:[^']|'')+)'|([\p{L}_][\p{L}\p{N}_.]*))!\$?[A-Za-z]{1,3}\$?\d+`)

// formulaTags strips the element wrapper some excelize versions keep around formulas
var formulaTags = strings.NewReplacer("<formula1>", "", "</formula1>", "", "<formula2>", "", "</formula2>", "")

// AnalyzeWorkbook builds the structure report of the workbook at path
func AnalyzeWorkbook(path string) (*model.WorkbookReport, error) {
	format, err := model.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var report *model.WorkbookReport
	switch format {
	case model.FormatXLSB:
		report, err = analyzeXLSB(path)
	default:
		report, err = analyzeXLSX(path)
	}
	if err != nil {
		return nil, err
	}

	report.Path = path
	report.Format = format
	report.MainSheet = mainSheet(report.Sheets)
	return report, nil
}

func analyzeXLSX(path string) (*model.WorkbookReport, error) {
	sc := scope.New()
	defer sc.Close()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	scope.Track(sc, "inspected workbook", f)

	report := &model.WorkbookReport{}
	filtered := make(map[string]bool)
	for _, dn := range f.GetDefinedName() {
		if dn.Name == filterDatabase {
			filtered[dn.Scope] = true
			continue
		}
		if strings.HasPrefix(dn.Name, "_xlnm.") {
			continue
		}
		report.DefinedNames = append(report.DefinedNames, fmt.Sprintf("%s (%s)", dn.Name, definedNameScope(dn.Scope)))
	}

	for _, name := range f.GetSheetList() {
		sheet, err := inspectSheet(f, name)
		if err != nil {
			return nil, err
		}
		sheet.HasAutoFilter = filtered[name]
		report.Sheets = append(report.Sheets, sheet)
	}
	return report, nil
}

func inspectSheet(f *excelize.File, name string) (model.SheetReport, error) {
	sheet := model.SheetReport{Name: name}

	visible, err := f.GetSheetVisible(name)
	if err != nil {
		return sheet, err
	}
	sheet.Visible = visible

	if dim, err := f.GetSheetDimension(name); err == nil {
		sheet.Dimension = dim
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return sheet, fmt.Errorf("failed to read rows of %q: %w", name, err)
	}
	sheet.Rows = len(rows)
	for _, row := range rows {
		sheet.Columns = max(sheet.Columns, len(row))
	}

	tables, err := f.GetTables(name)
	if err != nil {
		logger.Debug("Sheet %s: tables unavailable: %v", name, err)
	}
	for _, t := range tables {
		sheet.Tables = append(sheet.Tables, t.Name)
	}

	dvs, err := f.GetDataValidations(name)
	if err != nil {
		logger.Debug("Sheet %s: data validations unavailable: %v", name, err)
	}
	for _, dv := range dvs {
		v := model.ValidationReport{
			Range:    dv.Sqref,
			Type:     dv.Type,
			Formula1: formulaTags.Replace(dv.Formula1),
			Formula2: formulaTags.Replace(dv.Formula2),
		}
		v.ReferencedSheets = ReferencedSheets(name, v.Formula1, v.Formula2)
		sheet.Validations = append(sheet.Validations, v)
	}
	return sheet, nil
}

// ReferencedSheets returns the sheets other than own named in the formulas, in first-seen order
func ReferencedSheets(own string, formulas ...string) []string {
	var refs []string
	for _, formula := range formulas {
		for _, m := range sheetRefPattern.FindAllStringSubmatch(formula, -1) {
			name := m[2]
			if m[1] != "" {
				name = strings.ReplaceAll(m[1], "''", "'")
			}
			if strings.EqualFold(name, own) || slices.Contains(refs, name) {
				continue
			}
			refs = append(refs, name)
		}
	}
	return refs
}

func definedNameScope(s string) string {
	if s == "" {
		return "Workbook"
	}
	return s
}

func analyzeXLSB(path string) (*model.WorkbookReport, error) {
	sc := scope.New()
	defer sc.Close()

	wb, err := xlsb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	scope.Track(sc, "inspected workbook", wb)

	report := &model.WorkbookReport{}
	for _, name := range wb.Sheets() {
		ws, err := wb.SheetByName(name)
		if err != nil {
			return nil, err
		}
		sheet := model.SheetReport{Name: name, Visible: wb.SheetVisible(name)}

		if d := ws.Dimension; d != nil && d.H > 0 && d.W > 0 {
			from, _ := excelize.CoordinatesToCellName(d.C+1, d.R+1)
			to, _ := excelize.CoordinatesToCellName(d.C+d.W, d.R+d.H)
			sheet.Dimension = from + ":" + to
		}

		for row := range ws.Rows(true) {
			// Rows are dimension-wide; blank cells carry a nil value
			width := 0
			for i, cell := range row {
				if cell.V != nil {
					width = i + 1
				}
			}
			if width == 0 {
				continue
			}
			sheet.Rows++
			sheet.Columns = max(sheet.Columns, width)
		}
		report.Sheets = append(report.Sheets, sheet)
	}
	return report, nil
}

// mainSheet picks the first visible sheet with data below its header
func mainSheet(sheets []model.SheetReport) string {
	for _, s := range sheets {
		if s.Visible && s.Rows > 1 {
			return s.Name
		}
	}
	return ""
}
