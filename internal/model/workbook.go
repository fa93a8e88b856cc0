package model

// WorkbookReport describes the structure of a workbook for the inspect command
type WorkbookReport struct {
	Path   string
	Format SourceFormat

	// Sheets in workbook order
	Sheets []SheetReport

	// DefinedNames lists workbook and sheet scoped names ("Name (Scope)")
	DefinedNames []string

	// MainSheet is the first visible sheet holding more than a header row
	MainSheet string
}

// CrossSheetReferences counts validations that pull their list from another sheet
func (r *WorkbookReport) CrossSheetReferences() int {
	n := 0
	for _, s := range r.Sheets {
		for _, v := range s.Validations {
			if len(v.ReferencedSheets) > 0 {
				n++
			}
		}
	}
	return n
}

// SheetReport describes one worksheet
type SheetReport struct {
	Name          string
	Visible       bool
	Dimension     string
	Rows          int
	Columns       int
	Tables        []string
	HasAutoFilter bool
	Validations   []ValidationReport
}

// ValidationReport describes one data validation rule
type ValidationReport struct {
	Range            string
	Type             string
	Formula1         string
	Formula2         string
	ReferencedSheets []string
}
