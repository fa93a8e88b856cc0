package analyzer

import (
	"path/filepath"
	"testing"

	"sheet-split/internal/model"
	"sheet-split/internal/sample"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAnalyzeSampleWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.xlsx")
	opts := sample.DefaultOptions()
	require.NoError(t, sample.Write(path, opts))

	report, err := AnalyzeWorkbook(path)
	require.NoError(t, err)

	assert.Equal(t, model.FormatXLSX, report.Format)
	assert.Equal(t, sample.DataSheet, report.MainSheet)
	require.Len(t, report.Sheets, 2)

	data := report.Sheets[0]
	assert.Equal(t, sample.DataSheet, data.Name)
	assert.True(t, data.Visible)
	assert.Equal(t, opts.Rows+1, data.Rows)
	assert.Equal(t, len(sample.Header), data.Columns)
	assert.False(t, data.HasAutoFilter)
	require.Len(t, data.Validations, 1)
	assert.Equal(t, "list", data.Validations[0].Type)
	assert.Equal(t, []string{sample.ListsSheet}, data.Validations[0].ReferencedSheets)
	assert.NotContains(t, data.Validations[0].Formula1, "<formula1>")

	lists := report.Sheets[1]
	assert.Equal(t, sample.ListsSheet, lists.Name)
	assert.False(t, lists.Visible)

	assert.Equal(t, 1, report.CrossSheetReferences())
}

func TestAnalyzeTablesAndNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.xlsx")

	f := excelize.NewFile()
	for i, row := range [][]interface{}{{"ID", "Reviewer"}, {1, "Alice"}, {2, "Bob"}} {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.AddTable("Sheet1", &excelize.Table{Range: "A1:B3", Name: "Reviews"}))
	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{Name: "Reviewers", RefersTo: "Sheet1!$B$2:$B$3"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	report, err := AnalyzeWorkbook(path)
	require.NoError(t, err)

	require.Len(t, report.Sheets, 1)
	assert.Equal(t, []string{"Reviews"}, report.Sheets[0].Tables)
	assert.Equal(t, []string{"Reviewers (Workbook)"}, report.DefinedNames)
	assert.Equal(t, "Sheet1", report.MainSheet)
}

func TestReferencedSheets(t *testing.T) {
	tests := []struct {
		name     string
		own      string
		formulas []string
		expected []string
	}{
		{"Plain reference", "Data", []string{"Lists!$A$1:$A$3"}, []string{"Lists"}},
		{"Quoted with space", "Data", []string{"'Status Lists'!A1:A3"}, []string{"Status Lists"}},
		{"Escaped quote", "Data", []string{"'Bob''s'!A1"}, []string{"Bob's"}},
		{"Own sheet ignored", "Data", []string{"Data!A1:A3"}, nil},
		{"Literal list", "Data", []string{`"Yes,No"`}, nil},
		{"Deduplicated", "Data", []string{"Lists!A1", "Lists!B1", "Other!C1"}, []string{"Lists", "Other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReferencedSheets(tt.own, tt.formulas...))
		})
	}
}

func TestAnalyzeRejectsUnknownFormat(t *testing.T) {
	_, err := AnalyzeWorkbook("notes.csv")
	assert.Error(t, err)
}
