package splitter

import (
	"fmt"
	"slices"

	"sheet-split/internal/model"
	"sheet-split/internal/scope"
	"sheet-split/internal/source"

	"github.com/xuri/excelize/v2"
)

// Validate reopens the artifact at path and checks it against the source:
// same header, same row count, visible header and at least one visible data row.
func Validate(path string, want *model.Dataset) error {
	got, err := source.Open(path, want.Sheet)
	if err != nil {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("cannot reopen: %v", err)}
	}

	if !slices.Equal(got.Header, want.Header) {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("header changed: %q != %q", got.Header, want.Header)}
	}
	if got.RowCount() != want.RowCount() {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("row count %d, source has %d", got.RowCount(), want.RowCount())}
	}
	if len(want.Rows) == 0 {
		return &ValidationError{Path: path, Reason: "no data rows"}
	}

	// Binary workbooks are byte copies with the source's own visibility
	if got.Format == model.FormatXLSB {
		return nil
	}

	header, visible, err := rowVisibility(path, want.Sheet, want.RowCount())
	if err != nil {
		return &ValidationError{Path: path, Reason: err.Error()}
	}
	if !header {
		return &ValidationError{Path: path, Reason: "header row is hidden"}
	}
	if visible == 0 {
		return &ValidationError{Path: path, Reason: "every data row is hidden"}
	}
	return nil
}

// rowVisibility reports whether the header is visible and the 1-based number
// of the first visible data row, or 0
func rowVisibility(path, sheet string, rowCount int) (bool, int, error) {
	sc := scope.New()
	defer sc.Close()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return false, 0, err
	}
	scope.Track(sc, "validated workbook", f)

	header, err := f.GetRowVisible(sheet, 1)
	if err != nil {
		return false, 0, err
	}
	for r := 2; r <= rowCount; r++ {
		visible, err := f.GetRowVisible(sheet, r)
		if err != nil {
			return false, 0, err
		}
		if visible {
			return header, r, nil
		}
	}
	return header, 0, nil
}
