// Package source reads the partition source worksheet into a model.Dataset.
package source

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"sheet-split/internal/model"
	"sheet-split/internal/scope"

	"github.com/TsubasaBE/go-xlsb"
	"github.com/TsubasaBE/go-xlsb/workbook"
	"github.com/TsubasaBE/go-xlsb/worksheet"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptySheet indicates the selected sheet has no header row
	ErrEmptySheet = errors.New("sheet has no header row")

	// ErrDuplicateHeader indicates two header cells carry the same name
	ErrDuplicateHeader = errors.New("duplicate header name")
)

// Open reads sheet from the workbook at path. An empty sheet selects the
// active sheet (xlsx) or the first sheet (xlsb).
func Open(path, sheet string) (*model.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("source not accessible: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("source %s is a directory", path)
	}

	format, err := model.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case model.FormatXLSB:
		sheet, rows, err = readXLSB(path, sheet)
	default:
		sheet, rows, err = readXLSX(path, sheet)
	}
	if err != nil {
		return nil, err
	}

	return build(path, sheet, format, rows)
}

func readXLSX(path, sheet string) (string, [][]string, error) {
	sc := scope.New()
	defer sc.Close()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	scope.Track(sc, "source workbook", f)

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return "", nil, fmt.Errorf("sheet %q not found (available: %s)", sheet, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read rows of %q: %w", sheet, err)
	}
	return sheet, rows, nil
}

func readXLSB(path, sheet string) (string, [][]string, error) {
	sc := scope.New()
	defer sc.Close()

	wb, err := xlsb.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	scope.Track(sc, "source workbook", wb)

	ws, err := openXLSBSheet(wb, sheet)
	if err != nil {
		return "", nil, err
	}

	var rows [][]string
	for row := range ws.Rows(false) {
		values := make([]string, len(row))
		for i, cell := range row {
			values[i] = wb.FormatCell(cell.V, cell.Style)
		}
		rows = append(rows, trimTrailing(values))
	}

	// Match excelize: no trailing empty rows
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return ws.Name, rows, nil
}

func openXLSBSheet(wb *workbook.Workbook, sheet string) (*worksheet.Worksheet, error) {
	if sheet == "" {
		return wb.Sheet(1)
	}
	ws, err := wb.SheetByName(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q not found (available: %s)", sheet, strings.Join(wb.Sheets(), ", "))
	}
	return ws, nil
}

// build validates the header and projects every data row to header width
func build(path, sheet string, format model.SourceFormat, rows [][]string) (*model.Dataset, error) {
	if len(rows) == 0 || len(trimTrailing(rows[0])) == 0 {
		return nil, fmt.Errorf("%s: %w", sheet, ErrEmptySheet)
	}

	header := trimTrailing(rows[0])
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if first, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w %q in columns %d and %d", ErrDuplicateHeader, name, first+1, i+1)
		}
		seen[name] = i
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		projected := make([]string, len(header))
		copy(projected, row)
		data = append(data, projected)
	}

	return &model.Dataset{
		Path:   path,
		Sheet:  sheet,
		Format: format,
		Header: header,
		Rows:   data,
	}, nil
}

func trimTrailing(values []string) []string {
	end := len(values)
	for end > 0 && values[end-1] == "" {
		end--
	}
	return values[:end]
}
