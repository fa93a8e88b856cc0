package splitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sheet-split/internal/logger"
	"sheet-split/internal/model"
	"sheet-split/internal/scope"
	"sheet-split/internal/utils"

	"github.com/xuri/excelize/v2"
)

// Suppressor writes one destination artifact per group
type Suppressor struct {
	Strategy model.Strategy
}

// Result counts the data rows left visible and hidden in an artifact
type Result struct {
	Visible int
	Hidden  int
}

// Apply copies the source to dst and suppresses every data row whose key is not key.
// The source file is only ever read.
func (s *Suppressor) Apply(ds *model.Dataset, col int, key, dst string) (Result, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return Result{}, &WriteError{Key: key, Path: dst, Err: err}
	}
	if err := utils.CopyFile(ds.Path, dst); err != nil {
		return Result{}, &WriteError{Key: key, Path: dst, Err: err}
	}

	if s.Strategy == model.StrategyCopy {
		return Result{Visible: len(ds.Rows)}, nil
	}
	return s.edit(ds, col, key, dst)
}

func (s *Suppressor) edit(ds *model.Dataset, col int, key, dst string) (Result, error) {
	sc := scope.New()
	defer sc.Close()

	f, err := excelize.OpenFile(dst)
	if err != nil {
		return Result{}, &WriteError{Key: key, Path: dst, Err: err}
	}
	scope.Track(sc, "artifact workbook", f)

	// The header stays visible whatever the source did with it
	if err := f.SetRowVisible(ds.Sheet, 1, true); err != nil {
		return Result{}, &WriteError{Key: key, Path: dst, Err: err}
	}

	var res Result
	hide := s.Strategy == model.StrategyHideRows
	for i, row := range ds.Rows {
		excelRow := i + 2 // header is row 1
		match := Matches(row, col, key)

		switch {
		case match:
			res.Visible++
			if hide {
				if err := f.SetRowVisible(ds.Sheet, excelRow, true); err != nil {
					return Result{}, &WriteError{Key: key, Path: dst, Err: err}
				}
			}
		case hide:
			res.Hidden++
			if err := f.SetRowVisible(ds.Sheet, excelRow, false); err != nil {
				return Result{}, &WriteError{Key: key, Path: dst, Err: err}
			}
		default:
			res.Visible++
		}
	}

	if err := applyFilter(f, ds, col, key); err != nil {
		// Row hiding already carries the split; a missing filter only costs convenience
		logger.Warn("Could not set auto-filter for %q: %v", key, err)
	}

	if err := f.Save(); err != nil {
		return Result{}, &WriteError{Key: key, Path: dst, Err: err}
	}
	return res, nil
}

// applyFilter sets an auto-filter over the used range with a criterion on the key column.
// Sheets whose table covers the range keep the table's own filter.
func applyFilter(f *excelize.File, ds *model.Dataset, col int, key string) error {
	lastCol, err := excelize.ColumnNumberToName(len(ds.Header))
	if err != nil {
		return err
	}
	ref := fmt.Sprintf("A1:%s%d", lastCol, ds.RowCount())

	owner, err := tableOver(f, ds.Sheet, ref)
	if err != nil {
		return err
	}
	if owner != "" {
		logger.Debug("Sheet %s: table %s owns the filter range, rows hidden only", ds.Sheet, owner)
		return nil
	}

	column, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return err
	}
	return f.AutoFilter(ds.Sheet, ref, []excelize.AutoFilterOptions{
		{Column: column, Expression: filterExpression(key)},
	})
}

// filterEscaper turns Excel's criteria wildcards into literals and doubles quotes
var filterEscaper = strings.NewReplacer("~", "~~", "*", "~*", "?", "~?", `"`, `""`)

func filterExpression(key string) string {
	return fmt.Sprintf(`x == "%s"`, filterEscaper.Replace(key))
}

// tableOver returns the name of the first table intersecting ref
func tableOver(f *excelize.File, sheet, ref string) (string, error) {
	tables, err := f.GetTables(sheet)
	if err != nil {
		return "", err
	}
	for _, t := range tables {
		hit, err := rangesOverlap(t.Range, ref)
		if err != nil {
			return "", err
		}
		if hit {
			return t.Name, nil
		}
	}
	return "", nil
}

func rangesOverlap(a, b string) (bool, error) {
	ax1, ay1, ax2, ay2, err := bounds(a)
	if err != nil {
		return false, err
	}
	bx1, by1, bx2, by2, err := bounds(b)
	if err != nil {
		return false, err
	}
	return ax1 <= bx2 && bx1 <= ax2 && ay1 <= by2 && by1 <= ay2, nil
}

func bounds(ref string) (x1, y1, x2, y2 int, err error) {
	ref = strings.ReplaceAll(ref, "$", "")
	from, to, ok := strings.Cut(ref, ":")
	if !ok {
		to = from
	}
	if x1, y1, err = excelize.CellNameToCoordinates(from); err != nil {
		return
	}
	if x2, y2, err = excelize.CellNameToCoordinates(to); err != nil {
		return
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return
}
