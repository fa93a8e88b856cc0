package splitter

import (
	"errors"

	"sheet-split/internal/model"
	"sheet-split/internal/utils"
)

// ResolveColumn returns the 0-based index of the first header cell equal to name.
// Matching is exact: no trimming, no case folding.
func ResolveColumn(header []string, name string) (int, error) {
	if len(header) == 0 {
		return -1, errors.New("header row is empty")
	}
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return -1, &ColumnNotFoundError{Name: name, Available: append([]string(nil), header...)}
}

// KeyOptions tunes ExtractKeys
type KeyOptions struct {
	// EmailColumn is the 0-based email column, or -1 when not used
	EmailColumn int

	// Ignore lists values treated as empty keys
	Ignore []string
}

// ExtractKeys groups data rows by the trimmed display text of column col.
// Groups come back in first-seen order; rows with an empty key join no group.
func ExtractKeys(rows [][]string, col int, opts KeyOptions) []model.Group {
	index := make(map[string]int)
	var groups []model.Group

	for i, row := range rows {
		key := utils.CellText(row, col)
		if utils.IsIgnored(key, opts.Ignore) {
			continue
		}

		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, model.Group{Key: key})
		}

		g := &groups[pos]
		g.Rows = append(g.Rows, i)
		if g.Email == "" && opts.EmailColumn >= 0 {
			g.Email = utils.CellText(row, opts.EmailColumn)
		}
	}
	return groups
}

// Matches reports whether row belongs to the group keyed by key.
// It applies the same coercion as ExtractKeys.
func Matches(row []string, col int, key string) bool {
	return utils.CellText(row, col) == key
}
