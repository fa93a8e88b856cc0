package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SourceFormat identifies the workbook container a dataset was read from
type SourceFormat string

const (
	FormatXLSX SourceFormat = "xlsx" // Office Open XML (.xlsx, .xlsm, .xltx, .xltm)
	FormatXLSB SourceFormat = "xlsb" // Excel binary workbook, read-only
)

// DetectFormat maps a file extension to its SourceFormat
func DetectFormat(path string) (SourceFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".xlsb":
		return FormatXLSB, nil
	default:
		return "", fmt.Errorf("unsupported workbook extension %q", filepath.Ext(path))
	}
}

// Strategy selects how non-matching rows are suppressed in a destination artifact
type Strategy string

const (
	// StrategyHideRows hides every non-matching data row and sets an auto-filter.
	StrategyHideRows Strategy = "hide_rows"
	// StrategyFilterOnly sets the auto-filter criteria and only makes the header visible.
	StrategyFilterOnly Strategy = "filter_only"
	// StrategyCopy copies the source byte for byte.
	StrategyCopy Strategy = "copy"
)

// ParseStrategy converts a configuration value into a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyHideRows:
		return StrategyHideRows, nil
	case StrategyFilterOnly, "minimal":
		return StrategyFilterOnly, nil
	case StrategyCopy:
		return StrategyCopy, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want hide_rows, filter_only or copy)", s)
	}
}

// Dataset is the in-memory view of one source worksheet.
// Cell values are display strings, which is the only coercion used for partitioning.
type Dataset struct {
	// Path of the source workbook
	Path string

	// Sheet the rows were read from
	Sheet string

	// Format of the source container
	Format SourceFormat

	// Header holds the column names of row 1
	Header []string

	// Rows holds the data rows below the header, each exactly len(Header) wide
	Rows [][]string
}

// RowCount returns the number of rows including the header
func (d *Dataset) RowCount() int {
	return len(d.Rows) + 1
}

// BaseName returns the source file name without its extension
func (d *Dataset) BaseName() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext returns the source file extension, including the dot
func (d *Dataset) Ext() string {
	return filepath.Ext(d.Path)
}

// Group is one distinct partition key value and the data rows carrying it
type Group struct {
	Key   string
	Email string // first non-empty value of the email column, if configured
	Rows  []int  // 0-based indices into Dataset.Rows
}
