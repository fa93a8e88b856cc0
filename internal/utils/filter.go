package utils

import "strings"

// CellText returns the partition text of column col in row.
// This is the one coercion rule shared by key extraction and row suppression:
// the cell's display string, trimmed. Short rows yield "".
func CellText(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// IsIgnored determines if a trimmed key value should be treated as empty.
// ignore holds exact, case-sensitive values such as "#N/A" or "-".
func IsIgnored(value string, ignore []string) bool {
	// RULE 1: Empty or whitespace-only values never form a group
	if strings.TrimSpace(value) == "" {
		return true
	}

	// RULE 2: Configured placeholders
	for _, v := range ignore {
		if value == strings.TrimSpace(v) {
			return true
		}
	}
	return false
}
