package exporter

import (
	"strings"

	"sheet-split/internal/exporter/html"
	"sheet-split/internal/logger"
)

// GetExporters returns a list of Exporters based on requested formats
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))

		// Aliases resolve to one canonical exporter
		switch fmtStr {
		case "xlsx", "excel":
			fmtStr = "trigger"
		case "ps1", "powershell":
			fmtStr = "share"
		case "yml":
			fmtStr = "yaml"
		}

		if seen[fmtStr] {
			continue
		}
		seen[fmtStr] = true

		switch fmtStr {
		case "trigger":
			exporters = append(exporters, NewTriggerExporter())
		case "share":
			exporters = append(exporters, NewShareExporter())
		case "yaml":
			exporters = append(exporters, NewReportExporter(FormatYAML))
		case "json":
			exporters = append(exporters, NewReportExporter(FormatJSON))
		case "html":
			exporters = append(exporters, html.NewHTMLExporter())
		case "":
		default:
			logger.Warn("Unknown output format %q ignored", fmtStr)
		}
	}

	return exporters
}
