// Package sample writes a reviewer access-listing workbook for demos and tests.
package sample

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	DataSheet  = "Listing"
	ListsSheet = "Lists"
)

// Header is the column layout of the generated listing
var Header = []string{
	"User_ID", "Name", "Department", "Reviewer", "Email Address",
	"Application", "Access_Level", "Request_Date", "Status", "Comments",
}

// Options controls the generated content
type Options struct {
	Rows      int
	Reviewers []string
	Seed      uint64
	Start     time.Time
}

// DefaultOptions returns the option set used by the sample command
func DefaultOptions() Options {
	return Options{
		Rows:      50,
		Reviewers: []string{"John Doe", "Jane Smith", "Bob Johnson", "Alice Chen", "Mike Wilson"},
		Seed:      42,
		Start:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var (
	departments  = []string{"IT", "Finance", "HR", "Sales", "Admin"}
	applications = []string{"SAP", "Salesforce", "Office365", "Slack", "Zoom"}
	levels       = []string{"Read", "Write", "Admin"}
	statuses     = []string{"Pending", "In Progress", "Completed"}
)

// Write creates the listing workbook at path. Reviewers are assigned round-robin
// so every reviewer owns at least one row when Rows >= len(Reviewers).
// A hidden Lists sheet backs a data validation on the Status column.
func Write(path string, opts Options) error {
	if len(opts.Reviewers) == 0 {
		return fmt.Errorf("at least one reviewer is required")
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(DataSheet, "A1", &header); err != nil {
		return err
	}

	for i := 0; i < opts.Rows; i++ {
		reviewer := opts.Reviewers[i%len(opts.Reviewers)]
		row := []interface{}{
			fmt.Sprintf("USR-%04d", i+1),
			fmt.Sprintf("Employee%d", rng.IntN(30)+1),
			pick(rng, departments),
			reviewer,
			emailFor(reviewer),
			pick(rng, applications),
			pick(rng, levels),
			opts.Start.AddDate(0, 0, rng.IntN(30)).Format("2006-01-02"),
			pick(rng, statuses),
			fmt.Sprintf("Access request %d", i+1),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(DataSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := writeLists(f, opts.Rows); err != nil {
		return err
	}

	f.SetColWidth(DataSheet, "A", "J", 18)
	return f.SaveAs(path)
}

func writeLists(f *excelize.File, rows int) error {
	if _, err := f.NewSheet(ListsSheet); err != nil {
		return err
	}
	for i, s := range statuses {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		f.SetCellValue(ListsSheet, cell, s)
	}
	if err := f.SetSheetVisible(ListsSheet, false); err != nil {
		return err
	}

	dv := excelize.NewDataValidation(true)
	dv.Sqref = fmt.Sprintf("I2:I%d", rows+1)
	dv.SetSqrefDropList(fmt.Sprintf("%s!$A$1:$A$%d", ListsSheet, len(statuses)))
	return f.AddDataValidation(DataSheet, dv)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

func emailFor(name string) string {
	b := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r == ' ':
			b = append(b, '.')
		case r >= 'A' && r <= 'Z':
			b = append(b, r+('a'-'A'))
		default:
			b = append(b, r)
		}
	}
	return string(b) + "@company.com"
}
