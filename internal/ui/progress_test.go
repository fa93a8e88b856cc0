package ui

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"sheet-split/internal/logger"
	"sheet-split/internal/model"
)

func TestPipelinePhases(t *testing.T) {
	var out bytes.Buffer
	p := NewPipelineWithOutput(SplitPhases, &out)
	p.Disable()

	for _, phase := range SplitPhases {
		bar := p.NextPhase(2)
		if bar == nil {
			t.Fatalf("Expected a bar for phase %s", phase)
		}
		if bar.phase != string(phase) {
			t.Errorf("Bar phase = %s, expected %s", bar.phase, phase)
		}
		bar.Increment()
	}

	if bar := p.NextPhase(1); bar != nil {
		t.Error("Expected nil bar after the last phase")
	}
	p.Finish()

	if out.Len() != 0 {
		t.Errorf("Disabled pipeline wrote output: %q", out.String())
	}
}

func TestGroupReporter(t *testing.T) {
	var console bytes.Buffer
	if err := logger.Init(&console, filepath.Join(t.TempDir(), "test.log"), false); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	p := NewPipelineWithOutput(SplitPhases, &bytes.Buffer{})
	p.Disable()
	p.NextPhase(-1)

	r := NewGroupReporter(p)
	r.GroupStarted(1, 2, "Alice")
	if r.bar == nil || r.bar.phase != string(PhaseSplitting) {
		t.Fatal("Expected the reporter to open the Splitting phase")
	}
	if r.bar.total != 2 {
		t.Errorf("Bar total = %d, expected 2", r.bar.total)
	}
	r.GroupFinished(1, 2, &model.Artifact{Group: model.Group{Key: "Alice"}, Status: model.StatusSucceeded, VisibleRows: 3})
	r.GroupStarted(2, 2, "Bob")
	r.GroupFinished(2, 2, &model.Artifact{Group: model.Group{Key: "Bob"}, Status: model.StatusFailed, Err: errors.New("disk full")})

	output := console.String()
	if !strings.Contains(output, "[1/2] ✓ Alice (3 rows)") {
		t.Errorf("Missing success line: %q", output)
	}
	if !strings.Contains(output, "[2/2] ✗ Bob: disk full") {
		t.Errorf("Missing failure line: %q", output)
	}
}

func TestGroupReporterWithoutBar(t *testing.T) {
	r := NewGroupReporter(nil)
	r.GroupStarted(1, 1, "Alice")
	r.GroupFinished(1, 1, &model.Artifact{Group: model.Group{Key: "Alice"}, Status: model.StatusSucceeded})
	r.Done()
}

func TestGroupReporterDoneWithoutGroups(t *testing.T) {
	p := NewPipelineWithOutput(SplitPhases, &bytes.Buffer{})
	p.Disable()
	p.NextPhase(-1)

	r := NewGroupReporter(p)
	r.Done()

	if bar := p.NextPhase(0); bar == nil || bar.phase != string(PhaseExporting) {
		t.Error("Expected Exporting to follow an empty Splitting phase")
	}
}
