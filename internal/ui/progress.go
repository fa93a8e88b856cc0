package ui

import (
	"fmt"
	"io"

	"sheet-split/internal/logger"
	"sheet-split/internal/model"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar wraps the progressbar library with our custom styling
type ProgressBar struct {
	bar    *progressbar.ProgressBar
	phase  string
	total  int
	output io.Writer
}

// Phase represents a stage in the split pipeline
type Phase string

const (
	PhaseReading   Phase = "Reading"
	PhaseSplitting Phase = "Splitting"
	PhaseExporting Phase = "Exporting"
)

// SplitPhases is the phase order of the split command
var SplitPhases = []Phase{PhaseReading, PhaseSplitting, PhaseExporting}

// NewProgressBarWithOutput creates a new progress bar with custom output
func NewProgressBarWithOutput(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetPredictTime(true),
	)

	return &ProgressBar{
		bar:    bar,
		phase:  string(phase),
		total:  total,
		output: output,
	}
}

// Increment increments the progress bar by 1
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// SetTotal updates the total count of the progress bar
func (pb *ProgressBar) SetTotal(total int) {
	pb.total = total
	pb.bar.ChangeMax(total)
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Describe updates the description of the progress bar
func (pb *ProgressBar) Describe(description string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, description))
}

// Clear clears the progress bar from the terminal
func (pb *ProgressBar) Clear() error {
	return pb.bar.Clear()
}

// Pipeline represents a multi-phase progress tracking system
type Pipeline struct {
	phases   []Phase
	current  int
	bars     []*ProgressBar
	disabled bool
	output   io.Writer
}

// NewPipelineWithOutput creates a new pipeline with custom output
func NewPipelineWithOutput(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{
		phases:   phases,
		current:  -1,
		bars:     make([]*ProgressBar, 0, len(phases)),
		disabled: false,
		output:   output,
	}
}

// Disable disables the progress bar output
func (p *Pipeline) Disable() {
	p.disabled = true
}

// NextPhase moves to the next phase and returns a new progress bar
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	// Finish current phase if exists
	if p.current >= 0 && p.current < len(p.bars) {
		p.bars[p.current].Finish()
	}

	p.current++
	if p.current >= len(p.phases) {
		return nil
	}

	output := p.output
	if p.disabled {
		output = io.Discard
	}

	bar := NewProgressBarWithOutput(p.phases[p.current], total, output)
	p.bars = append(p.bars, bar)
	return bar
}

// Finish completes all phases
func (p *Pipeline) Finish() {
	if p.current >= 0 && p.current < len(p.bars) {
		p.bars[p.current].Finish()
	}
}

// GroupReporter prints one line per finished group above the Splitting bar
type GroupReporter struct {
	pipeline *Pipeline
	bar      *ProgressBar
}

// NewGroupReporter creates a reporter that opens the next pipeline phase on the
// first group; pipeline may be nil
func NewGroupReporter(pipeline *Pipeline) *GroupReporter {
	return &GroupReporter{pipeline: pipeline}
}

// GroupStarted opens the Splitting bar on the first group and names the current key
func (r *GroupReporter) GroupStarted(index, total int, key string) {
	r.start(total)
	if r.bar != nil {
		r.bar.Describe(key)
	}
}

// GroupFinished prints "[i/n] ✓ key" or "[i/n] ✗ key: reason"
func (r *GroupReporter) GroupFinished(index, total int, a *model.Artifact) {
	if r.bar != nil {
		r.bar.Clear()
	}

	switch a.Status {
	case model.StatusSucceeded:
		logger.Progress("[%d/%d] ✓ %s (%d rows)", index, total, a.Group.Key, a.VisibleRows)
	default:
		logger.Progress("[%d/%d] ✗ %s: %v", index, total, a.Group.Key, a.Err)
	}

	if r.bar != nil {
		r.bar.Increment()
	}
}

// Done closes the Splitting phase, opening it first when no group ran
func (r *GroupReporter) Done() {
	r.start(0)
	if r.bar != nil {
		r.bar.Finish()
	}
}

func (r *GroupReporter) start(total int) {
	if r.bar != nil || r.pipeline == nil {
		return
	}
	r.bar = r.pipeline.NextPhase(total)
}
