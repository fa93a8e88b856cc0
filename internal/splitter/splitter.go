// Package splitter partitions one worksheet by a key column into per-key
// workbook copies with the non-matching rows suppressed.
package splitter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"time"

	"sheet-split/internal/logger"
	"sheet-split/internal/model"
	"sheet-split/internal/sanitize"
	"sheet-split/internal/source"
)

// Options configures a run
type Options struct {
	Source   string // source workbook path
	Column   string // partition key column, exact header name
	Sheet    string // empty selects the active sheet
	DestRoot string // empty selects the source directory

	Strategy     model.Strategy
	SuffixKey    bool     // append " - <key>" to artifact file names
	EmailColumn  string   // optional column holding each group's email
	IgnoreValues []string // key values treated as empty

	// ReclaimEvery forces memory reclamation after every n groups; 0 disables it
	ReclaimEvery int
}

// Companions copies auxiliary documents into a finished group folder
type Companions interface {
	Copy(a *model.Artifact) ([]string, error)
}

// Reporter receives per-group progress
type Reporter interface {
	GroupStarted(index, total int, key string)
	GroupFinished(index, total int, a *model.Artifact)
}

type nopReporter struct{}

func (nopReporter) GroupStarted(int, int, string)           {}
func (nopReporter) GroupFinished(int, int, *model.Artifact) {}

// Splitter runs one partition split
type Splitter struct {
	opts       Options
	suppressor *Suppressor
	companions Companions
	reporter   Reporter
	now        func() time.Time
}

// New creates a Splitter; companions and reporter may be nil
func New(opts Options, companions Companions, reporter Reporter) *Splitter {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if opts.Strategy == "" {
		opts.Strategy = model.StrategyHideRows
	}
	return &Splitter{
		opts:       opts,
		suppressor: &Suppressor{Strategy: opts.Strategy},
		companions: companions,
		reporter:   reporter,
		now:        time.Now,
	}
}

// Run executes the split. The returned error is always a *PreconditionError;
// per-group failures are recorded on the summary's artifacts instead.
func (s *Splitter) Run(ctx context.Context) (*model.Summary, error) {
	sum := &model.Summary{
		SourcePath: s.opts.Source,
		Column:     s.opts.Column,
		Strategy:   s.opts.Strategy,
		StartedAt:  s.now(),
		State:      model.StateNotStarted,
	}
	defer func() { sum.FinishedAt = s.now() }()

	// 1. Read source
	sum.State = model.StateReadingSource
	ds, col, emailCol, err := s.prepare()
	if err != nil {
		sum.State = model.StateFailed
		return sum, &PreconditionError{Path: s.opts.Source, Err: err}
	}
	sum.Sheet = ds.Sheet
	sum.TotalRows = len(ds.Rows)
	sum.DestinationRoot = s.destRoot()

	// 2. Partition
	sum.State = model.StatePartitioning
	groups := ExtractKeys(ds.Rows, col, KeyOptions{EmailColumn: emailCol, Ignore: s.opts.IgnoreValues})
	assigned := 0
	keys := make([]string, len(groups))
	for i, g := range groups {
		assigned += len(g.Rows)
		keys[i] = g.Key
	}
	sum.UnassignedRows = len(ds.Rows) - assigned
	logger.Info("Found %d groups in column %q (%d rows without a key)", len(groups), s.opts.Column, sum.UnassignedRows)

	collisions := sanitize.Collisions(keys)

	// 3. One group at a time
	sum.State = model.StateProcessing
	for i, g := range groups {
		a := s.plan(ds, g, sum.DestinationRoot)
		sum.Artifacts = append(sum.Artifacts, a)

		if err := ctx.Err(); err != nil {
			a.Status = model.StatusSkipped
			a.Err = err
			continue
		}

		s.reporter.GroupStarted(i+1, len(groups), g.Key)
		if owner, ok := collisions[g.Key]; ok {
			s.fail(a, &CollisionError{Key: g.Key, Folder: a.FolderName, Owner: owner})
		} else {
			s.process(ds, col, a)
		}
		s.reporter.GroupFinished(i+1, len(groups), a)

		if s.opts.ReclaimEvery > 0 && (i+1)%s.opts.ReclaimEvery == 0 {
			debug.FreeOSMemory()
			logger.Debug("Reclaimed memory after %d groups", i+1)
		}
	}

	sum.State = model.StateSummarized
	return sum, nil
}

// prepare reads the source and resolves the key and email columns
func (s *Splitter) prepare() (*model.Dataset, int, int, error) {
	ds, err := source.Open(s.opts.Source, s.opts.Sheet)
	if err != nil {
		return nil, 0, 0, err
	}

	if ds.Format == model.FormatXLSB && s.opts.Strategy != model.StrategyCopy {
		return nil, 0, 0, fmt.Errorf("binary workbooks are read-only, use the %q strategy", model.StrategyCopy)
	}

	col, err := ResolveColumn(ds.Header, s.opts.Column)
	if err != nil {
		return nil, 0, 0, err
	}

	emailCol := -1
	if s.opts.EmailColumn != "" {
		if idx, err := ResolveColumn(ds.Header, s.opts.EmailColumn); err == nil {
			emailCol = idx
		} else {
			logger.Warn("Email column %q not found; groups will have no email", s.opts.EmailColumn)
		}
	}
	return ds, col, emailCol, nil
}

func (s *Splitter) destRoot() string {
	if s.opts.DestRoot != "" {
		return s.opts.DestRoot
	}
	return filepath.Dir(s.opts.Source)
}

// plan resolves the destination folder and file of a group
func (s *Splitter) plan(ds *model.Dataset, g model.Group, root string) *model.Artifact {
	folder := sanitize.Name(g.Key)
	stem := ds.BaseName()
	if s.opts.SuffixKey {
		stem += " - " + folder
	}
	dir := filepath.Join(root, folder)

	return &model.Artifact{
		Group:      g,
		FolderName: folder,
		Dir:        dir,
		Path:       filepath.Join(dir, sanitize.FileName(stem, ds.Ext())),
		Status:     model.StatusPending,
	}
}

// process runs Suppressing -> Validating -> Recorded for one group
func (s *Splitter) process(ds *model.Dataset, col int, a *model.Artifact) {
	res, err := s.suppressor.Apply(ds, col, a.Group.Key, a.Path)
	if err != nil {
		s.fail(a, err)
		return
	}
	a.VisibleRows = res.Visible
	a.HiddenRows = res.Hidden

	if err := Validate(a.Path, ds); err != nil {
		s.fail(a, err)
		return
	}

	if s.companions != nil {
		copied, err := s.companions.Copy(a)
		if err != nil {
			logger.Warn("Companion documents for %q: %v", a.Group.Key, err)
		}
		a.Companions = copied
	}

	a.Status = model.StatusSucceeded
}

func (s *Splitter) fail(a *model.Artifact, err error) {
	a.Status = model.StatusFailed
	a.Err = err

	stage := "suppress"
	switch {
	case errors.Is(err, ErrOutputValidation):
		stage = "validate"
	case errors.Is(err, ErrNameCollision):
		stage = "plan"
	}
	logger.LogGroupError(a.Group.Key, err, stage)
}
