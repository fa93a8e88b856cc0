package model

import "time"

// RunState tracks where a split run is in its lifecycle
type RunState int

const (
	StateNotStarted RunState = iota
	StateReadingSource
	StatePartitioning
	StateProcessing
	StateSummarized
	StateFailed
)

func (s RunState) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StateReadingSource:
		return "ReadingSource"
	case StatePartitioning:
		return "PartitioningKeys"
	case StateProcessing:
		return "ForEachGroup"
	case StateSummarized:
		return "Summarized"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ArtifactStatus is the outcome of processing one group
type ArtifactStatus string

const (
	StatusPending   ArtifactStatus = "pending"
	StatusSucceeded ArtifactStatus = "succeeded"
	StatusFailed    ArtifactStatus = "failed"
	StatusSkipped   ArtifactStatus = "skipped"
)

// Artifact is the destination file produced for one Group
type Artifact struct {
	Group Group

	// FolderName is the sanitized key used as the group directory name
	FolderName string

	// Dir is the group directory under the destination root
	Dir string

	// Path is the full path of the filtered workbook copy
	Path string

	// VisibleRows and HiddenRows count data rows after suppression
	VisibleRows int
	HiddenRows  int

	// Companions lists the paths of companion documents copied next to the workbook
	Companions []string

	Status ArtifactStatus
	Err    error
}

// Summary collects the outcome of a whole split run
type Summary struct {
	SourcePath      string
	Sheet           string
	Column          string
	Strategy        Strategy
	DestinationRoot string

	StartedAt  time.Time
	FinishedAt time.Time

	// TotalRows is the number of data rows below the header
	TotalRows int

	// UnassignedRows counts data rows whose key was empty and went to no group
	UnassignedRows int

	Artifacts []*Artifact
	State     RunState
}

// Total returns the number of groups attempted
func (s *Summary) Total() int {
	return len(s.Artifacts)
}

// Succeeded returns the number of groups written and validated
func (s *Summary) Succeeded() int {
	return s.Count(StatusSucceeded)
}

// Count returns the number of groups with the given status
func (s *Summary) Count(status ArtifactStatus) int {
	n := 0
	for _, a := range s.Artifacts {
		if a.Status == status {
			n++
		}
	}
	return n
}

// Failed returns the number of groups that did not succeed, skipped ones included
func (s *Summary) Failed() int {
	return s.Total() - s.Succeeded()
}

// SucceededArtifacts returns the artifacts that were written and validated, in run order
func (s *Summary) SucceededArtifacts() []*Artifact {
	out := make([]*Artifact, 0, len(s.Artifacts))
	for _, a := range s.Artifacts {
		if a.Status == StatusSucceeded {
			out = append(out, a)
		}
	}
	return out
}
