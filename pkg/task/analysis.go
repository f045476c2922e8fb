package task

import (
	"encoding/json"
	"time"
)

// Analysis is the per-task scheduling record produced by the analyzer.
//
// Dependencies and Dependents are never nil so that they encode as empty
// arrays. EarliestStartDate is nil only when the record was built without
// a schedule.
type Analysis struct {
	ID                int64
	Title             string
	EarliestStartDate *time.Time
	Duration          int
	CriticalPath      bool
	Dependencies      []int64
	Dependents        []int64
}

// FinishDate returns the earliest finish date: start plus Duration days.
func (a Analysis) FinishDate() *time.Time {
	if a.EarliestStartDate == nil {
		return nil
	}
	f := a.EarliestStartDate.AddDate(0, 0, a.Duration)
	return &f
}

type wireAnalysis struct {
	ID                int64   `json:"id" yaml:"id"`
	Title             string  `json:"title" yaml:"title"`
	EarliestStartDate *string `json:"earliestStartDate" yaml:"earliestStartDate"`
	Duration          int     `json:"duration" yaml:"duration"`
	CriticalPath      bool    `json:"criticalPath" yaml:"criticalPath"`
	Dependencies      []int64 `json:"dependencies" yaml:"dependencies"`
	Dependents        []int64 `json:"dependents" yaml:"dependents"`
}

func (a Analysis) wire() wireAnalysis {
	return wireAnalysis{
		ID:                a.ID,
		Title:             a.Title,
		EarliestStartDate: FormatTime(a.EarliestStartDate),
		Duration:          a.Duration,
		CriticalPath:      a.CriticalPath,
		Dependencies:      nonNil(a.Dependencies),
		Dependents:        nonNil(a.Dependents),
	}
}

// MarshalJSON implements json.Marshaler.
func (a Analysis) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.wire())
}

// MarshalYAML implements yaml.Marshaler.
func (a Analysis) MarshalYAML() (any, error) {
	return a.wire(), nil
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
