package trace

import (
	"encoding/json"
	"fmt"
	"os"
)

// Level controls the verbosity of event tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelEvents captures every arrival, start, finish, completion and block.
	LevelEvents Level = "events"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:   true,
	LevelEvents: true,
	"":          true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// LineTrace collects event records during a production-line run.
type LineTrace struct {
	Level       Level              `json:"level"`
	Arrivals    []ArrivalRecord    `json:"arrivals"`
	Starts      []StartRecord      `json:"starts"`
	Finishes    []FinishRecord     `json:"finishes"`
	Completions []CompletionRecord `json:"completions"`
	Blocks      []BlockRecord      `json:"blocks"`
}

// NewLineTrace creates a LineTrace ready for recording.
func NewLineTrace(level Level) *LineTrace {
	if level == "" {
		level = LevelNone
	}
	return &LineTrace{
		Level:       level,
		Arrivals:    make([]ArrivalRecord, 0),
		Starts:      make([]StartRecord, 0),
		Finishes:    make([]FinishRecord, 0),
		Completions: make([]CompletionRecord, 0),
		Blocks:      make([]BlockRecord, 0),
	}
}

// Enabled reports whether records should be collected.
func (lt *LineTrace) Enabled() bool {
	return lt != nil && lt.Level != LevelNone
}

// RecordArrival appends an arrival record.
func (lt *LineTrace) RecordArrival(record ArrivalRecord) {
	if !lt.Enabled() {
		return
	}
	lt.Arrivals = append(lt.Arrivals, record)
}

// RecordStart appends a service-start record.
func (lt *LineTrace) RecordStart(record StartRecord) {
	if !lt.Enabled() {
		return
	}
	lt.Starts = append(lt.Starts, record)
}

// RecordFinish appends a service-finish record.
func (lt *LineTrace) RecordFinish(record FinishRecord) {
	if !lt.Enabled() {
		return
	}
	lt.Finishes = append(lt.Finishes, record)
}

// RecordCompletion appends a route-completion record.
func (lt *LineTrace) RecordCompletion(record CompletionRecord) {
	if !lt.Enabled() {
		return
	}
	lt.Completions = append(lt.Completions, record)
}

// RecordBlock appends a back-pressure record.
func (lt *LineTrace) RecordBlock(record BlockRecord) {
	if !lt.Enabled() {
		return
	}
	lt.Blocks = append(lt.Blocks, record)
}

// WriteFile writes the trace as indented JSON.
func (lt *LineTrace) WriteFile(path string) error {
	data, err := json.MarshalIndent(lt, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}
