// Package trace provides event-trace recording for production-line runs.
// It stores pure data types with no dependency on sim/, so determinism
// checks can compare two runs structurally.
package trace

// ArrivalRecord captures a part being created by its arrival process.
type ArrivalRecord struct {
	Tick     int64  `json:"tick"`
	PartID   int64  `json:"part_id"`
	PartType string `json:"part_type"`
}

// StartRecord captures a part entering service at a stage.
type StartRecord struct {
	Tick     int64    `json:"tick"`
	PartID   int64    `json:"part_id"`
	Process  string   `json:"process"`
	Duration int64    `json:"duration"`
	Workers  []string `json:"workers,omitempty"`
}

// FinishRecord captures service completing at a stage.
type FinishRecord struct {
	Tick    int64  `json:"tick"`
	PartID  int64  `json:"part_id"`
	Process string `json:"process"`
}

// CompletionRecord captures a part leaving the line after its last stage.
type CompletionRecord struct {
	Tick     int64  `json:"tick"`
	PartID   int64  `json:"part_id"`
	PartType string `json:"part_type"`
}

// BlockRecord captures back-pressure observed at the end of a tick: a
// finished part that could not route because the destination buffer is full.
type BlockRecord struct {
	Tick        int64  `json:"tick"`
	PartID      int64  `json:"part_id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}
