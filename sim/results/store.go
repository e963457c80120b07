// Package results persists run summaries to a sqlite database, so repeated
// experiments over one configuration can be compared after the fact.
package results

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/factory-sim/factory-sim/sim"
)

// RunRecord is one persisted simulation run.
type RunRecord struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ConfigPath string    `gorm:"column:config_path"`
	Seed       int64     `gorm:"column:seed"`
	Horizon    int64     `gorm:"column:horizon"`
	TimeUnit   string    `gorm:"column:time_unit"`
	Created    int64     `gorm:"column:parts_created"`
	Completed  int64     `gorm:"column:parts_completed"`
	WallMillis int64     `gorm:"column:wall_millis"`
	StartedAt  time.Time `gorm:"column:started_at"`
}

// TableName returns the database table name for run records.
func (RunRecord) TableName() string {
	return "runs"
}

// ProcessStatRecord is one process's aggregate statistics within a run.
type ProcessStatRecord struct {
	ID            uint    `gorm:"column:id;primaryKey;autoIncrement"`
	RunID         string  `gorm:"column:run_id;index"`
	Process       string  `gorm:"column:process"`
	MeanBuffer    float64 `gorm:"column:mean_buffer"`
	PeakBuffer    int     `gorm:"column:peak_buffer"`
	PeakInService int     `gorm:"column:peak_in_service"`
	Finished      int64   `gorm:"column:finished"`
}

// TableName returns the database table name for process statistics.
func (ProcessStatRecord) TableName() string {
	return "process_stats"
}

// Summary bundles everything one run persists.
type Summary struct {
	ConfigPath string
	Seed       int64
	Horizon    int64
	TimeUnit   string
	Created    int64
	Completed  int64
	Wall       time.Duration
	StartedAt  time.Time

	ProcessStats []ProcessStat
}

// ProcessStat is one process's aggregate statistics.
type ProcessStat struct {
	Process       string
	MeanBuffer    float64
	PeakBuffer    int
	PeakInService int
	Finished      int64
}

// Summarize extracts a persistable Summary from a finished factory.
func Summarize(f *sim.Factory, configPath string, seed int64, startedAt time.Time, wall time.Duration) Summary {
	acct := f.Accounting()
	sum := Summary{
		ConfigPath: configPath,
		Seed:       seed,
		Horizon:    f.Horizon,
		TimeUnit:   f.TimeUnit,
		Created:    acct.Created,
		Completed:  acct.Completed,
		Wall:       wall,
		StartedAt:  startedAt,
	}
	for _, p := range f.Processes {
		name := p.Spec.Name
		sum.ProcessStats = append(sum.ProcessStats, ProcessStat{
			Process:       name,
			MeanBuffer:    sim.MeanOverTime(f.Metrics.BufferSeries[name], f.Clock),
			PeakBuffer:    f.Metrics.PeakBuffer[name],
			PeakInService: f.Metrics.PeakOccupancy[name],
			Finished:      f.Metrics.FinishedByProcess[name],
		})
	}
	return sum
}

// Store persists run summaries.
type Store struct {
	db *gorm.DB
}

// Open opens the sqlite results database, creating and migrating it as
// needed. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening results db: %w", err)
	}
	if err := db.AutoMigrate(&RunRecord{}, &ProcessStatRecord{}); err != nil {
		return nil, fmt.Errorf("migrating results db: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun persists one run summary and returns its generated run ID.
func (s *Store) SaveRun(ctx context.Context, sum Summary) (string, error) {
	id := uuid.New().String()
	rec := RunRecord{
		ID:         id,
		ConfigPath: sum.ConfigPath,
		Seed:       sum.Seed,
		Horizon:    sum.Horizon,
		TimeUnit:   sum.TimeUnit,
		Created:    sum.Created,
		Completed:  sum.Completed,
		WallMillis: sum.Wall.Milliseconds(),
		StartedAt:  sum.StartedAt,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}
	for _, stat := range sum.ProcessStats {
		row := ProcessStatRecord{
			RunID:         id,
			Process:       stat.Process,
			MeanBuffer:    stat.MeanBuffer,
			PeakBuffer:    stat.PeakBuffer,
			PeakInService: stat.PeakInService,
			Finished:      stat.Finished,
		}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return "", fmt.Errorf("saving process stats: %w", err)
		}
	}
	return id, nil
}

// Runs lists saved runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	var recs []RunRecord
	if err := s.db.WithContext(ctx).Order("started_at desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return recs, nil
}

// ProcessStats lists one run's per-process rows in insertion order.
func (s *Store) ProcessStats(ctx context.Context, runID string) ([]ProcessStatRecord, error) {
	var rows []ProcessStatRecord
	if err := s.db.WithContext(ctx).Where("run_id = ?", runID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing process stats: %w", err)
	}
	return rows, nil
}
