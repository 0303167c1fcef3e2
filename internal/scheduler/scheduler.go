// Package scheduler runs periodic snapshots of the configured scenarios and
// records each computed schedule.
package scheduler

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-schedule/internal/config"
	"github.com/iwvelando/loan-schedule/internal/recorder"
	"github.com/iwvelando/loan-schedule/internal/schedules"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler manages the snapshot cron task. Each snapshot reloads the watched
// configuration file, so edits between ticks are picked up without a restart.
type Scheduler struct {
	cron       *cron.Cron
	configPath string
	recorder   recorder.Recorder
	logger     *zap.Logger
}

// NewScheduler creates a Scheduler watching the given configuration file. A
// nil recorder disables persistence, a nil logger disables logging.
func NewScheduler(logger *zap.Logger, configPath string, rec recorder.Recorder) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		configPath: configPath,
		recorder:   rec,
		logger:     logger,
	}
}

// Register registers the snapshot task under the given cron expression. The
// expression carries a seconds field.
func (s *Scheduler) Register(cronExpr string) error {
	if _, err := s.cron.AddFunc(cronExpr, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("op", "scheduler.Start"),
	)
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped",
		zap.String("op", "scheduler.Stop"),
	)
}

// RunSnapshotNow executes the snapshot task immediately, outside the cron
// cadence.
func (s *Scheduler) RunSnapshotNow() {
	s.snapshotTask()
}

// snapshotTask loads the watched configuration, computes every active
// scenario, and records one run per scenario. Errors are logged and never
// fatal so a broken edit to the watched file cannot take the daemon down.
func (s *Scheduler) snapshotTask() {
	start := time.Now()
	s.logger.Info("running schedule snapshot",
		zap.String("op", "scheduler.snapshotTask"),
		zap.String("configPath", s.configPath),
	)

	conf, err := config.LoadConfiguration(s.configPath)
	if err != nil {
		s.logger.Error("failed to load snapshot configuration",
			zap.String("op", "scheduler.snapshotTask"),
			zap.String("configPath", s.configPath),
			zap.Error(err),
		)
		return
	}

	for _, warning := range conf.ValidateConfiguration() {
		s.logger.Warn(warning,
			zap.String("op", "scheduler.snapshotTask"),
		)
	}

	results, err := schedules.Generate(s.logger, *conf)
	if err != nil {
		s.logger.Error("failed to compute snapshot schedules",
			zap.String("op", "scheduler.snapshotTask"),
			zap.Error(err),
		)
		return
	}

	for _, result := range results {
		if err := s.recorder.RecordRun(recorder.FromSchedule("snapshot", result)); err != nil {
			s.logger.Error("failed to record snapshot run",
				zap.String("op", "scheduler.snapshotTask"),
				zap.String("scenario", result.Name),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("schedule snapshot complete",
		zap.String("op", "scheduler.snapshotTask"),
		zap.Int("scenarios", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
}
