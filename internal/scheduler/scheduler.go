// Package scheduler runs the generation pipeline on a cron schedule. It is
// an internal alternative to the external scheduler hitting the HTTP trigger.
package scheduler

import (
	"context"

	"autopress/internal/logger"
	"autopress/internal/pipeline"

	"github.com/robfig/cron/v3"
)

// Runner executes one full generation run.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// Scheduler triggers pipeline runs on a cron spec. One run per tick; ticks
// are independent, exactly like external trigger requests.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	spec   string
}

// New creates a scheduler for the given cron spec (standard 5-field format).
func New(runner Runner, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		spec:   spec,
	}
}

// Start registers the job and starts the cron loop. It returns an error when
// the spec does not parse; the loop itself runs in the background.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Scheduled generation run starting", "schedule", s.spec)
		result, err := s.runner.Run(context.Background())
		if err != nil {
			logger.Error("Scheduled generation run failed", err)
			return
		}
		logger.Info("Scheduled generation run finished",
			"article_id", result.Article.ID,
			"title", result.Article.Title)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Scheduler started", "schedule", s.spec)
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}
