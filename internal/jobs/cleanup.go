package jobs

import (
	"context"
	"os"
	"time"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// CleanupJob periodically purges expired invites and old finished
// exports together with their files.
type CleanupJob struct {
	invites   repo.InviteRepo
	exports   repo.ExportRepo
	interval  time.Duration
	exportTTL time.Duration
	log       zerolog.Logger
	jobs      *prometheus.CounterVec
}

// NewCleanupJob returns a new CleanupJob. jobs may be nil.
func NewCleanupJob(invites repo.InviteRepo, exports repo.ExportRepo, interval, exportTTL time.Duration, log zerolog.Logger, jobs *prometheus.CounterVec) *CleanupJob {
	return &CleanupJob{
		invites:   invites,
		exports:   exports,
		interval:  interval,
		exportTTL: exportTTL,
		log:       log.With().Str("component", "jobs.cleanup").Logger(),
		jobs:      jobs,
	}
}

// Run executes the cleanup on a ticker until ctx is cancelled.
func (j *CleanupJob) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *CleanupJob) runOnce(ctx context.Context) {
	now := time.Now().UTC()

	n, err := j.invites.DeleteExpired(ctx, now)
	if err != nil {
		j.log.Error().Err(err).Msg("purge expired invites")
		j.count("cleanup", "error")
	} else if n > 0 {
		j.log.Info().Int64("count", n).Msg("purged expired invites")
	}

	paths, err := j.exports.DeleteFinishedBefore(ctx, now.Add(-j.exportTTL))
	if err != nil {
		j.log.Error().Err(err).Msg("purge old exports")
		j.count("cleanup", "error")
		return
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			j.log.Warn().Err(err).Str("file", p).Msg("remove export file")
		}
	}
	if len(paths) > 0 {
		j.log.Info().Int("count", len(paths)).Msg("purged old exports")
	}
	j.count("cleanup", "ok")
}

func (j *CleanupJob) count(job, result string) {
	if j.jobs != nil {
		j.jobs.WithLabelValues(job, result).Inc()
	}
}
