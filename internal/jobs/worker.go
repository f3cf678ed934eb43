package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const dequeueTimeout = 5 * time.Second

// WorkerPool consumes the export queue with a fixed number of workers.
type WorkerPool struct {
	queue    *Queue
	exporter *Exporter
	workers  int
	log      zerolog.Logger
	jobs     *prometheus.CounterVec
	wg       sync.WaitGroup
}

// NewWorkerPool returns a new WorkerPool. jobs may be nil.
func NewWorkerPool(queue *Queue, exporter *Exporter, workers int, log zerolog.Logger, jobs *prometheus.CounterVec) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	return &WorkerPool{
		queue:    queue,
		exporter: exporter,
		workers:  workers,
		log:      log.With().Str("component", "jobs.worker").Logger(),
		jobs:     jobs,
	}
}

// Start launches the workers. They stop when ctx is cancelled.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Wait blocks until all workers have stopped.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

func (p *WorkerPool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.With().Int("worker", id).Logger()
	for {
		if ctx.Err() != nil {
			return
		}
		jobID, err := p.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("dequeue failed")
			time.Sleep(time.Second)
			continue
		}
		if jobID == "" {
			continue
		}
		if err := p.exporter.Process(ctx, jobID); err != nil {
			log.Error().Err(err).Str("job_id", jobID).Msg("export failed")
			p.count("export", "error")
			continue
		}
		p.count("export", "ok")
	}
}

func (p *WorkerPool) count(job, result string) {
	if p.jobs != nil {
		p.jobs.WithLabelValues(job, result).Inc()
	}
}
