package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(importID uuid.UUID)
}

type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
	QueueSize    int
}

type worker struct {
	importRepo repositories.CandidateImportRepository
	processor  ImportProcessor
	jobQueue   chan uuid.UUID
	cfg        WorkerConfig
	wg         sync.WaitGroup
	stopChan   chan struct{}
	stopOnce   sync.Once
	log        *zap.Logger
}

func NewWorker(
	importRepo repositories.CandidateImportRepository,
	processor ImportProcessor,
	cfg WorkerConfig,
	log *zap.Logger,
) Worker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 100
	}

	return &worker{
		importRepo: importRepo,
		processor:  processor,
		jobQueue:   make(chan uuid.UUID, cfg.QueueSize),
		cfg:        cfg,
		stopChan:   make(chan struct{}),
		log:        log,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.log.Info("starting import worker", zap.Int("concurrency", w.cfg.Concurrency))

	for i := 0; i < w.cfg.Concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("stopping import worker")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.log.Info("import worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(importID uuid.UUID) {
	select {
	case w.jobQueue <- importID:
		w.log.Debug("import enqueued", zap.String("import_id", importID.String()))
	case <-w.stopChan:
		w.log.Warn("worker stopped, cannot enqueue import", zap.String("import_id", importID.String()))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case importID := <-w.jobQueue:
			log.Debug("processing import", zap.String("import_id", importID.String()))
			if err := w.processor.ProcessImport(ctx, importID); err != nil {
				log.Error("import failed", zap.String("import_id", importID.String()), zap.Error(err))
			}
		}
	}
}

// pollPendingJobs picks up imports that were queued while no worker was
// listening, e.g. before a restart.
func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.importRepo.FindPendingJobs(10)
			if err != nil {
				w.log.Warn("failed to fetch pending imports", zap.Error(err))
				continue
			}

			if len(pending) > 0 {
				w.log.Info("found pending imports", zap.Int("count", len(pending)))
			}

			for _, imp := range pending {
				select {
				case w.jobQueue <- imp.ID:
				case <-w.stopChan:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
