package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/models"
)

// recordingProcessor claims imports through the repository the same way the
// import service does and records each one it ran.
type recordingProcessor struct {
	repo *fakeImportRepo
	mu   sync.Mutex
	ran  []uuid.UUID
}

func (p *recordingProcessor) ProcessImport(ctx context.Context, id uuid.UUID) error {
	claimed, err := p.repo.MarkProcessing(id)
	if err != nil || !claimed {
		return err
	}
	p.mu.Lock()
	p.ran = append(p.ran, id)
	p.mu.Unlock()
	return p.repo.Complete(id, nil, 0)
}

func (p *recordingProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ran)
}

func TestWorker_ProcessesEnqueuedJobs(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	repo := newFakeImportRepo()
	processor := &recordingProcessor{repo: repo}
	w := NewWorker(repo, processor, WorkerConfig{Concurrency: 3, PollInterval: time.Hour}, zap.NewNop())
	w.Start(context.Background())

	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, repo.Create(&models.CandidateImport{ID: ids[i], Status: models.ImportQueued}))
		w.EnqueueJob(ids[i])
	}
	// duplicates must not run twice
	w.EnqueueJob(ids[0])
	w.EnqueueJob(ids[0])

	require.Eventually(t, func() bool {
		for _, id := range ids {
			if repo.status(id) != models.ImportCompleted {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)

	w.Stop()
	assert.Equal(t, 5, processor.count())
}

func TestWorker_PollsPendingJobs(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	repo := newFakeImportRepo()
	id := uuid.New()
	require.NoError(t, repo.Create(&models.CandidateImport{ID: id, Status: models.ImportQueued}))

	processor := &recordingProcessor{repo: repo}
	w := NewWorker(repo, processor, WorkerConfig{Concurrency: 1, PollInterval: 10 * time.Millisecond}, zap.NewNop())
	w.Start(context.Background())

	require.Eventually(t, func() bool {
		return repo.status(id) == models.ImportCompleted
	}, 2*time.Second, 5*time.Millisecond)

	w.Stop()
	assert.Equal(t, 1, processor.count())
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	repo := newFakeImportRepo()
	w := NewWorker(repo, &recordingProcessor{repo: repo}, WorkerConfig{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()

	// Stop returns once every goroutine has exited, and is safe to repeat.
	w.Stop()
	w.Stop()

	// enqueueing after stop does not block
	w.EnqueueJob(uuid.New())
}
