package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-builder/internal/models"
	"alfredoptarigan/interview-builder/internal/repositories"
)

// fakeLLM replays responses in order; once they run out the last one repeats.
type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string
	embedErr  error
	embedded  []string
}

func (f *fakeLLM) next(prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no response configured")
	}
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return f.next(prompt)
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	return f.next(prompt)
}

func (f *fakeLLM) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	f.embedded = append(f.embedded, text)
	return []float32{float32(len(text)), 1}, nil
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeVectorStore struct {
	mu       sync.Mutex
	chunks   []DocumentChunk
	results  []SearchResult
	filters  []ChunkFilter
	failFrom int
}

func (f *fakeVectorStore) InitCollection(ctx context.Context) error { return nil }

func (f *fakeVectorStore) UpsertChunk(ctx context.Context, chunk DocumentChunk, embedding []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFrom > 0 && chunk.Index+1 >= f.failFrom {
		return fmt.Errorf("upsert chunk %d refused", chunk.Index)
	}
	f.chunks = append(f.chunks, chunk)
	return nil
}

func (f *fakeVectorStore) SearchSimilar(ctx context.Context, queryEmbedding []float32, filter ChunkFilter, limit int) ([]SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	return append([]SearchResult(nil), f.results...), nil
}

func (f *fakeVectorStore) DeleteDocument(ctx context.Context, docID string) error { return nil }

type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*models.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[uuid.UUID]*models.Document)}
}

func (r *fakeDocumentRepo) Create(doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, repositories.ErrNotFound)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) MarkIndexed(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return repositories.ErrNotFound
	}
	doc.Indexed = true
	return nil
}

type fakeImportRepo struct {
	mu      sync.Mutex
	imports map[uuid.UUID]*models.CandidateImport
}

func newFakeImportRepo() *fakeImportRepo {
	return &fakeImportRepo{imports: make(map[uuid.UUID]*models.CandidateImport)}
}

func (r *fakeImportRepo) Create(imp *models.CandidateImport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *imp
	r.imports[imp.ID] = &copied
	return nil
}

func (r *fakeImportRepo) FindByID(id uuid.UUID) (*models.CandidateImport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	imp, ok := r.imports[id]
	if !ok {
		return nil, fmt.Errorf("candidate import %s: %w", id, repositories.ErrNotFound)
	}
	copied := *imp
	copied.Candidates = append([]models.Interviewee(nil), imp.Candidates...)
	return &copied, nil
}

func (r *fakeImportRepo) MarkProcessing(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	imp, ok := r.imports[id]
	if !ok || imp.Status != models.ImportQueued {
		return false, nil
	}
	imp.Status = models.ImportProcessing
	return true, nil
}

func (r *fakeImportRepo) Requeue(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if imp, ok := r.imports[id]; ok && imp.Status == models.ImportProcessing {
		imp.Status = models.ImportQueued
	}
	return nil
}

func (r *fakeImportRepo) Complete(id uuid.UUID, candidates []models.Interviewee, failed int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	imp, ok := r.imports[id]
	if !ok {
		return repositories.ErrNotFound
	}
	imp.Candidates = candidates
	imp.Status = models.ImportCompleted
	imp.TotalRows = len(candidates)
	imp.ProcessedRows = len(candidates) - failed
	imp.FailedRows = failed
	return nil
}

func (r *fakeImportRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	imp, ok := r.imports[id]
	if !ok {
		return repositories.ErrNotFound
	}
	imp.Status = models.ImportFailed
	imp.ErrorMessage = errorMsg
	return nil
}

func (r *fakeImportRepo) FindPendingJobs(limit int) ([]models.CandidateImport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []models.CandidateImport
	for _, imp := range r.imports {
		if imp.Status == models.ImportQueued && len(pending) < limit {
			pending = append(pending, *imp)
		}
	}
	return pending, nil
}

func (r *fakeImportRepo) status(id uuid.UUID) models.ImportStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.imports[id].Status
}

type fakeInterviewRepo struct {
	mu         sync.Mutex
	interviews []*models.Interview
	err        error
	delay      time.Duration
}

func (r *fakeInterviewRepo) Create(interview *models.Interview) error {
	time.Sleep(r.delay)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.interviews = append(r.interviews, interview)
	return nil
}

func (r *fakeInterviewRepo) FindByID(id uuid.UUID) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.interviews {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeInterviewRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.interviews)
}

func (r *fakeInterviewRepo) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *fakeInterviewRepo) ListByOrganization(organizationID, userID string) ([]models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Interview
	for _, i := range r.interviews {
		out = append(out, *i)
	}
	return out, nil
}

// fakeGenerator returns a fixed response or error.
type fakeGenerator struct {
	response string
	err      error
	requests []*models.GenerateQuestionsRequest
	block    chan struct{}
}

func (g *fakeGenerator) GenerateQuestions(ctx context.Context, req *models.GenerateQuestionsRequest) (string, error) {
	g.requests = append(g.requests, req)
	if g.block != nil {
		<-g.block
	}
	return g.response, g.err
}
