package handlers

import (
	"context"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/interview-builder/internal/models"
	"alfredoptarigan/interview-builder/internal/repositories"
	"alfredoptarigan/interview-builder/internal/services"
)

type stubGenerator struct {
	mu       sync.Mutex
	response string
	err      error
}

func (g *stubGenerator) set(response string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.response, g.err = response, err
}

func (g *stubGenerator) GenerateQuestions(ctx context.Context, req *models.GenerateQuestionsRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.response, g.err
}

type stubParser struct {
	text string
	err  error
}

func (p *stubParser) ExtractPages(data []byte) ([]string, error) {
	if p.err != nil {
		return nil, p.err
	}
	return strings.Split(p.text, "\n"), nil
}

func (p *stubParser) ExtractText(data []byte) (string, error) {
	return p.text, p.err
}

func (p *stubParser) ExtractTextWithMetaData(data []byte) (*services.PDFContent, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &services.PDFContent{Text: p.text, PageCount: 1}, nil
}

func (p *stubParser) ExtractTextFromFile(filePath string) (*services.PDFContent, error) {
	content, err := p.ExtractTextWithMetaData(nil)
	if err != nil {
		return nil, err
	}
	content.FilePath = filePath
	return content, nil
}

type memDocumentRepo struct {
	mu   sync.Mutex
	docs map[uuid.UUID]models.Document
}

func (r *memDocumentRepo) Create(doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = *doc
	return nil
}

func (r *memDocumentRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &doc, nil
}

func (r *memDocumentRepo) MarkIndexed(id uuid.UUID) error { return nil }

type memImportRepo struct {
	mu      sync.Mutex
	imports map[uuid.UUID]models.CandidateImport
}

func (r *memImportRepo) Create(imp *models.CandidateImport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports[imp.ID] = *imp
	return nil
}

func (r *memImportRepo) FindByID(id uuid.UUID) (*models.CandidateImport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	imp, ok := r.imports[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &imp, nil
}

func (r *memImportRepo) MarkProcessing(id uuid.UUID) (bool, error) { return false, nil }

func (r *memImportRepo) Requeue(id uuid.UUID) error { return nil }

func (r *memImportRepo) Complete(id uuid.UUID, candidates []models.Interviewee, failed int) error {
	return nil
}

func (r *memImportRepo) UpdateError(id uuid.UUID, errorMsg string) error { return nil }

func (r *memImportRepo) FindPendingJobs(limit int) ([]models.CandidateImport, error) {
	return nil, nil
}

type memInterviewRepo struct {
	mu         sync.Mutex
	interviews []models.Interview
}

func (r *memInterviewRepo) Create(interview *models.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interviews = append(r.interviews, *interview)
	return nil
}

func (r *memInterviewRepo) FindByID(id uuid.UUID) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.interviews {
		if i.ID == id {
			return &i, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memInterviewRepo) ListByOrganization(organizationID, userID string) ([]models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Interview{}
	for _, i := range r.interviews {
		if (organizationID != "" && i.OrganizationID == organizationID) || (organizationID == "" && i.UserID == userID) {
			out = append(out, i)
		}
	}
	return out, nil
}

type memInterviewerRepo struct {
	interviewers []models.Interviewer
}

func (r *memInterviewerRepo) Upsert(interviewers []models.Interviewer) error {
	r.interviewers = append(r.interviewers, interviewers...)
	return nil
}

func (r *memInterviewerRepo) FindAll() ([]models.Interviewer, error) {
	return r.interviewers, nil
}

func (r *memInterviewerRepo) FindByID(id int64) (*models.Interviewer, error) {
	for _, i := range r.interviewers {
		if i.ID == id {
			return &i, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// stubImportService records imports without storing or processing files.
type stubImportService struct {
	repo *memImportRepo
}

func (s *stubImportService) ProcessImport(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubImportService) CreateImport(ctx context.Context, file *multipart.FileHeader, userID, organizationID string) (*models.CandidateImport, error) {
	imp := &models.CandidateImport{
		ID:             uuid.New(),
		OriginalName:   file.Filename,
		Status:         models.ImportQueued,
		UserID:         userID,
		OrganizationID: organizationID,
	}
	return imp, s.repo.Create(imp)
}

func (s *stubImportService) GetImport(id uuid.UUID) (*models.CandidateImport, error) {
	return s.repo.FindByID(id)
}

type stubWorker struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
}

func (w *stubWorker) Start(ctx context.Context) {}

func (w *stubWorker) Stop() {}

func (w *stubWorker) EnqueueJob(importID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enqueued = append(w.enqueued, importID)
}
