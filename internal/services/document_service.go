package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/models"
	"alfredoptarigan/interview-builder/internal/repositories"
)

// DocumentService handles job description uploads.
type DocumentService interface {
	// Upload extracts the PDF text, stores the file and records the
	// document. Long documents are also indexed for retrieval.
	Upload(ctx context.Context, file *multipart.FileHeader, userID, organizationID string) (*models.Document, error)
	GetDocument(id uuid.UUID) (*models.Document, error)
}

type documentService struct {
	docRepo         repositories.DocumentRepository
	storage         StorageService
	parser          PDFParserService
	indexer         DocumentIndexer
	maxContextChars int
	log             *zap.Logger
}

// NewDocumentService builds the service. indexer may be nil when no vector
// store is configured.
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	storage StorageService,
	parser PDFParserService,
	indexer DocumentIndexer,
	maxContextChars int,
	log *zap.Logger,
) DocumentService {
	return &documentService{
		docRepo:         docRepo,
		storage:         storage,
		parser:          parser,
		indexer:         indexer,
		maxContextChars: maxContextChars,
		log:             log,
	}
}

// Upload implements DocumentService.
func (s *documentService) Upload(ctx context.Context, file *multipart.FileHeader, userID, organizationID string) (*models.Document, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	pages, err := s.parser.ExtractPages(data)
	if err != nil {
		return nil, err
	}
	text := strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyPDF
	}

	storedName, location, err := s.storage.SaveBytes(ctx, data, file.Filename, "document")
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:               uuid.New(),
		Filename:         storedName,
		OriginalFileName: file.Filename,
		FileType:         DocTypeJobDescription,
		FilePath:         location,
		ExtractedText:    text,
		PageCount:        len(pages),
		UserID:           userID,
		OrganizationID:   organizationID,
	}
	if err := s.docRepo.Create(doc); err != nil {
		if delErr := s.storage.DeleteFile(ctx, storedName); delErr != nil {
			s.log.Warn("failed to remove orphaned document", zap.String("file", storedName), zap.Error(delErr))
		}
		return nil, err
	}

	if s.indexer != nil && utf8.RuneCountInString(text) > s.maxContextChars {
		s.index(ctx, doc)
	}

	return doc, nil
}

// index is best effort: a document that fails to index is still usable, the
// question generator truncates its text instead.
func (s *documentService) index(ctx context.Context, doc *models.Document) {
	if _, err := s.indexer.IndexDocument(ctx, doc.ID.String(), doc.FileType, doc.ExtractedText); err != nil {
		s.log.Warn("failed to index document", zap.String("document_id", doc.ID.String()), zap.Error(err))
		return
	}

	if err := s.docRepo.MarkIndexed(doc.ID); err != nil {
		s.log.Warn("failed to mark document indexed", zap.String("document_id", doc.ID.String()), zap.Error(err))
		return
	}
	doc.Indexed = true
}

// GetDocument implements DocumentService.
func (s *documentService) GetDocument(id uuid.UUID) (*models.Document, error) {
	return s.docRepo.FindByID(id)
}
