package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLocalStorage(t *testing.T) (StorageService, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewStorageService(dir)
	require.NoError(t, store.EnsureUploadDir())
	return store, dir
}

func TestDocumentService_Upload(t *testing.T) {
	storage, dir := newLocalStorage(t)
	repo := newFakeDocumentRepo()
	vectors := &fakeVectorStore{}
	indexer := NewDocumentIndexer(vectors, &fakeLLM{}, NewTextChunker(), zap.NewNop())
	svc := NewDocumentService(repo, storage, NewPDFParserService(zap.NewNop()), indexer, 10000, zap.NewNop())

	doc, err := svc.Upload(context.Background(), newFileHeader(t, "Job.pdf", buildTestPDF("Senior Go Engineer", "Remote friendly")), "user-1", "org-1")
	require.NoError(t, err)

	assert.Equal(t, "Job.pdf", doc.OriginalFileName)
	assert.Equal(t, DocTypeJobDescription, doc.FileType)
	assert.Equal(t, 2, doc.PageCount)
	assert.Contains(t, doc.ExtractedText, "Senior Go Engineer")
	assert.Contains(t, doc.ExtractedText, "Remote friendly")
	assert.False(t, doc.Indexed)
	assert.Empty(t, vectors.chunks)
	assert.Equal(t, "user-1", doc.UserID)
	assert.Equal(t, "org-1", doc.OrganizationID)

	_, err = os.Stat(filepath.Join(dir, doc.Filename))
	require.NoError(t, err)

	stored, err := svc.GetDocument(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ExtractedText, stored.ExtractedText)
}

func TestDocumentService_IndexesLongDocuments(t *testing.T) {
	storage, _ := newLocalStorage(t)
	repo := newFakeDocumentRepo()
	vectors := &fakeVectorStore{}
	indexer := NewDocumentIndexer(vectors, &fakeLLM{}, NewTextChunker(), zap.NewNop())
	svc := NewDocumentService(repo, storage, NewPDFParserService(zap.NewNop()), indexer, 5, zap.NewNop())

	doc, err := svc.Upload(context.Background(), newFileHeader(t, "jd.pdf", buildTestPDF("Senior Go Engineer")), "u", "")
	require.NoError(t, err)

	assert.True(t, doc.Indexed)
	require.NotEmpty(t, vectors.chunks)
	assert.Equal(t, doc.ID.String(), vectors.chunks[0].DocID)

	stored, err := repo.FindByID(doc.ID)
	require.NoError(t, err)
	assert.True(t, stored.Indexed)
}

func TestDocumentService_RejectsNonPDF(t *testing.T) {
	storage, dir := newLocalStorage(t)
	svc := NewDocumentService(newFakeDocumentRepo(), storage, NewPDFParserService(zap.NewNop()), nil, 100, zap.NewNop())

	_, err := svc.Upload(context.Background(), newFileHeader(t, "jd.pdf", []byte("plain text")), "u", "")
	require.ErrorIs(t, err, ErrNotPDF)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
