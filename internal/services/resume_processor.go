package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/models"
)

var (
	ErrInvalidDriveURL = errors.New("invalid Google Drive URL")
	ErrResumeTooLarge  = errors.New("resume exceeds size limit")
)

var driveFileIDPattern = regexp.MustCompile(`/d/([^/?#]+)`)

// ExtractDriveFileID returns the file id from a Google Drive share link such
// as https://drive.google.com/file/d/<id>/view.
func ExtractDriveFileID(link string) (string, bool) {
	match := driveFileIDPattern.FindStringSubmatch(link)
	if match == nil {
		return "", false
	}
	return match[1], true
}

type ResumeFetcher interface {
	Fetch(ctx context.Context, link string) ([]byte, error)
}

type driveResumeFetcher struct {
	client      *http.Client
	urlTemplate string
	maxSize     int64
}

// NewDriveResumeFetcher downloads Drive-hosted resumes. urlTemplate has a
// single %s verb that receives the file id.
func NewDriveResumeFetcher(urlTemplate string, timeout time.Duration, maxSize int64) ResumeFetcher {
	return &driveResumeFetcher{
		client:      &http.Client{Timeout: timeout},
		urlTemplate: urlTemplate,
		maxSize:     maxSize,
	}
}

func (f *driveResumeFetcher) downloadURL(fileID string) string {
	return fmt.Sprintf(f.urlTemplate, url.QueryEscape(fileID))
}

func (f *driveResumeFetcher) Fetch(ctx context.Context, link string) ([]byte, error) {
	fileID, ok := ExtractDriveFileID(link)
	if !ok {
		return nil, ErrInvalidDriveURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.downloadURL(fileID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download resume: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download resume: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read resume body: %w", err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, ErrResumeTooLarge
	}

	return data, nil
}

type ResumeProcessor interface {
	// ProcessCandidates downloads and extracts every resume in order. A row
	// that fails keeps its place with empty resume text.
	ProcessCandidates(ctx context.Context, entries []RosterEntry) []models.Candidate
}

type resumeProcessor struct {
	fetcher ResumeFetcher
	parser  PDFParserService
	log     *zap.Logger
}

func NewResumeProcessor(fetcher ResumeFetcher, parser PDFParserService, log *zap.Logger) ResumeProcessor {
	return &resumeProcessor{
		fetcher: fetcher,
		parser:  parser,
		log:     log,
	}
}

func (p *resumeProcessor) ProcessCandidates(ctx context.Context, entries []RosterEntry) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(entries))

	for _, entry := range entries {
		candidate := models.Candidate{
			Name:       entry.Name,
			Email:      entry.Email,
			ResumeLink: entry.ResumeLink,
		}

		if err := ctx.Err(); err != nil {
			candidate.Error = err.Error()
			candidates = append(candidates, candidate)
			continue
		}

		text, err := p.processOne(ctx, entry)
		if err != nil {
			p.log.Warn("failed to process resume",
				zap.String("candidate", entry.Name),
				zap.String("link", entry.ResumeLink),
				zap.Error(err))
			candidate.Error = err.Error()
		} else {
			p.log.Debug("processed resume", zap.String("candidate", entry.Name), zap.Int("chars", len(text)))
			candidate.ResumeText = text
		}

		candidates = append(candidates, candidate)
	}

	return candidates
}

func (p *resumeProcessor) processOne(ctx context.Context, entry RosterEntry) (string, error) {
	data, err := p.fetcher.Fetch(ctx, entry.ResumeLink)
	if err != nil {
		return "", err
	}

	text, err := p.parser.ExtractText(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse resume: %w", err)
	}

	return text, nil
}

// CountFailed returns how many candidates ended without resume text because
// of an error.
func CountFailed(candidates []models.Candidate) int {
	failed := 0
	for _, c := range candidates {
		if c.Error != "" {
			failed++
		}
	}
	return failed
}
