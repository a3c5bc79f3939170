package services

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

var (
	ErrNotPDF      = errors.New("data is not a PDF document")
	ErrEmptyPDF    = errors.New("no text content found in PDF")
	errNoPDFEngine = errors.New("no PDF engine could read the document")
)

type PDFParserService interface {
	// ExtractPages returns the text of every non-empty page object in order.
	ExtractPages(data []byte) ([]string, error)
	// ExtractText joins the pages with a newline.
	ExtractText(data []byte) (string, error)
	ExtractTextWithMetaData(data []byte) (*PDFContent, error)
	ExtractTextFromFile(filePath string) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
	FilePath  string
}

type pageExtractor func(data []byte) ([]string, error)

type pdfParserService struct {
	engines []pageExtractor
	log     *zap.Logger
}

func NewPDFParserService(log *zap.Logger) PDFParserService {
	return &pdfParserService{
		engines: []pageExtractor{extractWithLedongthuc, extractWithFitz},
		log:     log,
	}
}

func (p *pdfParserService) ExtractPages(data []byte) ([]string, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return nil, ErrNotPDF
	}

	var lastErr error
	for i, engine := range p.engines {
		pages, err := engine(data)
		if err == nil {
			return pages, nil
		}
		lastErr = err
		p.log.Debug("pdf engine failed", zap.Int("engine", i), zap.Error(err))
	}

	if lastErr == nil {
		lastErr = errNoPDFEngine
	}
	return nil, fmt.Errorf("failed to open PDF: %w", lastErr)
}

func (p *pdfParserService) ExtractText(data []byte) (string, error) {
	pages, err := p.ExtractPages(data)
	if err != nil {
		return "", err
	}

	return strings.Join(pages, "\n"), nil
}

func (p *pdfParserService) ExtractTextWithMetaData(data []byte) (*PDFContent, error) {
	pages, err := p.ExtractPages(data)
	if err != nil {
		return nil, err
	}

	var textBuilder strings.Builder
	for i, text := range pages {
		textBuilder.WriteString(fmt.Sprintf("--- Page %d ---\n", i+1))
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	if strings.TrimSpace(strings.Join(pages, "")) == "" {
		return nil, ErrEmptyPDF
	}

	return &PDFContent{
		Text:      textBuilder.String(),
		PageCount: len(pages),
	}, nil
}

func (p *pdfParserService) ExtractTextFromFile(filePath string) (*PDFContent, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	content, err := p.ExtractTextWithMetaData(data)
	if err != nil {
		return nil, err
	}
	content.FilePath = filePath
	return content, nil
}

func extractWithLedongthuc(data []byte) (pages []string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	totalPage := r.NumPage()
	pages = make([]string, 0, totalPage)
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable page, keep going with the rest
			continue
		}

		pages = append(pages, text)
	}

	return pages, nil
}

func extractWithFitz(data []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}

	return pages, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
