package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/bootstrap"
	"alfredoptarigan/interview-builder/internal/services"
)

var ingestDocType string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.pdf...]",
	Short: "Index reference PDFs into the vector store",
	Long: `Extracts the text of each PDF, splits it into chunks and stores their
embeddings in Qdrant. Document ids are derived from the file name, so
re-ingesting a file replaces its chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDocType, "type", services.DocTypeReference, "document type stored with each chunk")
}

// ingestDocumentID is stable per file name.
func ingestDocumentID(path string) string {
	name := strings.ToLower(filepath.Base(path))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := bootstrap.NewVectorStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("QDRANT_URL is not set")
	}

	llm, err := bootstrap.NewLLM(ctx, cfg, log)
	if err != nil {
		return err
	}

	parser := services.NewPDFParserService(log)
	indexer := services.NewDocumentIndexer(store, llm, services.NewTextChunker(), log)

	failed := 0
	for _, path := range args {
		docID := ingestDocumentID(path)
		fileLog := log.With(zap.String("file", path), zap.String("doc_id", docID))

		content, err := parser.ExtractTextFromFile(path)
		if err != nil {
			fileLog.Error("failed to extract text", zap.Error(err))
			failed++
			continue
		}
		fileLog.Info("text extracted", zap.Int("pages", content.PageCount), zap.Int("chars", len(content.Text)))

		if err := store.DeleteDocument(ctx, docID); err != nil {
			fileLog.Warn("failed to clear previous chunks", zap.Error(err))
		}

		stored, err := indexer.IndexDocument(ctx, docID, ingestDocType, content.Text)
		if err != nil {
			fileLog.Error("failed to index document", zap.Error(err))
			failed++
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d chunks\n", docID, path, stored)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to ingest", failed, len(args))
	}
	return nil
}
