package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/bootstrap"
	"alfredoptarigan/interview-builder/internal/services"
)

var importCmd = &cobra.Command{
	Use:   "import [roster.csv|roster.xlsx]",
	Short: "Parse a roster and fetch every resume without touching the database",
	Long: `Reads the roster, downloads each linked resume and prints the
resulting candidates as JSON. Rows whose resume could not be processed are
printed with an empty resumeText and an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read roster: %w", err)
	}

	entries, err := services.ParseRoster(path, data)
	if err != nil {
		return err
	}
	log.Info("roster parsed", zap.String("file", path), zap.Int("rows", len(entries)))

	processor := bootstrap.NewResumeProcessor(cfg, services.NewPDFParserService(log), log)
	candidates := processor.ProcessCandidates(cmd.Context(), entries)

	log.Info("resumes processed",
		zap.Int("candidates", len(candidates)),
		zap.Int("failed", services.CountFailed(candidates)))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(candidates)
}
