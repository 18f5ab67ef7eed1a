// Package report generates a compliance report from a local directory of documents,
// without going through the web server.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/miljoverk/samsvar/internal/ai"
	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/extract"
	"github.com/miljoverk/samsvar/internal/logging"
	"github.com/miljoverk/samsvar/internal/models"
	"github.com/miljoverk/samsvar/internal/pipeline"
	"github.com/miljoverk/samsvar/internal/repositories"
	"github.com/miljoverk/samsvar/internal/sqlite"
)

var Group = &cobra.Group{
	ID:    "report",
	Title: "Report operations",
}

func init() {
	Generate.Flags().String("documents", ".", "directory with the documentation files")
	Generate.Flags().String("metadata", "metadata.json", "path to the project metadata JSON file")
	Generate.Flags().String("sqlite-url", "./samsvar.sqlite", "SQLite URL with the audit criteria")
	Generate.Flags().String("out", "./out", "directory for the generated artifacts")
	Generate.Flags().Int("chunk-size", extract.DefaultPromptChunkSize, "words per document chunk")

	Extract.Flags().String("documents", ".", "directory with the documentation files")
	Extract.Flags().String("out", "./out", "directory for the extracted text files")
	Extract.Flags().Int("chunk-size", extract.DefaultExtractChunkSize, "words per extracted text file")
}

var Generate = &cobra.Command{
	Use:     "gen",
	GroupID: "report",
	Short:   "Generate compliance report",
	Long:    `Runs the report pipeline on every document in a directory and writes the artifacts locally`,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := generate(cmd); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "report generation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func generate(cmd *cobra.Command) error {
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelInfo,
		ReplaceAttr: nil,
	})))
	ctx := context.Background()

	documentsDir, err := cmd.Flags().GetString("documents")
	if err != nil {
		return err
	}
	metadataPath, err := cmd.Flags().GetString("metadata")
	if err != nil {
		return err
	}
	sqliteURL, err := cmd.Flags().GetString("sqlite-url")
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	chunkSize, err := cmd.Flags().GetInt("chunk-size")
	if err != nil {
		return err
	}

	metadataBytes, err := os.ReadFile(metadataPath)
	if err != nil {
		return fmt.Errorf("read metadata: %w", err)
	}
	var metadata models.ProjectMetadata
	if err = json.Unmarshal(metadataBytes, &metadata); err != nil {
		return fmt.Errorf("parse metadata: %w", err)
	}

	paths, err := documentPaths(documentsDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents found in %s", documentsDir)
	}

	if err = os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	dbs, err := sqlite.NewDatabase(ctx, sqliteURL, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		_ = dbs.Close()
	}()

	transcript, err := os.Create(filepath.Join(outDir, "response.txt"))
	if err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	defer func() {
		_ = transcript.Close()
	}()

	runner := pipeline.New(
		repositories.NewCriteriaRepository(dbs, logger),
		ai.NewClient(os.Getenv("OPENAI_API_KEY")),
		nil,
		localRenderer{},
		transcript,
		logger,
		pipeline.Config{MediaRoot: outDir, PromptChunkSize: chunkSize},
	)

	result, err := runner.Run(ctx, paths, metadata)
	if err != nil {
		return err
	}

	for _, file := range result.Files {
		if file.Err != nil {
			fmt.Printf("skipped %s: %v\n", file.FileName, file.Err)
			continue
		}
		fmt.Printf("processed %s (%d chunks)\n", file.FileName, file.Chunks)
	}
	fmt.Printf("report written to %s\n", result.FileURL)
	return nil
}

var Extract = &cobra.Command{
	Use:     "extract",
	GroupID: "report",
	Short:   "Extract document text",
	Long:    `Extracts the plain text of every document in a directory into numbered text files, without involving the model`,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := runExtract(cmd); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "text extraction failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runExtract(cmd *cobra.Command) error {
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelInfo,
		ReplaceAttr: nil,
	})))
	ctx := context.Background()

	documentsDir, err := cmd.Flags().GetString("documents")
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	chunkSize, err := cmd.Flags().GetInt("chunk-size")
	if err != nil {
		return err
	}

	paths, err := documentPaths(documentsDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents found in %s", documentsDir)
	}

	return extractDocuments(ctx, paths, outDir, chunkSize, logger)
}

// extractDocuments writes the chunked plain text of each document as numbered files
// under outDir. Files the extractor cannot handle are skipped, matching the per-file
// policy of the report pipeline.
func extractDocuments(ctx context.Context, paths []string, outDir string, chunkSize int, logger *slog.Logger) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, path := range paths {
		document, err := extract.Document(ctx, path, nil, chunkSize)
		if err != nil {
			if errors.Is(err, extract.ErrUnsupportedFormat) || errors.Is(err, extract.ErrExtraction) {
				logger.Warn("skipping file", "file", filepath.Base(path), "error", err)
				continue
			}
			return err
		}
		for i, chunk := range document.Chunks {
			name := fmt.Sprintf("%s.%03d.txt", document.FileName, i+1)
			if err = os.WriteFile(filepath.Join(outDir, name), []byte(chunk), 0o644); err != nil {
				return fmt.Errorf("write extracted text: %w", err)
			}
		}
		fmt.Printf("extracted %s (%d chunks)\n", document.FileName, len(document.Chunks))
	}
	return nil
}

// documentPaths returns the regular files in dir in name order, matching the upload
// order a browser would produce.
func documentPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// localRenderer points at the merged artifact on disk.
type localRenderer struct{}

func (localRenderer) Render(_ context.Context, _ *models.MergedReportData, mediaRoot string) (string, error) {
	return filepath.Join(mediaRoot, pipeline.MergedFileName), nil
}
