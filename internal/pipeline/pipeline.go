// Package pipeline orchestrates the compliance-report generation: criteria context,
// document extraction and chunking, the stateful model conversation, points ceiling,
// summary finalization and the merge with project metadata.
package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/miljoverk/samsvar/internal/ai"
	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/extract"
	"github.com/miljoverk/samsvar/internal/models"
	"github.com/miljoverk/samsvar/internal/ocr"
)

// Well-known artifact names inside the media directory. The renderer picks the merged
// artifact up from here.
const (
	SummaryFileName = "final_output.json"
	MergedFileName  = "merged_output.json"
)

// CriteriaLoader loads the full criteria context. *repositories.CriteriaRepository
// implements it.
type CriteriaLoader interface {
	Comprehensive(ctx context.Context, criteriaID string) (*models.CriteriaContext, error)
}

// Renderer turns the merged report data into the downloadable document and returns its
// URL. Report typography is a separate concern; the pipeline only needs the reference.
type Renderer interface {
	Render(ctx context.Context, merged *models.MergedReportData, mediaRoot string) (string, error)
}

// MergedArtifactRenderer satisfies Renderer by pointing at the persisted merged JSON
// artifact. Used until the document renderer is wired in.
type MergedArtifactRenderer struct {
	BaseURL string
}

func (r MergedArtifactRenderer) Render(_ context.Context, _ *models.MergedReportData, _ string) (string, error) {
	return r.BaseURL + "/media/" + MergedFileName, nil
}

// Config carries the tunables of a pipeline run.
type Config struct {
	// MediaRoot is the working directory for artifacts.
	MediaRoot string
	// PromptChunkSize is the token budget for each document chunk sent to the model.
	PromptChunkSize int
}

// Pipeline runs the document-ingestion and model-orchestration sequence. It is safe for
// concurrent use: every run gets its own conversation session, and no state is shared
// between runs.
type Pipeline struct {
	criteria   CriteriaLoader
	completer  ai.Completer
	ocrReader  ocr.Reader
	renderer   Renderer
	transcript io.Writer
	logger     *slog.Logger
	config     Config
	now        func() time.Time
}

func New(
	criteria CriteriaLoader,
	completer ai.Completer,
	ocrReader ocr.Reader,
	renderer Renderer,
	transcript io.Writer,
	logger *slog.Logger,
	config Config,
) *Pipeline {
	if config.PromptChunkSize < 1 {
		config.PromptChunkSize = extract.DefaultPromptChunkSize
	}
	return &Pipeline{
		criteria:   criteria,
		completer:  completer,
		ocrReader:  ocrReader,
		renderer:   renderer,
		transcript: transcript,
		logger:     logger.With("source", "Pipeline"),
		config:     config,
		now:        time.Now,
	}
}

// Result is the outcome of a successful run.
type Result struct {
	// FileURL references the rendered artifact.
	FileURL string
	// Files records the per-file extraction outcomes, including skipped files.
	Files []models.FileResult
	// Merged is the terminal artifact handed to rendering.
	Merged *models.MergedReportData
}

// Run executes the whole pipeline for one upload. Criteria lookup happens before any
// file is touched; per-file extraction failures are recorded and skipped; any other
// error aborts the run.
func (p *Pipeline) Run(ctx context.Context, paths []string, metadata models.ProjectMetadata) (*Result, error) {
	criteria, err := p.criteria.Comprehensive(ctx, metadata.AuditCriteria)
	if err != nil {
		return nil, errors.Wrap(err, "load criteria context", slog.String("criteria_id", metadata.AuditCriteria))
	}

	session := ai.NewSession(p.completer, p.transcript, p.logger)
	if _, err = session.Send(ctx, contextPrompt(criteria)); err != nil {
		return nil, errors.Wrap(err, "send criteria context")
	}
	p.logger.InfoContext(ctx, "audit criteria context sent", "criteria_id", metadata.AuditCriteria)

	var (
		documents []models.ExtractedDocument
		results   []models.FileResult
	)
	for _, path := range paths {
		fileName := filepath.Base(path)
		document, err := extract.Document(ctx, path, p.ocrReader, p.config.PromptChunkSize)
		if err != nil {
			if errors.Is(err, extract.ErrUnsupportedFormat) || errors.Is(err, extract.ErrExtraction) {
				p.logger.WarnContext(ctx, "skipping file", "file", fileName, errors.SlogError(err))
				results = append(results, models.FileResult{FileName: fileName, Err: err})
				continue
			}
			return nil, errors.Wrap(err, "extract document", slog.String("file", fileName))
		}

		for i, chunk := range document.Chunks {
			if _, err = session.Send(ctx, chunkPrompt(document.FileName, i+1, chunk)); err != nil {
				return nil, errors.Wrap(err, "send document chunk",
					slog.String("file", document.FileName), slog.Int("chunk", i+1))
			}
			p.logger.DebugContext(ctx, "chunk sent", "file", document.FileName, "chunk", i+1)
		}

		documents = append(documents, document)
		results = append(results, models.FileResult{FileName: document.FileName, Chunks: len(document.Chunks)})
	}

	totalPoints := Ceiling(criteria.Credits, StageConstruction)

	raw, err := session.Send(ctx, finalPrompt(documents, criteria, totalPoints))
	if err != nil {
		return nil, errors.Wrap(err, "send finalization prompt")
	}

	summary, err := ParseSummary(raw)
	if err != nil {
		return nil, err
	}
	if err = p.writeArtifact(SummaryFileName, summary); err != nil {
		return nil, err
	}

	merged, err := Merge(*summary, metadata, p.now())
	if err != nil {
		return nil, err
	}
	if err = p.writeArtifact(MergedFileName, merged); err != nil {
		return nil, err
	}

	fileURL, err := p.renderer.Render(ctx, merged, p.config.MediaRoot)
	if err != nil {
		return nil, errors.Wrap(err, "render report")
	}

	return &Result{
		FileURL: fileURL,
		Files:   results,
		Merged:  merged,
	}, nil
}

func (p *Pipeline) writeArtifact(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.Wrap(err, "marshal artifact", slog.String("artifact", name))
	}
	path := filepath.Join(p.config.MediaRoot, name)
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write artifact", slog.String("path", path))
	}
	return nil
}
