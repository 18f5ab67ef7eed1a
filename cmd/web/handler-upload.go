package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/miljoverk/samsvar/internal/ai"
	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/logging"
	"github.com/miljoverk/samsvar/internal/models"
	"github.com/miljoverk/samsvar/internal/pipeline"
	"github.com/miljoverk/samsvar/internal/repositories"
	"github.com/miljoverk/samsvar/internal/tasks"
)

const maxUploadMemory = 32 << 20

type uploadResponse struct {
	TaskID  string       `json:"task_id"`
	Status  tasks.Status `json:"status"`
	FileURL string       `json:"file_url,omitempty"`
	Message string       `json:"message,omitempty"`
}

// upload receives the project metadata and documentation files, runs the report
// pipeline and responds with the finished task state. Processing happens inside the
// request; the task registry lets clients that lost the response re-fetch the outcome.
func (app *application) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	var metadata models.ProjectMetadata
	if err := json.Unmarshal([]byte(r.FormValue("data")), &metadata); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	taskID := app.tasks.Create()

	// A started run has no cancellation mechanism: a client that disconnects must still
	// find the outcome in the task registry, so the run cannot inherit the request's
	// cancellation. Every log line of the run carries the task id.
	ctx := logging.WithAttrs(context.WithoutCancel(r.Context()), slog.String("task_id", taskID))

	paths, err := app.saveUploads(taskID, files)
	if err != nil {
		app.tasks.Fail(taskID, "could not store the uploaded files")
		app.serverError(w, r, err)
		return
	}

	result, err := app.runner.Run(ctx, paths, metadata)
	if err != nil {
		status, message := classifyRunError(err)
		app.tasks.Fail(taskID, message)
		app.logger.LogAttrs(ctx, slog.LevelError, "report pipeline failed", errors.SlogError(err))
		app.writeJSON(w, r, status, uploadResponse{
			TaskID:  taskID,
			Status:  tasks.StatusError,
			Message: message,
		})
		return
	}

	app.tasks.Complete(taskID, result.FileURL)
	app.logger.LogAttrs(ctx, slog.LevelInfo, "report generated",
		slog.String("file_url", result.FileURL), slog.Int("files", len(result.Files)))

	app.writeJSON(w, r, http.StatusOK, uploadResponse{
		TaskID:  taskID,
		Status:  tasks.StatusCompleted,
		FileURL: result.FileURL,
	})
}

// saveUploads persists the multipart files under a task-scoped directory and returns
// their paths in upload order.
func (app *application) saveUploads(taskID string, files []*multipart.FileHeader) ([]string, error) {
	uploadDir := filepath.Join(app.mediaRoot, "uploads", taskID)
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create upload directory", slog.String("path", uploadDir))
	}

	paths := make([]string, 0, len(files))
	for _, header := range files {
		path := filepath.Join(uploadDir, filepath.Base(header.Filename))
		if err := saveUpload(header, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func saveUpload(header *multipart.FileHeader, path string) error {
	src, err := header.Open()
	if err != nil {
		return errors.Wrap(err, "open uploaded file", slog.String("file", header.Filename))
	}
	defer func() {
		_ = src.Close()
	}()

	dst, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create file", slog.String("path", path))
	}
	defer func() {
		_ = dst.Close()
	}()

	if _, err = io.Copy(dst, src); err != nil {
		return errors.Wrap(err, "write file", slog.String("path", path))
	}
	return nil
}

// classifyRunError maps pipeline failures to an HTTP status and a user-facing message.
// The detailed cause stays in the logs.
func classifyRunError(err error) (int, string) {
	switch {
	case errors.Is(err, repositories.ErrCriteriaNotFound):
		return http.StatusBadRequest, "unknown audit criteria"
	case errors.Is(err, pipeline.ErrMissingField):
		return http.StatusBadRequest, "required project metadata is missing"
	case errors.Is(err, ai.ErrModelInvocation):
		return http.StatusBadGateway, "the language model could not be reached"
	case errors.Is(err, pipeline.ErrResponseParse):
		return http.StatusBadGateway, "the language model returned an unusable response"
	default:
		return http.StatusInternalServerError, "report generation failed"
	}
}
