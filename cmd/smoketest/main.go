// Smoketest exercises a deployed server: the health endpoint must answer and the audit
// criteria must be seeded.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/logging"
	"github.com/miljoverk/samsvar/internal/repositories"
)

func checkHealthy(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/healthy", nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "request health endpoint")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return errors.New("health endpoint not OK", slog.Int("status", resp.StatusCode))
	}
	return nil
}

func checkCriteriaSeeded(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/audit-criteria", nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "request criteria listing")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return errors.New("criteria listing not OK", slog.Int("status", resp.StatusCode))
	}
	var listings []repositories.CriteriaListing
	if err = json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return errors.Wrap(err, "decode criteria listing")
	}
	if len(listings) == 0 {
		return errors.New("criteria listing is empty")
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 {
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))
	timeout := 10 * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{}

	if err := checkHealthy(ctx, client, url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "health check failed", errors.SlogError(err))
		os.Exit(1)
	}
	if err := checkCriteriaSeeded(ctx, client, url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "criteria check failed", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
