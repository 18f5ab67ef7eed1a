package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/models"
)

// ErrResponseParse signals that the model's final response was not valid JSON even after
// fence stripping. The run fails; no partial summary is produced.
var ErrResponseParse = errors.NewSentinel("model response is not valid JSON")

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// stripFence removes a Markdown code fence wrapping the entire response: a leading
// ```json and a trailing ``` with no other content outside them. Anything else is
// returned unchanged (apart from surrounding whitespace) so that near-miss formats fail
// parsing loudly instead of being silently mangled.
func stripFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, fenceOpen) {
		return trimmed
	}
	body := strings.TrimPrefix(trimmed, fenceOpen)
	if !strings.HasSuffix(body, fenceClose) {
		return trimmed
	}
	return strings.TrimSpace(strings.TrimSuffix(body, fenceClose))
}

// ParseSummary decodes the model's final response into a ComplianceSummary. The raw
// response is attached to the error for diagnostics when decoding fails.
func ParseSummary(raw string) (*models.ComplianceSummary, error) {
	cleaned := stripFence(raw)
	var summary models.ComplianceSummary
	if err := json.Unmarshal([]byte(cleaned), &summary); err != nil {
		return nil, errors.Wrap(fmt.Errorf("%w: %w", ErrResponseParse, err), "decode compliance summary",
			slog.String("raw", raw))
	}
	return &summary, nil
}
