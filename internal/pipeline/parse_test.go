package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/models"
)

const summaryJSON = `{
    "compliance_description": [
        {"document_number": "01", "summary": "Miljøledelsessystem er dokumentert i kapittel 3."}
    ],
    "attachments": [
        {"number": "01", "name": "Miljøplan", "description": "Plan for miljøledelse på anleggsplassen."}
    ],
    "total_points": "9 av 13"
}`

func TestParseSummary(t *testing.T) {
	t.Parallel()

	want := models.ComplianceSummary{
		ComplianceDescription: []models.ComplianceEntry{
			{DocumentNumber: "01", Summary: "Miljøledelsessystem er dokumentert i kapittel 3."},
		},
		Attachments: []models.Attachment{
			{Number: "01", Name: "Miljøplan", Description: "Plan for miljøledelse på anleggsplassen."},
		},
		TotalPoints: "9 av 13",
	}

	t.Run("bare JSON", func(t *testing.T) {
		t.Parallel()
		summary, err := ParseSummary(summaryJSON)
		require.NoError(t, err)
		assert.Equal(t, want, *summary)
	})

	t.Run("fenced JSON parses identically", func(t *testing.T) {
		t.Parallel()
		summary, err := ParseSummary("```json\n" + summaryJSON + "\n```")
		require.NoError(t, err)
		assert.Equal(t, want, *summary)
	})

	t.Run("surrounding whitespace is tolerated", func(t *testing.T) {
		t.Parallel()
		summary, err := ParseSummary("\n\n  ```json\n" + summaryJSON + "\n```  \n")
		require.NoError(t, err)
		assert.Equal(t, want, *summary)
	})

	t.Run("prose around the fence fails parsing", func(t *testing.T) {
		t.Parallel()
		_, err := ParseSummary("Here is the report:\n```json\n" + summaryJSON + "\n```")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrResponseParse))
	})

	t.Run("unterminated fence fails parsing", func(t *testing.T) {
		t.Parallel()
		_, err := ParseSummary("```json\n" + summaryJSON)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrResponseParse))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()
		_, err := ParseSummary(`{"total_points": `)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrResponseParse))
	})
}
