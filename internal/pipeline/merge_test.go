package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/models"
)

func validMetadata() models.ProjectMetadata {
	return models.ProjectMetadata{
		ProjectName:              "E18 Vestkorridoren",
		EntrepreneurResponsible:  "Kari Nordmann",
		CivilEngineerResponsible: "Ola Nordmann",
		Assessor:                 "Anne Hansen",
		AuditCriteria:            "MAN03-1",
		Premise:                  true,
		PreparedBy:               "Per Olsen",
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	summary := models.ComplianceSummary{
		ComplianceDescription: []models.ComplianceEntry{{DocumentNumber: "01", Summary: "Tiltak dokumentert."}},
		Attachments:           []models.Attachment{{Number: "01", Name: "Miljøplan", Description: "Plan."}},
		TotalPoints:           "9 av 13",
	}

	t.Run("combines summary and metadata", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2026, time.September, 1, 14, 30, 0, 0, time.UTC)

		merged, err := Merge(summary, validMetadata(), now)
		require.NoError(t, err)

		assert.Equal(t, "E18 Vestkorridoren", merged.ProjectName)
		assert.Equal(t, "Kari Nordmann", merged.EntrepreneurResponsible)
		assert.Equal(t, "Ola Nordmann", merged.CivilEngineerResponsible)
		assert.Equal(t, "Anne Hansen", merged.Assessor)
		assert.Equal(t, "MAN03-1", merged.AuditCriteria)
		assert.True(t, merged.Premise)
		assert.Equal(t, "9 av 13", merged.TotalPoints)
		assert.Equal(t, "Per Olsen", merged.PreparedBy)
		assert.Equal(t, summary.ComplianceDescription, merged.ComplianceDescription)
		assert.Equal(t, summary.Attachments, merged.Attachments)
	})

	t.Run("date_created is stamped from now, not inputs", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2025, time.December, 24, 9, 0, 0, 0, time.UTC)

		merged, err := Merge(summary, validMetadata(), now)
		require.NoError(t, err)
		assert.Equal(t, "24.12.2025", merged.DateCreated)
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()
		mutations := map[string]func(*models.ProjectMetadata){
			"projectName":                    func(m *models.ProjectMetadata) { m.ProjectName = "" },
			"breeamEntrepreneurResponsible":  func(m *models.ProjectMetadata) { m.EntrepreneurResponsible = "" },
			"breeamCivilEngineerResponsible": func(m *models.ProjectMetadata) { m.CivilEngineerResponsible = "" },
			"breeamAssessor":                 func(m *models.ProjectMetadata) { m.Assessor = "" },
			"auditCriteria":                  func(m *models.ProjectMetadata) { m.AuditCriteria = "" },
			"preparedBy":                     func(m *models.ProjectMetadata) { m.PreparedBy = "" },
		}
		for field, mutate := range mutations {
			metadata := validMetadata()
			mutate(&metadata)

			_, err := Merge(summary, metadata, time.Now())
			require.Error(t, err, field)
			assert.True(t, errors.Is(err, ErrMissingField), field)
		}
	})

	t.Run("premise false is not a missing field", func(t *testing.T) {
		t.Parallel()
		metadata := validMetadata()
		metadata.Premise = false

		merged, err := Merge(summary, metadata, time.Now())
		require.NoError(t, err)
		assert.False(t, merged.Premise)
	})
}
