package pipeline

import (
	"log/slog"
	"time"

	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/models"
)

// ErrMissingField signals that a required project metadata field was absent at merge
// time. Business fields are never guessed or defaulted.
var ErrMissingField = errors.NewSentinel("required project metadata field missing")

// dateLayout is the Norwegian day.month.year format used in the report header.
const dateLayout = "02.01.2006"

// Merge combines the parsed compliance summary with the submitted project metadata into
// the report data handed to rendering. All fields are copied verbatim except
// date_created, which is stamped with now as a freshness marker rather than echoed from
// any input.
func Merge(summary models.ComplianceSummary, metadata models.ProjectMetadata, now time.Time) (*models.MergedReportData, error) {
	required := []struct {
		name  string
		value string
	}{
		{"projectName", metadata.ProjectName},
		{"breeamEntrepreneurResponsible", metadata.EntrepreneurResponsible},
		{"breeamCivilEngineerResponsible", metadata.CivilEngineerResponsible},
		{"breeamAssessor", metadata.Assessor},
		{"auditCriteria", metadata.AuditCriteria},
		{"preparedBy", metadata.PreparedBy},
	}
	for _, field := range required {
		if field.value == "" {
			return nil, errors.Wrap(ErrMissingField, "validate project metadata", slog.String("field", field.name))
		}
	}

	merged := models.MergedReportData{
		ProjectName:              metadata.ProjectName,
		EntrepreneurResponsible:  metadata.EntrepreneurResponsible,
		CivilEngineerResponsible: metadata.CivilEngineerResponsible,
		Assessor:                 metadata.Assessor,
		AuditCriteria:            metadata.AuditCriteria,
		Premise:                  metadata.Premise,
		TotalPoints:              summary.TotalPoints,
		PreparedBy:               metadata.PreparedBy,
		DateCreated:              now.Format(dateLayout),
		ComplianceDescription:    summary.ComplianceDescription,
		Attachments:              summary.Attachments,
	}
	return &merged, nil
}
