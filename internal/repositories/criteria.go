package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/models"
	"github.com/miljoverk/samsvar/internal/sqlite"
)

// ErrCriteriaNotFound signals that no assessment criteria exists for the given id. The
// pipeline treats it as a fatal precondition failure before touching any uploaded file.
var ErrCriteriaNotFound = errors.NewSentinel("audit criteria not found")

type CriteriaRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewCriteriaRepository(dbs *sqlite.Database, logger *slog.Logger) *CriteriaRepository {
	return &CriteriaRepository{
		dbs:    dbs,
		logger: logger.With("source", "CriteriaRepository"),
	}
}

// CriteriaListing is one row of the criteria dropdown in the upload form.
type CriteriaListing struct {
	CriteriaID   string `json:"criteria_id" db:"criteria_id"`
	Name         string `json:"name" db:"name"`
	Type         string `json:"type" db:"type"`
	IssueNumber  string `json:"issue_number" db:"issue_number"`
	IssueName    string `json:"issue_name" db:"issue_name"`
	CategoryName string `json:"category_name" db:"category_name"`
}

// List returns every assessment criteria with its issue and category names.
func (r *CriteriaRepository) List(ctx context.Context) ([]CriteriaListing, error) {
	stmt := `SELECT ac.criteria_id, ac.name, ac.type,
       ai.issue_number, ai.issue_name, c.category_name
FROM assessment_criteria ac
         JOIN assessment_issues ai ON ac.assessment_issue_id = ai.id
         JOIN categories c ON ai.category_id = c.id
ORDER BY c.category_number, ai.issue_number, ac.criteria_id`
	var listings []CriteriaListing
	if err := r.dbs.ReadOnly.SelectContext(ctx, &listings, stmt); err != nil {
		return nil, errors.Wrap(err, "select criteria listings")
	}
	return listings, nil
}

// GetByID returns the criteria row joined with its issue and category, without the
// related guidance, evidence and credits.
func (r *CriteriaRepository) GetByID(ctx context.Context, criteriaID string) (*CriteriaListing, error) {
	stmt := `SELECT ac.criteria_id, ac.name, ac.type,
       ai.issue_number, ai.issue_name, c.category_name
FROM assessment_criteria ac
         JOIN assessment_issues ai ON ac.assessment_issue_id = ai.id
         JOIN categories c ON ai.category_id = c.id
WHERE ac.criteria_id = ?`
	var listing CriteriaListing
	if err := r.dbs.ReadOnly.GetContext(ctx, &listing, stmt, criteriaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrCriteriaNotFound, "get criteria", slog.String("criteria_id", criteriaID))
		}
		return nil, errors.Wrap(err, "get criteria", slog.String("criteria_id", criteriaID))
	}
	return &listing, nil
}

// comprehensiveRow is the joined criteria/issue/category row the context assembly starts from.
type comprehensiveRow struct {
	ID int64 `db:"assessment_criteria_id"`
	models.AssessmentCriteria
	models.AssessmentIssue
	models.Category
}

// Comprehensive assembles the full CriteriaContext for one criteria id: the criteria row
// with its issue and category, then guidance texts, evidence requirements and credits
// with optional sub-credits. Returns ErrCriteriaNotFound for an unknown id.
func (r *CriteriaRepository) Comprehensive(ctx context.Context, criteriaID string) (*models.CriteriaContext, error) {
	var (
		row comprehensiveRow
		err error
	)

	stmt := `SELECT ac.id AS assessment_criteria_id, ac.criteria_id, ac.name, ac.description, ac.type,
       ai.issue_number, ai.issue_name, ai.aim,
       c.category_number, c.category_name, c.summary
FROM assessment_criteria ac
         JOIN assessment_issues ai ON ac.assessment_issue_id = ai.id
         JOIN categories c ON ai.category_id = c.id
WHERE ac.criteria_id = ?`
	if err = r.dbs.ReadOnly.GetContext(ctx, &row, stmt, criteriaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrCriteriaNotFound, "get comprehensive criteria",
				slog.String("criteria_id", criteriaID))
		}
		return nil, errors.Wrap(err, "get comprehensive criteria", slog.String("criteria_id", criteriaID))
	}

	var guidances []string
	stmt = `SELECT g.guidance_text FROM guidance g WHERE g.assessment_criteria_id = ? ORDER BY g.id`
	if err = r.dbs.ReadOnly.SelectContext(ctx, &guidances, stmt, row.ID); err != nil {
		return nil, errors.Wrap(err, "select guidance")
	}

	var evidences []models.Evidence
	stmt = `SELECT e.type, e.evidence_guidance FROM evidence e WHERE e.assessment_criteria_id = ? ORDER BY e.id`
	if err = r.dbs.ReadOnly.SelectContext(ctx, &evidences, stmt, row.ID); err != nil {
		return nil, errors.Wrap(err, "select evidence")
	}

	var credits []models.Credit
	stmt = `SELECT acc.assessment_stage, acc.credits_value,
       acsc.description AS sub_credit_description, acsc.credits AS sub_credit_value
FROM assessment_criteria_credits acc
         LEFT JOIN assessment_criteria_sub_credits acsc ON acc.id = acsc.assessment_criteria_credit_id
WHERE acc.assessment_criteria_id = ?
ORDER BY acc.id`
	if err = r.dbs.ReadOnly.SelectContext(ctx, &credits, stmt, row.ID); err != nil {
		return nil, errors.Wrap(err, "select credits")
	}

	criteriaContext := models.CriteriaContext{
		Category:  row.Category,
		Issue:     row.AssessmentIssue,
		Criteria:  row.AssessmentCriteria,
		Credits:   credits,
		Guidances: guidances,
		Evidences: evidences,
	}

	return &criteriaContext, nil
}
