package models

// Category is a top-level BREEAM assessment category such as "Management" or "Pollution".
type Category struct {
	Number  string `json:"category_number" db:"category_number"`
	Name    string `json:"category_name" db:"category_name"`
	Summary string `json:"category_summary" db:"summary"`
}

// AssessmentIssue is one issue under a category, e.g. "Man 03 Responsible construction practices".
type AssessmentIssue struct {
	Number string `json:"issue_number" db:"issue_number"`
	Name   string `json:"issue_name" db:"issue_name"`
	Aim    string `json:"aim" db:"aim"`
}

// AssessmentCriteria is the criteria the uploaded documentation is audited against.
type AssessmentCriteria struct {
	CriteriaID  string `json:"criteria_id" db:"criteria_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Type        string `json:"type" db:"type"`
}

// Credit is the number of points obtainable at a given assessment stage. The value is
// free-form manual text such as "up to 13" rather than a number. Sub-credit fields come
// from a left join and may be absent.
type Credit struct {
	Stage                string  `json:"assessment_stage" db:"assessment_stage"`
	Value                string  `json:"credits_value" db:"credits_value"`
	SubCreditDescription *string `json:"sub_credit_description" db:"sub_credit_description"`
	SubCreditValue       *string `json:"sub_credit_value" db:"sub_credit_value"`
}

// Evidence describes what documentation counts as proof for the criteria.
type Evidence struct {
	Type     string `json:"type" db:"type"`
	Guidance string `json:"evidence_guidance" db:"evidence_guidance"`
}

// CriteriaContext is an immutable snapshot of everything the language model needs to know
// about one audit criteria. It is assembled once per pipeline run and read-only thereafter.
type CriteriaContext struct {
	Category  Category           `json:"category"`
	Issue     AssessmentIssue    `json:"assessment_issue"`
	Criteria  AssessmentCriteria `json:"assessment_criteria"`
	Credits   []Credit           `json:"credits"`
	Guidances []string           `json:"guidances"`
	Evidences []Evidence         `json:"evidences"`
}
