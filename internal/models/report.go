package models

// ComplianceEntry is the model-written narrative for one uploaded document.
type ComplianceEntry struct {
	DocumentNumber string `json:"document_number"`
	Summary        string `json:"summary"`
}

// Attachment is the model-written register entry for one uploaded document.
type Attachment struct {
	Number      string `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ComplianceSummary is the structured verdict parsed from the model's final response.
// TotalPoints is a localized string of the form "X av N" (points claimed out of ceiling).
type ComplianceSummary struct {
	ComplianceDescription []ComplianceEntry `json:"compliance_description"`
	Attachments           []Attachment      `json:"attachments"`
	TotalPoints           string            `json:"total_points"`
}

// ProjectMetadata is submitted by the frontend alongside the files. The JSON keys match
// the upload form payload.
type ProjectMetadata struct {
	ProjectName              string `json:"projectName"`
	EntrepreneurResponsible  string `json:"breeamEntrepreneurResponsible"`
	CivilEngineerResponsible string `json:"breeamCivilEngineerResponsible"`
	Assessor                 string `json:"breeamAssessor"`
	AuditCriteria            string `json:"auditCriteria"`
	Premise                  bool   `json:"premise"`
	PreparedBy               string `json:"preparedBy"`
}

// MergedReportData is the terminal artifact of the pipeline: the compliance summary
// joined with the project metadata. Ownership passes to the report renderer.
type MergedReportData struct {
	ProjectName              string            `json:"project_name"`
	EntrepreneurResponsible  string            `json:"breeam_entrepreneur_responsible"`
	CivilEngineerResponsible string            `json:"breeam_civil_engineer_responsible"`
	Assessor                 string            `json:"breeam_assessor"`
	AuditCriteria            string            `json:"audit_criteria"`
	Premise                  bool              `json:"premise"`
	TotalPoints              string            `json:"total_points"`
	PreparedBy               string            `json:"prepared_by"`
	DateCreated              string            `json:"date_created"`
	ComplianceDescription    []ComplianceEntry `json:"compliance_description"`
	Attachments              []Attachment      `json:"attachments"`
}
