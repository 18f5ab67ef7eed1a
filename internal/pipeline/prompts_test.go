package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/miljoverk/samsvar/internal/models"
)

func testCriteria() *models.CriteriaContext {
	sub := "2"
	return &models.CriteriaContext{
		Category: models.Category{Number: "3", Name: "Ledelse", Summary: "Bærekraftig ledelse."},
		Issue:    models.AssessmentIssue{Number: "Man 03", Name: "Ansvarlig byggepraksis", Aim: "Fremme ansvarlig drift."},
		Criteria: models.AssessmentCriteria{
			CriteriaID:  "MAN03-1",
			Name:        "Miljøledelse på anleggsplass",
			Description: "Entreprenøren skal ha et miljøledelsessystem.",
		},
		Credits: []models.Credit{
			{Stage: "construction", Value: "up to 13", SubCreditValue: &sub},
			{Stage: "design", Value: "up to 20"},
		},
		Guidances: []string{"Se teknisk manual kapittel 3."},
		Evidences: []models.Evidence{{Type: "document", Guidance: "Miljøplan for anleggsplassen."}},
	}
}

func TestContextPrompt(t *testing.T) {
	t.Parallel()

	prompt := contextPrompt(testCriteria())

	assert.Contains(t, prompt, "Ledelse")
	assert.Contains(t, prompt, "Man 03")
	assert.Contains(t, prompt, "Miljøledelse på anleggsplass")
	assert.Contains(t, prompt, "construction: up to 13")
	assert.Contains(t, prompt, "Se teknisk manual kapittel 3.")
	assert.Contains(t, prompt, "Miljøplan for anleggsplassen.")
	assert.Contains(t, prompt, "Please remember this information as context")
}

func TestChunkPrompt(t *testing.T) {
	t.Parallel()

	prompt := chunkPrompt("miljoplan.docx", 3, "chunk body")

	assert.Contains(t, prompt, "'miljoplan.docx'")
	assert.Contains(t, prompt, "chunk 3")
	assert.Contains(t, prompt, "chunk body")
}

func TestFinalPrompt(t *testing.T) {
	t.Parallel()

	documents := []models.ExtractedDocument{
		{FileName: "miljoplan.docx", Chunks: []string{"a"}},
		{FileName: "rapport.pdf", Chunks: []string{"b", "c"}},
	}

	prompt := finalPrompt(documents, testCriteria(), 13)

	assert.Contains(t, prompt, "- Dokument 1: miljoplan.docx")
	assert.Contains(t, prompt, "- Dokument 2: rapport.pdf")
	assert.Contains(t, prompt, "Kategori: Ledelse (3)")
	assert.Contains(t, prompt, "Revisjonsspørsmål: Ansvarlig byggepraksis (Man 03)")
	assert.Contains(t, prompt, "construction: up to 13 (Delpoeng: 2)")
	assert.Contains(t, prompt, "design: up to 20 (Delpoeng: N/A)")
	assert.Contains(t, prompt, "ut av totalt 13")
	assert.Contains(t, prompt, `"total_points": "X av 13"`)
	assert.Contains(t, prompt, `"compliance_description"`)
	assert.Contains(t, prompt, `"attachments"`)
}
