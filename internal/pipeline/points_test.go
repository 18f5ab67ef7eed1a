package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/miljoverk/samsvar/internal/models"
)

func TestCeiling(t *testing.T) {
	t.Parallel()

	sub := "2"
	tests := []struct {
		name    string
		credits []models.Credit
		stage   string
		want    int
	}{
		{
			name:    "no credits",
			credits: nil,
			stage:   StageConstruction,
			want:    0,
		},
		{
			name: "maximum over construction credits",
			credits: []models.Credit{
				{Stage: "construction", Value: "up to 13", SubCreditValue: &sub},
				{Stage: "construction", Value: "7"},
			},
			stage: StageConstruction,
			want:  13,
		},
		{
			name: "other stages are ignored",
			credits: []models.Credit{
				{Stage: "design", Value: "up to 20"},
				{Stage: "construction", Value: "7"},
			},
			stage: StageConstruction,
			want:  7,
		},
		{
			name: "stage match is exact",
			credits: []models.Credit{
				{Stage: "Construction", Value: "13"},
				{Stage: "construction phase", Value: "9"},
			},
			stage: StageConstruction,
			want:  0,
		},
		{
			name: "credits without digits are skipped",
			credits: []models.Credit{
				{Stage: "construction", Value: "exemplary"},
				{Stage: "construction", Value: "up to 4 credits"},
			},
			stage: StageConstruction,
			want:  4,
		},
		{
			name: "first digit run wins within a value",
			credits: []models.Credit{
				{Stage: "construction", Value: "3 of 15"},
			},
			stage: StageConstruction,
			want:  3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Ceiling(tt.credits, tt.stage))
		})
	}
}
