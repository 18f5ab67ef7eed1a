package pipeline

import (
	"regexp"
	"strconv"

	"github.com/miljoverk/samsvar/internal/models"
)

// StageConstruction is the assessment stage whose credits bound the obtainable points.
// Other stages do not get a ceiling; the stage name is deliberately not configurable.
const StageConstruction = "construction"

var digitRunPattern = regexp.MustCompile(`\d+`)

// Ceiling returns the maximum number found in the credit values of the given stage.
// Stage matching is exact and case-sensitive. The number is the first maximal run of
// decimal digits anywhere in the value ("up to 13 points" yields 13); credits without
// digits are ignored. Returns 0 when nothing matches.
func Ceiling(credits []models.Credit, stage string) int {
	total := 0
	for _, credit := range credits {
		if credit.Stage != stage {
			continue
		}
		match := digitRunPattern.FindString(credit.Value)
		if match == "" {
			continue
		}
		points, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		total = max(total, points)
	}
	return total
}
