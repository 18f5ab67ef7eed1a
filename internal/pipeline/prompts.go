package pipeline

import (
	"fmt"
	"strings"

	"github.com/miljoverk/samsvar/internal/models"
)

// contextPrompt asks the model to memorize the audit criteria before any document is sent.
func contextPrompt(criteria *models.CriteriaContext) string {
	var prompt strings.Builder
	prompt.WriteString("Here is the relevant audit criteria data:\n")
	fmt.Fprintf(&prompt, "- Category: %s (%s)\n  Summary: %s\n",
		criteria.Category.Name, criteria.Category.Number, criteria.Category.Summary)
	fmt.Fprintf(&prompt, "- Assessment Issue: %s (%s)\n  Aim: %s\n",
		criteria.Issue.Name, criteria.Issue.Number, criteria.Issue.Aim)
	fmt.Fprintf(&prompt, "- Assessment Criteria: %s\n  Description: %s\n",
		criteria.Criteria.Name, criteria.Criteria.Description)
	fmt.Fprintf(&prompt, "- Credits: %s\n", formatCredits(criteria.Credits))
	fmt.Fprintf(&prompt, "- Guidance: %s\n", strings.Join(criteria.Guidances, ", "))
	fmt.Fprintf(&prompt, "- Evidence: %s\n", joinEvidenceGuidance(criteria.Evidences))
	prompt.WriteString("\nPlease remember this information as context for reviewing the documentation files.")
	return prompt.String()
}

// chunkPrompt sends one chunk of one document and asks the model to remember it.
func chunkPrompt(fileName string, chunkNumber int, chunk string) string {
	return fmt.Sprintf(`You are reviewing a document named '%s'.

Here is chunk %d of this document. This is a section of the document text:

%s

Please remember this information for later when generating the final response based on the provided audit criteria.`,
		fileName, chunkNumber, chunk)
}

// finalPrompt builds the finalization request: a recap of every document sent, the
// criteria data restated so the answer is self-contained, the computed points ceiling
// and the exact JSON output contract. The report language is Norwegian.
func finalPrompt(documents []models.ExtractedDocument, criteria *models.CriteriaContext, totalPoints int) string {
	var prompt strings.Builder
	prompt.WriteString("Du har tidligere mottatt deler av følgende dokumenter. " +
		"Vennligst husk innholdet og lag følgende basert på konteksten som er gitt nedenfor, og i norsk språk:\n\n")

	for i, document := range documents {
		fmt.Fprintf(&prompt, "- Dokument %d: %s\n", i+1, document.FileName)
	}

	prompt.WriteString("\nHer er relevant revisjonskriteriedata for referanse:\n")
	fmt.Fprintf(&prompt, "- Kategori: %s (%s)\n  Sammendrag: %s\n",
		criteria.Category.Name, criteria.Category.Number, criteria.Category.Summary)
	fmt.Fprintf(&prompt, "- Revisjonsspørsmål: %s (%s)\n  Mål: %s\n",
		criteria.Issue.Name, criteria.Issue.Number, criteria.Issue.Aim)
	fmt.Fprintf(&prompt, "- Vurderingskriterium: %s\n  Beskrivelse: %s\n",
		criteria.Criteria.Name, criteria.Criteria.Description)
	fmt.Fprintf(&prompt, "- Veiledning: %s\n", strings.Join(criteria.Guidances, ", "))
	fmt.Fprintf(&prompt, "- Bevis: %s\n", joinEvidenceGuidance(criteria.Evidences))
	prompt.WriteString("- Poeng:\n")
	for _, credit := range criteria.Credits {
		fmt.Fprintf(&prompt, "  - %s: %s (Delpoeng: %s)\n",
			credit.Stage, credit.Value, subCreditValue(credit))
	}

	fmt.Fprintf(&prompt, `
Basert på disse dokumentene og de gitte revisjonskriteriene, bruk bare informasjon og data som du har blitt gitt, og generer følgende på norsk i JSON-format:

1. Basert på kravene i relevant revisjonskriteriedata, beskriv tiltak som har blitt gjort (110-350 tegn), og pek på bevis med kildehenvisning med sidetall og dokument.
2. En unik beskrivelse for hvert dokument (30-110 tegn), basert på spesifikt innhold i dokumentet.
3. Beregn opptjente poeng ut av totalt %d for hele prosjektet. Poengene skal reflektere hvor godt dokumentene oppfyller poengene, veiledningen, og bevisene som er gitt ovenfor.

Svaret skal følge dette formatet:

{
    "compliance_description": [
        {
            "document_number": "01",
            "summary": "Bærekraftige prinsipper og klima- og miljømål for prosjektet er satt av Byggherre i dokument D4.6 under avsnitt 2 og 3.1 – 3.9."
        }
    ],
    "attachments": [
        {
            "number": "01",
            "name": "D4.6 Spesielle krav til Klima og miljø",
            "description": "Byggherrens overordnede klima og miljømål for utbyggingen."
        }
    ],
    "total_points": "X av %d"
}`, totalPoints, totalPoints)

	return prompt.String()
}

func formatCredits(credits []models.Credit) string {
	parts := make([]string, 0, len(credits))
	for _, credit := range credits {
		parts = append(parts, fmt.Sprintf("%s: %s", credit.Stage, credit.Value))
	}
	return strings.Join(parts, "; ")
}

func joinEvidenceGuidance(evidences []models.Evidence) string {
	parts := make([]string, 0, len(evidences))
	for _, evidence := range evidences {
		parts = append(parts, evidence.Guidance)
	}
	return strings.Join(parts, ", ")
}

func subCreditValue(credit models.Credit) string {
	if credit.SubCreditValue == nil {
		return "N/A"
	}
	return *credit.SubCreditValue
}
