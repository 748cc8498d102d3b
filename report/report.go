// Package report converts the markdown analysis produced by the generative
// model into structured data. The input is model-generated and loosely
// formatted, so every stage tolerates missing or malformed pieces and the
// package never returns less than a fully-populated result.
package report

import (
	"log"

	"github.com/satyam8596/clausefinder2/models"
)

// Extraction is the structured form of one markdown analysis report
type Extraction struct {
	ExecutiveSummary string
	KeyClauses       models.ClauseList
	Parties          models.ContractSection
	Obligations      models.ContractSection
	Rights           models.ContractSection
	PaymentTerms     models.ContractSection
	Termination      models.ContractSection
	Risks            models.ClauseList
	Dates            models.ContractSection
	Suggestions      models.ContractSection
}

// Reports shorter than this are too trivial to warrant placeholder items
// when clause or risk extraction comes up empty.
const placeholderThreshold = 100

// Parse extracts all ten sections from a markdown report and decomposes the
// key-clauses and risks sections into discrete items. It is total: any input,
// including empty or pathological text, produces a fully-populated Extraction.
func Parse(markdown string) (extraction Extraction) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic while parsing analysis markdown: %v", r)
			extraction = errorExtraction()
		}
	}()

	cleaned := normalize(markdown)
	sections := ExtractSections(cleaned)

	keyClauses := SegmentKeyClauses(sections.KeyClauses)
	risks := SegmentRisks(sections.Risks)

	// A non-trivial report with an empty clause or risk list would render as
	// a contradiction in the UI, so substitute a single placeholder item.
	if len(keyClauses) == 0 && len(cleaned) > placeholderThreshold {
		keyClauses = models.ClauseList{{
			ID:       "1",
			Title:    "Contract Overview",
			Content:  "The document has been analyzed, but specific clauses could not be extracted. Please see the full report tab for complete details.",
			Category: "General",
			Risk:     models.RiskMedium,
		}}
	}
	if len(risks) == 0 && len(cleaned) > placeholderThreshold {
		risks = models.ClauseList{{
			ID:       "risk-1",
			Title:    "Potential Risk",
			Content:  "The document has been analyzed, but specific risks could not be extracted. Please see the full report tab for complete details.",
			Category: "Risk",
			Risk:     models.RiskMedium,
		}}
	}

	return Extraction{
		ExecutiveSummary: sections.ExecutiveSummary,
		KeyClauses:       keyClauses,
		Parties:          models.NewContractSection("parties", sections.Parties),
		Obligations:      models.NewContractSection("obligations", sections.Obligations),
		Rights:           models.NewContractSection("rights", sections.Rights),
		PaymentTerms:     models.NewContractSection("payment", sections.PaymentTerms),
		Termination:      models.NewContractSection("termination", sections.Termination),
		Risks:            risks,
		Dates:            models.NewContractSection("dates", sections.Dates),
		Suggestions:      models.NewContractSection("suggestions", sections.Suggestions),
	}
}

// errorExtraction is the fixed fallback returned when parsing fails outright.
// Every section is present so callers never need to null-check the result.
func errorExtraction() Extraction {
	return Extraction{
		ExecutiveSummary: "Error parsing the analysis.",
		KeyClauses: models.ClauseList{{
			ID:       "1",
			Title:    "Error in Analysis",
			Content:  "There was an error processing the document. Please try again with a different document.",
			Category: "Error",
			Risk:     models.RiskHigh,
		}},
		Parties:      models.NewContractSection("parties", ""),
		Obligations:  models.NewContractSection("obligations", ""),
		Rights:       models.NewContractSection("rights", ""),
		PaymentTerms: models.NewContractSection("payment", ""),
		Termination:  models.NewContractSection("termination", ""),
		Risks: models.ClauseList{{
			ID:       "risk-1",
			Title:    "Analysis Error",
			Content:  "There was an error analyzing risks in this document.",
			Category: "Error",
			Risk:     models.RiskHigh,
		}},
		Dates:       models.NewContractSection("dates", ""),
		Suggestions: models.NewContractSection("suggestions", ""),
	}
}
