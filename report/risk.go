package report

import (
	"strings"

	"github.com/satyam8596/clausefinder2/models"
)

// Keyword sets for the risk heuristic, checked in order. High-risk terms
// win over medium-risk terms when both appear.
var highRiskTerms = []string{
	"termination", "liability", "indemnification", "confidentiality", "non-compete",
	"intellectual property", "warranty", "limitation of liability", "damages", "breach",
}

var mediumRiskTerms = []string{
	"payment", "fees", "penalty", "duration", "notice period", "renewal", "modification",
	"amendment", "assignment", "governing law", "jurisdiction",
}

// DetermineRiskLevel assigns a risk tier to a clause by case-insensitive
// keyword search over its title and content. Deterministic and purely
// lexical: the same text always classifies the same way.
func DetermineRiskLevel(title, content string) models.RiskLevel {
	titleLower := strings.ToLower(title)
	contentLower := strings.ToLower(content)

	for _, term := range highRiskTerms {
		if strings.Contains(titleLower, term) || strings.Contains(contentLower, term) {
			return models.RiskHigh
		}
	}

	for _, term := range mediumRiskTerms {
		if strings.Contains(titleLower, term) || strings.Contains(contentLower, term) {
			return models.RiskMedium
		}
	}

	return models.RiskLow
}
