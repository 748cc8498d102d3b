package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RiskLevel indicates the severity assigned to a clause or risk finding
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
	RiskNone   RiskLevel = "none"
)

// Clause is a single extracted clause or risk finding
type Clause struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Category string    `json:"category"`
	Risk     RiskLevel `json:"risk"`
}

// ClauseList is a list of clauses stored as a JSONB column
type ClauseList []Clause

// Value implements driver.Valuer for JSONB
func (c ClauseList) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB
func (c *ClauseList) Scan(value interface{}) error {
	if value == nil {
		*c = make(ClauseList, 0)
		return nil
	}

	// Handle different types that pgx might return for JSONB
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*c = make(ClauseList, 0)
		return nil
	}

	if len(bytes) == 0 {
		*c = make(ClauseList, 0)
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// ContractSection is a named region of the analysis report
type ContractSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Display titles for the narrative report sections, keyed by section identifier.
// These identifiers are part of the storage schema.
var sectionTitles = map[string]string{
	"parties":     "Parties Involved",
	"obligations": "Obligations",
	"rights":      "Rights and Benefits",
	"payment":     "Payment Terms",
	"termination": "Termination Conditions",
	"dates":       "Important Dates & Durations",
	"suggestions": "Suggestions",
}

// NewContractSection builds a section with its canonical display title
func NewContractSection(id, content string) ContractSection {
	return ContractSection{
		ID:      id,
		Title:   sectionTitles[id],
		Content: content,
	}
}

// AnalysisResult is the full structured report for one analyzed document.
// The JSON field names are the storage schema consumed by existing clients
// and must not change.
type AnalysisResult struct {
	ID               uuid.UUID       `json:"id"`
	Filename         string          `json:"filename"`
	Timestamp        time.Time       `json:"timestamp"`
	ExecutiveSummary string          `json:"executiveSummary"`
	KeyClauses       ClauseList      `json:"keyClauses"`
	Parties          ContractSection `json:"parties"`
	Obligations      ContractSection `json:"obligations"`
	Rights           ContractSection `json:"rights"`
	PaymentTerms     ContractSection `json:"paymentTerms"`
	Termination      ContractSection `json:"termination"`
	Risks            ClauseList      `json:"risks"`
	Dates            ContractSection `json:"dates"`
	Suggestions      ContractSection `json:"suggestions"`
	MarkdownContent  string          `json:"markdownContent"`
}
