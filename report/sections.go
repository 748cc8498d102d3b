package report

import (
	"fmt"
	"regexp"
	"strings"
)

// Sections holds the trimmed body text of each expected report section.
// A section the model omitted is present with an empty body; extraction
// never fails and never merges two sections.
type Sections struct {
	ExecutiveSummary string
	KeyClauses       string
	Parties          string
	Obligations      string
	Rights           string
	PaymentTerms     string
	Termination      string
	Risks            string
	Dates            string
	Suggestions      string
}

// sectionPattern builds a tolerant matcher for one numbered report heading.
// The heading may be any markdown level, the "N." prefix is optional, and
// spacing/casing vary freely because the markdown is model-generated. The
// body is captured up to the next heading or end of text, so a missing
// heading elsewhere can never make one section swallow another.
func sectionPattern(num int, name string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?is)#+[ \t]*(?:%d\.?\s*)?%s\s*(.*?)(?:\n#|\z)`, num, name))
}

var (
	executiveSummaryPattern = sectionPattern(1, `executive\s*summary`)
	keyClausesPattern       = sectionPattern(2, `key\s*clauses`)
	partiesPattern          = sectionPattern(3, `parties\s*involved`)
	obligationsPattern      = sectionPattern(4, `obligations`)
	rightsPattern           = sectionPattern(5, `rights\s*and\s*benefits`)
	paymentPattern          = sectionPattern(6, `payment\s*terms`)
	terminationPattern      = sectionPattern(7, `termination\s*conditions`)
	risksPattern            = sectionPattern(8, `risks\s*(?:&|and)\s*red\s*flags`)
	datesPattern            = sectionPattern(9, `important\s*dates\s*(?:&|and)\s*durations`)
	suggestionsPattern      = sectionPattern(10, `suggestions`)
)

// normalize cleans network-delivered markdown before matching
func normalize(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
}

// ExtractSections locates the ten expected sections in a markdown analysis
// report. Input may be empty or contain no headings at all; absent sections
// come back as empty strings.
func ExtractSections(markdown string) Sections {
	cleaned := normalize(markdown)

	return Sections{
		ExecutiveSummary: matchSection(executiveSummaryPattern, cleaned),
		KeyClauses:       matchSection(keyClausesPattern, cleaned),
		Parties:          matchSection(partiesPattern, cleaned),
		Obligations:      matchSection(obligationsPattern, cleaned),
		Rights:           matchSection(rightsPattern, cleaned),
		PaymentTerms:     matchSection(paymentPattern, cleaned),
		Termination:      matchSection(terminationPattern, cleaned),
		Risks:            matchSection(risksPattern, cleaned),
		Dates:            matchSection(datesPattern, cleaned),
		Suggestions:      matchSection(suggestionsPattern, cleaned),
	}
}

func matchSection(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
