package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/satyam8596/clausefinder2/models"
)

// Bullet items start at a line beginning with -, *, • or "N." followed by
// whitespace. A run ends at the next bullet (including indented sub-bullets,
// whose text belongs to the parent item's analysis and is not extracted), a
// blank line, or end of text.
var (
	bulletStart    = regexp.MustCompile(`(?:^|\n)(?:[*•\-]|\d+\.)\s+`)
	bulletBoundary = regexp.MustCompile(`\n[ \t]*(?:[*•\-]|\d+\.)|\n\n`)
	paragraphSplit = regexp.MustCompile(`\n\n+`)
)

// bulletRuns returns the text of each bullet item in source order, with
// markers stripped
func bulletRuns(text string) []string {
	starts := bulletStart.FindAllStringIndex(text, -1)
	if starts == nil {
		return nil
	}

	var runs []string
	for _, loc := range starts {
		rest := text[loc[1]:]
		end := len(rest)
		if b := bulletBoundary.FindStringIndex(rest); b != nil {
			end = b[0]
		}
		run := strings.TrimSpace(rest[:end])
		if run != "" {
			runs = append(runs, run)
		}
	}
	return runs
}

// splitTitle separates a "Title: content" bullet run. A colon only counts as
// a title separator when it appears on the run's first line.
func splitTitle(run string) (title, content string, ok bool) {
	idx := strings.Index(run, ":")
	if idx <= 0 {
		return "", "", false
	}
	head := run[:idx]
	if strings.Contains(head, "\n") {
		return "", "", false
	}

	title = strings.TrimSpace(head)
	content = strings.TrimSpace(run[idx+1:])
	if content == "" {
		// a bare "Title:" line carries its only information in the title
		content = run
	}
	return title, content, true
}

// SegmentKeyClauses splits the key-clauses section body into discrete,
// risk-scored clauses. Bullet extraction is tried first; if the body has no
// bullets at all, each blank-line-separated paragraph becomes one clause.
// An empty body yields an empty list.
func SegmentKeyClauses(body string) models.ClauseList {
	clauses := make(models.ClauseList, 0)

	for i, run := range bulletRuns(body) {
		title, content, ok := splitTitle(run)
		if !ok {
			title = fmt.Sprintf("Clause %d", i+1)
			content = run
		}
		clauses = append(clauses, models.Clause{
			ID:       strconv.Itoa(i + 1),
			Title:    title,
			Content:  content,
			Category: "Key Clause",
			Risk:     DetermineRiskLevel(title, content),
		})
	}

	if len(clauses) == 0 {
		for i, paragraph := range paragraphs(body) {
			clauses = append(clauses, models.Clause{
				ID:       strconv.Itoa(i + 1),
				Title:    fmt.Sprintf("Key Clause %d", i+1),
				Content:  paragraph,
				Category: "Key Clause",
				Risk:     DetermineRiskLevel("", paragraph),
			})
		}
	}

	return clauses
}

// SegmentRisks splits the risks section body into risk findings. The risks
// section is defined to contain only flagged issues, so every item is scored
// high regardless of its wording.
func SegmentRisks(body string) models.ClauseList {
	risks := make(models.ClauseList, 0)

	for i, run := range bulletRuns(body) {
		title, content, ok := splitTitle(run)
		if !ok {
			title = fmt.Sprintf("Risk %d", i+1)
			content = run
		}
		risks = append(risks, models.Clause{
			ID:       fmt.Sprintf("risk-%d", i+1),
			Title:    title,
			Content:  content,
			Category: "Risk",
			Risk:     models.RiskHigh,
		})
	}

	if len(risks) == 0 {
		for i, paragraph := range paragraphs(body) {
			risks = append(risks, models.Clause{
				ID:       fmt.Sprintf("risk-%d", i+1),
				Title:    fmt.Sprintf("Risk %d", i+1),
				Content:  paragraph,
				Category: "Risk",
				Risk:     models.RiskHigh,
			})
		}
	}

	return risks
}

// paragraphs splits a body on blank lines, dropping empty pieces
func paragraphs(body string) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	var out []string
	for _, p := range paragraphSplit.Split(body, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
