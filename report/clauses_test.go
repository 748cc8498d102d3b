package report

import (
	"testing"

	"github.com/satyam8596/clausefinder2/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentKeyClausesBulletStyles(t *testing.T) {
	body := "- Alpha: first detail\n* Beta: second detail\n• Gamma: third detail\n1. Delta: fourth detail"

	clauses := SegmentKeyClauses(body)
	require.Len(t, clauses, 4)

	assert.Equal(t, "1", clauses[0].ID)
	assert.Equal(t, "Alpha", clauses[0].Title)
	assert.Equal(t, "first detail", clauses[0].Content)
	assert.Equal(t, "Key Clause", clauses[0].Category)

	assert.Equal(t, "Beta", clauses[1].Title)
	assert.Equal(t, "Gamma", clauses[2].Title)
	assert.Equal(t, "4", clauses[3].ID)
	assert.Equal(t, "Delta", clauses[3].Title)
}

func TestSegmentKeyClausesPreservesSourceOrder(t *testing.T) {
	body := "- Zeta: last alphabetically\n- Alpha: first alphabetically\n- Mu: middle"

	clauses := SegmentKeyClauses(body)
	require.Len(t, clauses, 3)
	assert.Equal(t, []string{"Zeta", "Alpha", "Mu"},
		[]string{clauses[0].Title, clauses[1].Title, clauses[2].Title})
}

func TestSegmentKeyClausesRiskScoring(t *testing.T) {
	body := "- Termination: either party may end the agreement\n- Payment: invoices due monthly\n- Deliverables: weekly status updates"

	clauses := SegmentKeyClauses(body)
	require.Len(t, clauses, 3)
	assert.Equal(t, models.RiskHigh, clauses[0].Risk)
	assert.Equal(t, models.RiskMedium, clauses[1].Risk)
	assert.Equal(t, models.RiskLow, clauses[2].Risk)
}

func TestSegmentKeyClausesWithoutColonGetsGenericTitle(t *testing.T) {
	body := "- The provider retains all liability for subcontractors"

	clauses := SegmentKeyClauses(body)
	require.Len(t, clauses, 1)
	assert.Equal(t, "Clause 1", clauses[0].Title)
	assert.Equal(t, "The provider retains all liability for subcontractors", clauses[0].Content)
	assert.Equal(t, models.RiskHigh, clauses[0].Risk)
}

func TestSegmentKeyClausesColonOnlyCountsOnFirstLine(t *testing.T) {
	// The colon sits on the second line of the run, so it is not a title
	body := "- A clause spanning\nmultiple lines: with a late colon"

	clauses := SegmentKeyClauses(body)
	require.Len(t, clauses, 1)
	assert.Equal(t, "Clause 1", clauses[0].Title)
}

func TestSegmentKeyClausesBareTitleKeepsRunAsContent(t *testing.T) {
	body := "- Indemnification:"

	clauses := SegmentKeyClauses(body)
	require.Len(t, clauses, 1)
	assert.Equal(t, "Indemnification", clauses[0].Title)
	assert.Equal(t, "Indemnification:", clauses[0].Content)
}

func TestSegmentKeyClausesExcludesIndentedSubBullets(t *testing.T) {
	body := "- Scope: covers all services\n  - includes maintenance\n- Fees: fixed monthly rate"

	clauses := SegmentKeyClauses(body)
	require.Len(t, clauses, 2)
	assert.Equal(t, "Scope", clauses[0].Title)
	assert.Equal(t, "covers all services", clauses[0].Content)
	assert.Equal(t, "Fees", clauses[1].Title)
}

func TestSegmentKeyClausesParagraphFallback(t *testing.T) {
	body := "The first paragraph discusses payment schedules in detail.\n\nThe second paragraph covers general housekeeping."

	clauses := SegmentKeyClauses(body)
	require.Len(t, clauses, 2)

	assert.Equal(t, "Key Clause 1", clauses[0].Title)
	assert.Equal(t, models.RiskMedium, clauses[0].Risk)
	assert.Equal(t, "Key Clause 2", clauses[1].Title)
	assert.Equal(t, models.RiskLow, clauses[1].Risk)
}

func TestSegmentKeyClausesEmptyBody(t *testing.T) {
	for _, body := range []string{"", "   ", "\n\n"} {
		clauses := SegmentKeyClauses(body)
		assert.NotNil(t, clauses)
		assert.Empty(t, clauses)
	}
}

func TestSegmentRisksAlwaysHigh(t *testing.T) {
	body := "- Minor Formatting: the document uses inconsistent fonts\n- Missing Signature Block: no execution page present"

	risks := SegmentRisks(body)
	require.Len(t, risks, 2)

	// Items in the risks section are flagged issues regardless of wording
	for _, risk := range risks {
		assert.Equal(t, models.RiskHigh, risk.Risk)
		assert.Equal(t, "Risk", risk.Category)
	}
	assert.Equal(t, "risk-1", risks[0].ID)
	assert.Equal(t, "risk-2", risks[1].ID)
	assert.Equal(t, "Minor Formatting", risks[0].Title)
}

func TestSegmentRisksWithoutColonGetsGenericTitle(t *testing.T) {
	body := "- No cap on damages anywhere in the agreement"

	risks := SegmentRisks(body)
	require.Len(t, risks, 1)
	assert.Equal(t, "Risk 1", risks[0].Title)
}

func TestSegmentRisksParagraphFallback(t *testing.T) {
	body := "The agreement lacks a dispute resolution clause.\n\nGoverning law is left unspecified."

	risks := SegmentRisks(body)
	require.Len(t, risks, 2)
	assert.Equal(t, "Risk 1", risks[0].Title)
	assert.Equal(t, "risk-2", risks[1].ID)
	assert.Equal(t, models.RiskHigh, risks[1].Risk)
}

func TestSegmentRisksEmptyBody(t *testing.T) {
	risks := SegmentRisks("")
	assert.NotNil(t, risks)
	assert.Empty(t, risks)
}
