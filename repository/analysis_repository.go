package repository

import (
	"context"
	"fmt"

	"github.com/satyam8596/clausefinder2/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisRepository handles database operations for analysis results
type AnalysisRepository struct {
	db *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create stores a completed analysis. ID and timestamp are assigned by the
// service when the result is assembled, not by the database.
func (r *AnalysisRepository) Create(ctx context.Context, analysis *models.AnalysisResult) error {
	query := `
		INSERT INTO analyses (
			id, filename, executive_summary, key_clauses, parties, obligations,
			rights, payment_terms, termination, risks, dates, suggestions,
			markdown_content, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)`

	_, err := r.db.Exec(
		ctx, query,
		analysis.ID,
		analysis.Filename,
		analysis.ExecutiveSummary,
		analysis.KeyClauses,
		analysis.Parties.Content,
		analysis.Obligations.Content,
		analysis.Rights.Content,
		analysis.PaymentTerms.Content,
		analysis.Termination.Content,
		analysis.Risks,
		analysis.Dates.Content,
		analysis.Suggestions.Content,
		analysis.MarkdownContent,
		analysis.Timestamp,
	)

	return err
}

// GetByID retrieves an analysis by ID
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisResult, error) {
	query := `
		SELECT id, filename, executive_summary, key_clauses, parties, obligations,
			rights, payment_terms, termination, risks, dates, suggestions,
			markdown_content, created_at
		FROM analyses
		WHERE id = $1`

	return scanAnalysis(r.db.QueryRow(ctx, query, id))
}

// List retrieves stored analyses, newest first
func (r *AnalysisRepository) List(ctx context.Context, limit, offset int) ([]*models.AnalysisResult, error) {
	query := `
		SELECT id, filename, executive_summary, key_clauses, parties, obligations,
			rights, payment_terms, termination, risks, dates, suggestions,
			markdown_content, created_at
		FROM analyses
		ORDER BY created_at DESC`

	args := []interface{}{}
	argIndex := 1

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*models.AnalysisResult
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}

	return analyses, rows.Err()
}

// Delete removes an analysis
func (r *AnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM analyses WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAnalysis rebuilds an AnalysisResult from a row. Narrative sections are
// stored as bare text; identifiers and display titles are fixed and
// reattached here.
func scanAnalysis(row rowScanner) (*models.AnalysisResult, error) {
	analysis := &models.AnalysisResult{}
	var parties, obligations, rights, paymentTerms, termination, dates, suggestions string

	err := row.Scan(
		&analysis.ID,
		&analysis.Filename,
		&analysis.ExecutiveSummary,
		&analysis.KeyClauses,
		&parties,
		&obligations,
		&rights,
		&paymentTerms,
		&termination,
		&analysis.Risks,
		&dates,
		&suggestions,
		&analysis.MarkdownContent,
		&analysis.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	analysis.Parties = models.NewContractSection("parties", parties)
	analysis.Obligations = models.NewContractSection("obligations", obligations)
	analysis.Rights = models.NewContractSection("rights", rights)
	analysis.PaymentTerms = models.NewContractSection("payment", paymentTerms)
	analysis.Termination = models.NewContractSection("termination", termination)
	analysis.Dates = models.NewContractSection("dates", dates)
	analysis.Suggestions = models.NewContractSection("suggestions", suggestions)

	// Guard against NULL JSONB columns from older rows
	if analysis.KeyClauses == nil {
		analysis.KeyClauses = make(models.ClauseList, 0)
	}
	if analysis.Risks == nil {
		analysis.Risks = make(models.ClauseList, 0)
	}

	return analysis, nil
}
