package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/satyam8596/clausefinder2/models"
	"github.com/satyam8596/clausefinder2/report"
	"github.com/satyam8596/clausefinder2/repository"
	"github.com/satyam8596/clausefinder2/storage"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
)

// AnalysisService runs contract analyses: it validates input, calls the
// generative model, converts the markdown report into structured data and
// persists the result.
type AnalysisService struct {
	analysisRepo *repository.AnalysisRepository
	documentRepo *repository.DocumentRepository
	jobRepo      *repository.AnalysisJobRepository
	storage      storage.Storage
	geminiClient *genai.Client
	modelName    string
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithAnalysisRepository sets the analysis repository
func WithAnalysisRepository(repo *repository.AnalysisRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.analysisRepo = repo
	}
}

// WithDocumentRepository sets the document repository
func WithDocumentRepository(repo *repository.DocumentRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.documentRepo = repo
	}
}

// WithAnalysisJobRepository sets the analysis job repository
func WithAnalysisJobRepository(repo *repository.AnalysisJobRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.jobRepo = repo
	}
}

// WithStorage sets the document storage backend
func WithStorage(store storage.Storage) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.storage = store
	}
}

// WithGeminiClient sets the Gemini client
func WithGeminiClient(client *genai.Client) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.geminiClient = client
	}
}

// WithModelName overrides the default generative model
func WithModelName(name string) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.modelName = name
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{
		modelName: defaultModelName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrMissingText          = errors.New("missing text field")
	ErrMissingFilename      = errors.New("missing filename field")
	ErrEmptyDocument        = errors.New("empty document content")
	ErrDocumentTooShort     = errors.New("document content too short for analysis")
	ErrInvalidDataURI       = errors.New("invalid data URI payload")
	ErrQuotaExceeded        = errors.New("ai service quota exceeded")
	ErrInvalidInput         = errors.New("invalid input provided to ai service")
	ErrPermissionDenied     = errors.New("permission denied by ai service")
	ErrPreconditionFailed   = errors.New("precondition failed for ai service request")
	ErrDocxNotSupported     = errors.New("docx file format could not be processed")
	ErrAnalysisTimeout      = errors.New("analysis request timed out")
	ErrIncompleteResponse   = errors.New("ai service returned an incomplete response")
	ErrNoMeaningfulAnalysis = errors.New("no meaningful analysis produced")
	ErrAnalysisNotFound     = errors.New("analysis not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrJobNotFound          = errors.New("analysis job not found")
	ErrJobCreationFailed    = errors.New("failed to create analysis job")
)

const (
	defaultModelName = "gemini-1.5-flash"

	// Validation gate thresholds. Plain text below the minimum is rejected
	// before any model call; text over the maximum is truncated.
	minTextLength = 50
	maxTextLength = 100000

	// Model responses shorter than this are treated as incomplete
	minResponseLength = 100

	analysisTimeout = 60 * time.Second
	maxRetries      = 3
	initialBackoff  = time.Second
)

// safetySettings mirror the thresholds the analysis prompt was tuned with
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
}

// AnalyzeDocumentRequest represents a request to analyze a document.
// Text holds either plain text or a base64 data URI for binary payloads.
type AnalyzeDocumentRequest struct {
	Text     string
	Filename string
}

// AnalyzeDocumentResult represents the result of an analysis
type AnalyzeDocumentResult struct {
	Analysis *models.AnalysisResult
}

// AnalyzeDocument validates the request, runs the generative analysis and
// returns the structured result. The model call is bounded by a 60 second
// timeout; the conversion itself is pure computation and cannot fail.
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, req AnalyzeDocumentRequest) (*AnalyzeDocumentResult, error) {
	text, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	if s.geminiClient == nil {
		return nil, errors.New("gemini client not set")
	}

	ctx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	markdown, err := s.generateAnalysis(ctx, text)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(markdown)) < minResponseLength {
		return nil, ErrIncompleteResponse
	}

	extraction := report.Parse(markdown)
	if extraction.ExecutiveSummary == "" && len(extraction.KeyClauses) == 0 && len(extraction.Risks) == 0 {
		return nil, ErrNoMeaningfulAnalysis
	}

	analysis := assembleResult(req.Filename, markdown, extraction)

	if s.analysisRepo != nil {
		if err := s.analysisRepo.Create(ctx, analysis); err != nil {
			// The caller still gets the full result; only retrieval by ID is lost
			log.Printf("Warning: Failed to persist analysis %s: %v", analysis.ID, err)
		}
	}

	return &AnalyzeDocumentResult{Analysis: analysis}, nil
}

// validateRequest applies the pre-flight gate: required fields, emptiness
// and length bounds. It returns the (possibly truncated) text to analyze.
// Base64 data URIs skip the plain-text length checks.
func validateRequest(req AnalyzeDocumentRequest) (string, error) {
	if req.Text == "" {
		return "", ErrMissingText
	}
	if req.Filename == "" {
		return "", ErrMissingFilename
	}

	text := req.Text
	if strings.HasPrefix(text, "data:") {
		return text, nil
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	if len(text) < minTextLength {
		return "", ErrDocumentTooShort
	}
	if len(text) > maxTextLength {
		log.Printf("Document exceeds maximum length (%d > %d), truncating", len(text), maxTextLength)
		text = text[:maxTextLength]
	}

	return text, nil
}

// generateAnalysis calls the generative model with retry and exponential
// backoff and returns the raw markdown report.
func (s *AnalysisService) generateAnalysis(ctx context.Context, text string) (string, error) {
	parts, mimeType, err := buildParts(text)
	if err != nil {
		return "", err
	}

	model := s.geminiClient.GenerativeModel(s.modelName)
	model.SafetySettings = safetySettings

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrAnalysisTimeout
			}
			backoff *= 2
		}

		resp, err := model.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = mapGenerationError(err, mimeType)
			// Client-side errors won't change on retry
			if errors.Is(lastErr, ErrInvalidInput) || errors.Is(lastErr, ErrPermissionDenied) ||
				errors.Is(lastErr, ErrPreconditionFailed) || errors.Is(lastErr, ErrDocxNotSupported) ||
				errors.Is(lastErr, ErrAnalysisTimeout) {
				return "", lastErr
			}
			continue
		}

		if out := responseText(resp); out != "" {
			return out, nil
		}
		lastErr = ErrIncompleteResponse
	}

	if lastErr == nil {
		lastErr = ErrIncompleteResponse
	}
	return "", lastErr
}

// buildParts converts the request text into model content parts. Plain text
// is embedded in the prompt; data URIs become inline binary data with the
// binary prompt variant.
func buildParts(text string) ([]genai.Part, string, error) {
	if !strings.HasPrefix(text, "data:") {
		return []genai.Part{genai.Text(textAnalysisPrompt(text))}, "", nil
	}

	meta, payload, found := strings.Cut(text[len("data:"):], ",")
	if !found {
		return nil, "", ErrInvalidDataURI
	}
	mimeType, _, _ := strings.Cut(meta, ";")
	if mimeType == "" || !strings.Contains(meta, "base64") {
		return nil, "", ErrInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}

	parts := []genai.Part{
		genai.Text(binaryAnalysisPrompt(mimeType)),
		genai.Blob{MIMEType: mimeType, Data: data},
	}
	return parts, mimeType, nil
}

// mapGenerationError translates model-call failures into the service's
// error taxonomy so handlers can answer with distinct statuses and messages.
func mapGenerationError(err error, mimeType string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrAnalysisTimeout
	}

	msg := err.Error()
	var apiErr *googleapi.Error
	code := 0
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}

	switch {
	case code == 429 || strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return ErrQuotaExceeded
	case strings.Contains(msg, "mimeType") && strings.Contains(msg, "not supported") && mimeType == docxMimeType:
		return ErrDocxNotSupported
	case code == 400 || strings.Contains(msg, "INVALID_ARGUMENT"):
		return ErrInvalidInput
	case code == 403 || strings.Contains(msg, "PERMISSION_DENIED"):
		return ErrPermissionDenied
	case code == 412 || strings.Contains(msg, "FAILED_PRECONDITION"):
		return ErrPreconditionFailed
	default:
		return fmt.Errorf("failed to generate analysis: %w", err)
	}
}

// responseText concatenates the text parts of the first candidates
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}

// assembleResult wraps an extraction into the immutable result record
func assembleResult(filename, markdown string, extraction report.Extraction) *models.AnalysisResult {
	return &models.AnalysisResult{
		ID:               uuid.New(),
		Filename:         filename,
		Timestamp:        time.Now().UTC(),
		ExecutiveSummary: extraction.ExecutiveSummary,
		KeyClauses:       extraction.KeyClauses,
		Parties:          extraction.Parties,
		Obligations:      extraction.Obligations,
		Rights:           extraction.Rights,
		PaymentTerms:     extraction.PaymentTerms,
		Termination:      extraction.Termination,
		Risks:            extraction.Risks,
		Dates:            extraction.Dates,
		Suggestions:      extraction.Suggestions,
		MarkdownContent:  markdown,
	}
}

// GetAnalysisRequest represents a request to fetch a stored analysis
type GetAnalysisRequest struct {
	ID uuid.UUID
}

// GetAnalysisResult represents the result of fetching an analysis
type GetAnalysisResult struct {
	Analysis *models.AnalysisResult
}

// GetAnalysis retrieves a stored analysis by ID
func (s *AnalysisService) GetAnalysis(ctx context.Context, req GetAnalysisRequest) (*GetAnalysisResult, error) {
	if s.analysisRepo == nil {
		return nil, errors.New("analysis repository not set")
	}

	analysis, err := s.analysisRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, ErrAnalysisNotFound
	}

	return &GetAnalysisResult{Analysis: analysis}, nil
}

// ListAnalysesRequest represents a request to list stored analyses
type ListAnalysesRequest struct {
	Limit  int
	Offset int
}

// ListAnalysesResult represents the result of listing analyses
type ListAnalysesResult struct {
	Analyses []*models.AnalysisResult
}

// ListAnalyses retrieves stored analyses, newest first
func (s *AnalysisService) ListAnalyses(ctx context.Context, req ListAnalysesRequest) (*ListAnalysesResult, error) {
	if s.analysisRepo == nil {
		return nil, errors.New("analysis repository not set")
	}

	analyses, err := s.analysisRepo.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &ListAnalysesResult{Analyses: analyses}, nil
}

// DeleteAnalysisRequest represents a request to delete a stored analysis
type DeleteAnalysisRequest struct {
	ID uuid.UUID
}

// DeleteAnalysis removes a stored analysis
func (s *AnalysisService) DeleteAnalysis(ctx context.Context, req DeleteAnalysisRequest) error {
	if s.analysisRepo == nil {
		return errors.New("analysis repository not set")
	}
	return s.analysisRepo.Delete(ctx, req.ID)
}

// StartDocumentAnalysisRequest represents a request to analyze a stored document
type StartDocumentAnalysisRequest struct {
	DocumentID uuid.UUID
}

// StartDocumentAnalysisResult carries the job to poll for completion
type StartDocumentAnalysisResult struct {
	JobID uuid.UUID
}

// StartDocumentAnalysis creates an analysis job for an uploaded document and
// returns immediately; ProcessDocumentAnalysis does the work in the background.
func (s *AnalysisService) StartDocumentAnalysis(ctx context.Context, req StartDocumentAnalysisRequest) (*StartDocumentAnalysisResult, error) {
	if s.documentRepo == nil {
		return nil, errors.New("document repository not set")
	}
	if s.jobRepo == nil {
		return nil, errors.New("analysis job repository not set")
	}

	document, err := s.documentRepo.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, ErrDocumentNotFound
	}

	job := &models.AnalysisJob{
		ID:         uuid.New(),
		DocumentID: document.ID,
		Status:     models.JobStatusPending,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, ErrJobCreationFailed
	}

	return &StartDocumentAnalysisResult{JobID: job.ID}, nil
}

// ProcessDocumentAnalysis runs the analysis for a job created by
// StartDocumentAnalysis. It is meant to run in a background goroutine; the
// outcome is recorded on the job for polling.
func (s *AnalysisService) ProcessDocumentAnalysis(ctx context.Context, jobID uuid.UUID) error {
	if s.jobRepo == nil {
		return errors.New("analysis job repository not set")
	}
	if s.documentRepo == nil {
		return errors.New("document repository not set")
	}
	if s.storage == nil {
		return errors.New("storage not set")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load analysis job: %w", err)
	}

	document, err := s.documentRepo.GetByID(ctx, job.DocumentID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load document: "+err.Error())
		return err
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	text, err := s.loadDocumentText(ctx, document)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load document content: "+err.Error())
		return err
	}

	result, err := s.AnalyzeDocument(ctx, AnalyzeDocumentRequest{
		Text:     text,
		Filename: document.Filename,
	})
	if err != nil {
		s.markJobFailed(ctx, jobID, err.Error())
		return err
	}

	if err := s.jobRepo.Complete(ctx, jobID, result.Analysis.ID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// loadDocumentText fetches a stored document and renders it as analyzable
// input: plain text as-is, binary formats as a base64 data URI.
func (s *AnalysisService) loadDocumentText(ctx context.Context, document *models.Document) (string, error) {
	reader, err := s.storage.Download(ctx, document.StoragePath)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(document.MimeType, "text/") {
		return string(data), nil
	}

	return "data:" + document.MimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// markJobFailed records a failure on a job; errors here are not actionable
func (s *AnalysisService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	if err := s.jobRepo.Fail(ctx, jobID, errorMessage); err != nil {
		log.Printf("Warning: Failed to mark job %s as failed: %v", jobID, err)
	}
}

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.AnalysisJob
}

// GetJobStatus retrieves the status of an analysis job
func (s *AnalysisService) GetJobStatus(ctx context.Context, req GetJobStatusRequest) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("analysis job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{Job: job}, nil
}
