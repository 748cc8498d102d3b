package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/satyam8596/clausefinder2/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalysisHandler handles HTTP requests for contract analyses
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// AnalyzeRequest represents the request body for an analysis.
// Text carries plain text or a base64 data URI for binary documents.
type AnalyzeRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

// analysisErrorResponse maps a service error onto a status code and the
// user-facing message for that condition
func analysisErrorResponse(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrMissingText):
		return http.StatusBadRequest, "MISSING_TEXT", "Missing text field"
	case errors.Is(err, service.ErrMissingFilename):
		return http.StatusBadRequest, "MISSING_FILENAME", "Missing filename field"
	case errors.Is(err, service.ErrEmptyDocument):
		return http.StatusBadRequest, "EMPTY_DOCUMENT", "Empty document content"
	case errors.Is(err, service.ErrDocumentTooShort):
		return http.StatusBadRequest, "DOCUMENT_TOO_SHORT", "Document content too short for analysis"
	case errors.Is(err, service.ErrInvalidDataURI):
		return http.StatusBadRequest, "INVALID_PAYLOAD", "Document payload is not a valid base64 data URI"
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "QUOTA_EXCEEDED", "AI service quota exceeded. Please try again later."
	case errors.Is(err, service.ErrDocxNotSupported):
		return http.StatusBadRequest, "DOCX_NOT_SUPPORTED", "DOCX file format could not be processed. Try converting to PDF and uploading again."
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT", "Invalid input provided to AI service."
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, "PERMISSION_DENIED", "Permission denied by AI service. Check API key configuration."
	case errors.Is(err, service.ErrPreconditionFailed):
		return http.StatusPreconditionFailed, "PRECONDITION_FAILED", "Precondition failed for AI service request."
	case errors.Is(err, service.ErrAnalysisTimeout):
		return http.StatusGatewayTimeout, "ANALYSIS_TIMEOUT", "Analysis request timed out. Please try again with a shorter document."
	case errors.Is(err, service.ErrIncompleteResponse):
		return http.StatusInternalServerError, "INCOMPLETE_RESPONSE", "The AI service returned an incomplete response. Please try again."
	case errors.Is(err, service.ErrNoMeaningfulAnalysis):
		return http.StatusInternalServerError, "NO_MEANINGFUL_ANALYSIS", "Failed to extract meaningful analysis from the document. Please try again."
	default:
		return http.StatusInternalServerError, "ANALYSIS_FAILED", err.Error()
	}
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	serviceReq := service.AnalyzeDocumentRequest{
		Text:     req.Text,
		Filename: req.Filename,
	}

	result, err := h.analysisService.AnalyzeDocument(c.Request.Context(), serviceReq)
	if err != nil {
		status, code, message := analysisErrorResponse(err)
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": message,
			},
		})
		return
	}

	// The result is returned bare: its field names are the wire schema
	// existing clients store and render
	c.JSON(http.StatusOK, result.Analysis)
}

// GetAnalysis handles GET /api/analyses/:id
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid analysis ID format",
			},
		})
		return
	}

	result, err := h.analysisService.GetAnalysis(c.Request.Context(), service.GetAnalysisRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Analysis not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, result.Analysis)
}

// ListAnalyses handles GET /api/analyses
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.analysisService.ListAnalyses(c.Request.Context(), service.ListAnalysesRequest{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, result.Analyses)
}

// DeleteAnalysis handles DELETE /api/analyses/:id
func (h *AnalysisHandler) DeleteAnalysis(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid analysis ID format",
			},
		})
		return
	}

	if err := h.analysisService.DeleteAnalysis(c.Request.Context(), service.DeleteAnalysisRequest{ID: id}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *AnalysisHandler) GetJobStatus(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid job ID format",
			},
		})
		return
	}

	result, err := h.analysisService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{JobID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Analysis job not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Job,
	})
}
