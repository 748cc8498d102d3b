package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/satyam8596/clausefinder2/models"
	"github.com/satyam8596/clausefinder2/repository"
	"github.com/satyam8596/clausefinder2/service"
	"github.com/satyam8596/clausefinder2/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxUploadSize caps uploaded documents at 10MB
const maxUploadSize = 10 << 20

// allowedMimeTypes lists the document formats the analyzer accepts
var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// DocumentHandler handles document upload, retrieval and analysis kickoff
type DocumentHandler struct {
	documentRepo    *repository.DocumentRepository
	storage         storage.Storage
	analysisService *service.AnalysisService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentRepo *repository.DocumentRepository, store storage.Storage, analysisService *service.AnalysisService) *DocumentHandler {
	return &DocumentHandler{
		documentRepo:    documentRepo,
		storage:         store,
		analysisService: analysisService,
	}
}

// inferMimeType falls back to the filename extension when the multipart
// part carries no usable content type
func inferMimeType(filename, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return declared
	}
}

// Upload handles POST /api/documents/upload
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "No file provided in the 'file' field",
			},
		})
		return
	}

	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("File exceeds the %dMB limit", maxUploadSize>>20),
			},
		})
		return
	}

	mimeType := inferMimeType(fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if !allowedMimeTypes[mimeType] && !strings.HasPrefix(mimeType, "text/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNSUPPORTED_TYPE",
				"message": "Unsupported file type. Upload a PDF, Word or plain text document.",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to read uploaded file",
			},
		})
		return
	}
	defer file.Close()

	document := &models.Document{
		ID:       uuid.New(),
		Filename: fileHeader.Filename,
		MimeType: mimeType,
		Size:     fileHeader.Size,
	}

	storagePath, err := h.storage.Upload(c.Request.Context(), document.ID, document.Filename, mimeType, file)
	if err != nil {
		log.Printf("Failed to store document %s: %v", document.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to store uploaded file",
			},
		})
		return
	}
	document.StoragePath = storagePath

	if err := h.documentRepo.Create(c.Request.Context(), document); err != nil {
		// Don't leave an orphaned blob behind
		if delErr := h.storage.Delete(c.Request.Context(), storagePath); delErr != nil {
			log.Printf("Failed to clean up stored file %s: %v", storagePath, delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to save document record",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    document,
	})
}

// Get handles GET /api/documents/:id, streaming the stored document back
func (h *DocumentHandler) Get(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid document ID format",
			},
		})
		return
	}

	document, err := h.documentRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Document not found",
			},
		})
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), document.StoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DOWNLOAD_FAILED",
				"message": "Failed to retrieve document content",
			},
		})
		return
	}
	defer reader.Close()

	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, document.Filename),
	}
	c.DataFromReader(http.StatusOK, document.Size, document.MimeType, reader, headers)
}

// Analyze handles POST /api/documents/:id/analyze. It queues a background
// analysis job and returns 202 with the job id to poll.
func (h *DocumentHandler) Analyze(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid document ID format",
			},
		})
		return
	}

	result, err := h.analysisService.StartDocumentAnalysis(c.Request.Context(), service.StartDocumentAnalysisRequest{
		DocumentID: id,
	})
	if err != nil {
		if err == service.ErrDocumentNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Document not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "JOB_CREATION_FAILED",
				"message": "Failed to start document analysis",
			},
		})
		return
	}

	jobID := result.JobID
	go func() {
		// The request context dies with the response; the job must not
		bgCtx := context.Background()
		if err := h.analysisService.ProcessDocumentAnalysis(bgCtx, jobID); err != nil {
			log.Printf("Background analysis for job %s failed: %v", jobID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id": jobID,
			"status": models.JobStatusPending,
		},
	})
}
