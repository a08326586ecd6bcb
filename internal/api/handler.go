package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/document"
	"github.com/sanjeevkumarraob/file-extractor-service/internal/upload"
	"github.com/sanjeevkumarraob/file-extractor-service/internal/workflow"
)

// multipartOverhead is the allowance for boundaries and part headers on top
// of the file size limit.
const multipartOverhead = 1 << 20

// Handler handles API requests
type Handler struct {
	extractor *document.Extractor
	node      *workflow.Node
	upload    upload.Options
	logger    *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(extractor *document.Extractor, uploadOpts upload.Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		extractor: extractor,
		node:      workflow.NewNode(extractor, logger),
		upload:    uploadOpts,
		logger:    logger,
	}
}

// extractResponse is the success body of the single-file endpoints.
type extractResponse struct {
	File          string           `json:"file"`
	Format        document.Format  `json:"format"`
	MIMEType      string           `json:"mime_type,omitempty"`
	Size          int              `json:"size"`
	ExtractedText string           `json:"extracted_text"`
	Data          []document.Table `json:"data,omitempty"`
}

type batchRequest struct {
	Items []workflow.Item `json:"items"`
}

type batchResponse struct {
	Items []workflow.Item `json:"items"`
}

// HealthCheck provides a simple health check endpoint
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Extract handles a multipart upload in the "file" field.
func (h *Handler) Extract(c *gin.Context) {
	if h.upload.MaxBytes > 0 {
		limit := h.upload.MaxBytes + multipartOverhead
		if c.Request.ContentLength > limit {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": upload.ErrTooLarge.Error()})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": upload.ErrTooLarge.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("open multipart file", zap.String("file", header.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"file": header.Filename, "error": "Failed to read upload"})
		return
	}
	defer file.Close()

	h.extractStaged(c, file, header.Filename, header.Header.Get("Content-Type"), false)
}

// ExtractRaw handles a raw request body named by the filename query parameter.
func (h *Handler) ExtractRaw(c *gin.Context) {
	name := c.Query("filename")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing filename query parameter"})
		return
	}

	h.extractStaged(c, c.Request.Body, name, c.ContentType(), true)
}

// ExtractBatch runs the workflow node over a JSON batch of items.
func (h *Handler) ExtractBatch(c *gin.Context) {
	if h.upload.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.upload.MaxBytes)
	}

	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": upload.ErrTooLarge.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid batch request: " + err.Error()})
		return
	}

	items := h.node.Execute(c.Request.Context(), req.Items)
	c.JSON(http.StatusOK, batchResponse{Items: items})
}

// extractStaged stages body on disk, extracts it and writes the response.
// The staged file is removed on every path.
func (h *Handler) extractStaged(c *gin.Context, body io.Reader, name, mimeHint string, requireBody bool) {
	staged, err := upload.Stage(body, name, h.upload)
	if err != nil {
		if errors.Is(err, upload.ErrTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"file": name, "error": err.Error()})
			return
		}
		h.logger.Error("stage upload", zap.String("file", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"file": name, "error": "Failed to read upload"})
		return
	}
	defer func() {
		if err := staged.Release(); err != nil {
			h.logger.Warn("release staged upload", zap.String("path", staged.Path), zap.Error(err))
		}
	}()

	if requireBody && staged.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"file": name, "error": "Empty request body"})
		return
	}

	content, err := staged.Bytes()
	if err != nil {
		h.logger.Error("read staged upload", zap.String("file", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"file": name, "error": "Failed to read upload"})
		return
	}

	result := h.extractor.Extract(c.Request.Context(), document.Request{
		FileName: name,
		MIMEHint: mimeHint,
		Content:  content,
	})
	if result.Failed() {
		c.JSON(http.StatusInternalServerError, gin.H{"file": result.FileName, "error": result.Error})
		return
	}

	h.logger.Info("file extracted",
		zap.String("file", result.FileName),
		zap.String("format", string(result.Format)),
		zap.Int("size", result.Size),
		zap.Int("chars", len(result.Text)),
	)

	c.JSON(http.StatusOK, extractResponse{
		File:          result.FileName,
		Format:        result.Format,
		MIMEType:      result.MIMEType,
		Size:          result.Size,
		ExtractedText: result.Text,
		Data:          result.Data,
	})
}
