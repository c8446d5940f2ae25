package storage

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pictora/server/internal/shared/response"
)

// Handler serves asset upload endpoints.
type Handler struct {
	svc *Service
	log *zap.Logger
}

// NewHandler creates a storage handler.
func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrMissingFile, Status: http.StatusBadRequest, Code: "MISSING_FILE"},
	{Err: ErrUnsupportedType, Status: http.StatusBadRequest, Code: "UNSUPPORTED_FILE_TYPE"},
	{Err: ErrFileTooLarge, Status: http.StatusRequestEntityTooLarge, Code: "FILE_TOO_LARGE"},
}

// Upload handles POST /uploads.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.HandleError(c, h.log, ErrMissingFile, errorMappings)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unreadable file")
		return
	}
	defer file.Close()

	url, err := h.svc.Upload(c.Request.Context(),
		c.PostForm("folder"), fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}
	response.Created(c, gin.H{"url": url})
}
