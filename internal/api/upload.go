package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	apperrors "realtime-chat/backend/pkg/errors"
	"realtime-chat/backend/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadHandler stores attachment files and hands back a URL the relay will
// carry as an opaque reference. Only images and audio are accepted, capped
// at MaxFileSize; the relay itself never inspects attachment bytes.
type UploadHandler struct {
	dir         string
	maxFileSize int64
	baseURL     string
	log         *logger.Logger
}

func NewUploadHandler(dir string, maxFileSize int64, baseURL string, log *logger.Logger) (*UploadHandler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create upload dir %s: %w", dir, err)
	}
	return &UploadHandler{
		dir:         dir,
		maxFileSize: maxFileSize,
		baseURL:     baseURL,
		log:         log,
	}, nil
}

func (h *UploadHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/upload", h.Upload)
}

func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.Error(apperrors.NewValidationError("no file provided"))
		return
	}

	if file.Size > h.maxFileSize {
		c.Error(apperrors.NewBadRequestError("FILE_TOO_LARGE",
			fmt.Sprintf("file exceeds %d bytes", h.maxFileSize)))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.Error(apperrors.NewInternalServerError("UPLOAD_FAILED", "could not read upload"))
		return
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		c.Error(apperrors.NewInternalServerError("UPLOAD_FAILED", "could not inspect upload"))
		return
	}
	if !strings.HasPrefix(mtype.String(), "image/") && !strings.HasPrefix(mtype.String(), "audio/") {
		c.Error(apperrors.NewBadRequestError("UNSUPPORTED_TYPE",
			"only images and audio files are allowed"))
		return
	}

	name := fmt.Sprintf("%s-%s", uuid.New().String(), filepath.Base(file.Filename))
	dst := filepath.Join(h.dir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.log.LogError(err, "upload save failed", "filename", name)
		c.Error(apperrors.NewInternalServerError("UPLOAD_FAILED", "could not store upload"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileUrl":  fmt.Sprintf("%s/uploads/%s", h.baseURL, name),
		"fileType": mtype.String(),
	})
}
