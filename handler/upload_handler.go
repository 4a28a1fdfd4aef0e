package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"notekeep/middleware"
	"notekeep/model"
	"notekeep/usecase"
	"notekeep/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadFormField is the multipart field carrying the image.
const UploadFormField = "image"

type ImageSaver interface {
	Save(ctx context.Context, header *multipart.FileHeader, requestBaseURL string) (*model.UploadedImage, error)
}

type UploadHandler struct {
	saver  ImageSaver
	logger *zap.Logger
}

func NewUploadHandler(saver ImageSaver, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{saver: saver, logger: logger}
}

func (h *UploadHandler) Register(r gin.IRouter) {
	r.POST("/upload", h.UploadImage)
}

func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile(UploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			utils.TrackUpload("too_large")
			utils.TooLarge(c, usecase.ErrFileTooLarge.Error())
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			utils.TrackUpload("missing_file")
			utils.BadRequest(c, usecase.ErrMissingFile.Error())
		default:
			utils.TrackUpload("missing_file")
			utils.BadRequest(c, "Invalid upload: "+err.Error())
		}
		return
	}

	image, err := h.saver.Save(c.Request.Context(), header, utils.GetBaseURL(c))
	switch {
	case errors.Is(err, usecase.ErrFileTooLarge):
		utils.TooLarge(c, err.Error())
	case errors.Is(err, usecase.ErrUnsupportedType):
		utils.UnsupportedMediaType(c, err.Error())
	case errors.Is(err, usecase.ErrMissingFile):
		utils.BadRequest(c, err.Error())
	case err != nil:
		h.logger.Error("failed to store upload",
			zap.Error(err),
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		)
		utils.InternalError(c, err.Error())
	default:
		utils.Success(c, image)
	}
}
