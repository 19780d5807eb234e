package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dropit/internal/app"
	"dropit/internal/transport/http/response"
)

// multipartOverhead leaves room for boundaries and part headers on top of
// the file size limit.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	uploadService *app.UploadService
}

func NewUploadHandler(uploadService *app.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadService.MaxSize()+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(c, http.StatusBadRequest, app.ErrFileTooLarge.Error())
			return
		}
		response.Error(c, http.StatusBadRequest, app.ErrFileRequired.Error())
		return
	}

	file, err := header.Open()
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer file.Close()

	uploaded, err := h.uploadService.Upload(c.Request.Context(), app.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrFileRequired), errors.Is(err, app.ErrFileTooLarge), errors.Is(err, app.ErrUnsupportedType):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	response.OK(c, "file uploaded", gin.H{
		"url":        uploaded.URL,
		"size":       uploaded.Size,
		"type":       uploaded.Type,
		"filename":   uploaded.Filename,
		"uploadedAt": uploaded.UploadedAt,
	})
}

func (h *UploadHandler) List(c *gin.Context) {
	files, err := h.uploadService.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "failed to list files")
		return
	}
	response.OK(c, "", files)
}

func (h *UploadHandler) Delete(c *gin.Context) {
	err := h.uploadService.Delete(c.Request.Context(), c.Query("url"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrURLRequired):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrFileNotFound):
			response.Error(c, http.StatusNotFound, app.ErrFileNotFound.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "failed to delete file")
		}
		return
	}
	response.OK(c, "file deleted", nil)
}
