package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dropit/internal/app"
	"dropit/internal/transport/http/response"
)

type ArchiveHandler struct {
	archiveService *app.ArchiveService
}

func NewArchiveHandler(archiveService *app.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archiveService: archiveService}
}

func (h *ArchiveHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Error(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	messages, err := h.archiveService.List(c.Request.Context(), limit)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrArchiveDisabled):
			response.Error(c, http.StatusServiceUnavailable, err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "failed to load archive")
		}
		return
	}
	response.OK(c, "", messages)
}
