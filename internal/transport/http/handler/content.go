package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dropit/internal/app"
	"dropit/internal/model"
	"dropit/internal/transport/http/response"
)

const messagesType = "messages"

type ContentHandler struct {
	contentService *app.ContentService
}

type PostMessageRequest struct {
	Type        string          `json:"type"`
	Content     string          `json:"content"`
	MessageType string          `json:"messageType"`
	FileData    *model.FileData `json:"fileData"`
}

func NewContentHandler(contentService *app.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("type") == messagesType {
		messages, err := h.contentService.ListMessages(ctx)
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "failed to load messages")
			return
		}
		response.OKWithStorage(c, messages, h.contentService.StorageName())
		return
	}

	content, err := h.contentService.GetContent(ctx)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "failed to load content")
		return
	}
	response.OKWithStorage(c, content, h.contentService.StorageName())
}

// Post accepts either a chat message ({"type":"message",...}) or the legacy
// single-text body ({"text":...}).
func (h *ContentHandler) Post(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	var kind string
	if raw, ok := fields["type"]; ok {
		_ = json.Unmarshal(raw, &kind)
	}
	if kind == "message" {
		h.postMessage(c, body)
		return
	}

	raw, ok := fields["text"]
	var text string
	if !ok || json.Unmarshal(raw, &text) != nil {
		response.Error(c, http.StatusBadRequest, "text must be a string")
		return
	}

	content, err := h.contentService.SaveContent(c.Request.Context(), text)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "failed to save content")
		return
	}
	response.OK(c, "content saved", content)
}

func (h *ContentHandler) postMessage(c *gin.Context, body []byte) {
	var req PostMessageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid message payload")
		return
	}

	msg, err := h.contentService.PostMessage(c.Request.Context(), app.PostMessageInput{
		Content:     req.Content,
		MessageType: req.MessageType,
		FileData:    req.FileData,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty), errors.Is(err, app.ErrInvalidMessageType):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "failed to send message")
		}
		return
	}
	response.OK(c, "message sent", msg)
}

func (h *ContentHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("type") == messagesType {
		if err := h.contentService.ClearMessages(ctx); err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "failed to clear messages")
			return
		}
		response.OK(c, "messages cleared", nil)
		return
	}

	if err := h.contentService.ClearContent(ctx); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "failed to clear content")
		return
	}
	response.OK(c, "content cleared", nil)
}
