package mail

import (
	"errors"
	"net/http"
	"strconv"

	"backoffice/internal/domain"
	"backoffice/internal/pkg/response"
	"backoffice/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	mailGroup := rg.Group("/mail")
	{
		mailGroup.POST("/send", h.Send)
		mailGroup.GET("/folders/:folder", h.ListFolder)
		mailGroup.GET("/unread", h.UnreadCount)
		mailGroup.GET("/:id", h.Get)
		mailGroup.POST("/:id/read", h.flagSetter("is_read"))
		mailGroup.POST("/:id/star", h.flagSetter("is_starred"))
		mailGroup.POST("/:id/trash", h.flagSetter("is_trashed"))
	}
}

func (h *Handler) Send(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req SendMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to, subject and body are required")
		return
	}

	result, err := h.service.Send(c.Request.Context(), userID, c.GetString("email"), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid mail data")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send mail")
		return
	}
	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) ListFolder(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	emails, err := h.service.ListFolder(c.Request.Context(), userID, domain.MailFolder(c.Param("folder")), limit, offset)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown folder")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list mail")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"emails": emails})
}

func (h *Handler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, ok := pathID(c)
	if !ok {
		return
	}
	e, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Email not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load email")
		return
	}
	response.Success(c, http.StatusOK, e)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	userID := c.GetInt64("user_id")
	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to count unread mail")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread": count})
}

// flagSetter handles the three toggle endpoints, which differ only in the
// column they flip. Body: {"value": true|false}, defaulting to true.
func (h *Handler) flagSetter(column string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		id, ok := pathID(c)
		if !ok {
			return
		}

		value := true
		var req struct {
			Value *bool `json:"value"`
		}
		if err := c.ShouldBindJSON(&req); err == nil && req.Value != nil {
			value = *req.Value
		}

		var err error
		switch column {
		case "is_read":
			err = h.service.MarkRead(c.Request.Context(), userID, id, value)
		case "is_starred":
			err = h.service.Star(c.Request.Context(), userID, id, value)
		case "is_trashed":
			err = h.service.Trash(c.Request.Context(), userID, id, value)
		}
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update email")
			return
		}
		response.Success(c, http.StatusOK, gin.H{column: value})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid email ID")
		return 0, false
	}
	return id, true
}
