package quotation

import (
	"errors"
	"net/http"
	"strconv"

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
	rg.POST("/quotations", h.Create)
	rg.GET("/quotations", h.List)
	rg.GET("/quotations/:id", h.Get)
	rg.GET("/quotations/:id/pdf", h.PDF)
	rg.POST("/quotations/:id/duplicate", h.Duplicate)
	rg.POST("/quotations/:id/publish", h.Publish)
	rg.POST("/quotations/:id/unpublish", h.Unpublish)
	rg.POST("/quotations/:id/advance-status", h.AdvanceStatus)
	rg.DELETE("/quotations/:id", h.Delete)
}

// RegisterPublicRoutes mounts the token-addressed public view.
func (h *Handler) RegisterPublicRoutes(r gin.IRouter) {
	r.GET("/cotizacion/:token", h.PublicView)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	q, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing or invalid quotation fields")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create quotation")
		return
	}
	response.Success(c, http.StatusCreated, q)
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	qs, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list quotations")
		return
	}
	response.Success(c, http.StatusOK, qs)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load quotation")
		return
	}
	response.Success(c, http.StatusOK, q)
}

func (h *Handler) PDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	data, err := h.service.BuildPDF(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render PDF")
		return
	}
	c.Header("Content-Disposition", "attachment;filename=cotizacion.pdf")
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) Duplicate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	dup, err := h.service.Duplicate(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to duplicate quotation")
		return
	}
	response.Success(c, http.StatusCreated, dup)
}

func (h *Handler) Publish(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.service.Publish(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to publish quotation")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Unpublish(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Unpublish(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to unpublish quotation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unpublished": true})
}

func (h *Handler) AdvanceStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, err := h.service.AdvanceStatus(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Status cannot be advanced from its current value")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to advance status")
		}
		return
	}
	response.Success(c, http.StatusOK, q)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete quotation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) PublicView(c *gin.Context) {
	view, err := h.service.GetPublic(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
		return
	}
	response.Success(c, http.StatusOK, view)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid quotation ID")
		return 0, false
	}
	return id, true
}
