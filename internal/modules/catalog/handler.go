package catalog

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
	rg.GET("/concepts", h.List)
	rg.POST("/concepts", h.Create)
	rg.GET("/concepts/export", h.ExportCSV)
	rg.GET("/concepts/export.xlsx", h.ExportXLSX)
	rg.POST("/concepts/import", h.ImportCSV)
	rg.POST("/concepts/bulk-adjust", h.BulkAdjust)
	rg.GET("/concepts/:id", h.Get)
	rg.PATCH("/concepts/:id", h.Update)
	rg.DELETE("/concepts/:id", h.Delete)
	rg.GET("/concepts/:id/price-history", h.PriceHistory)

	rg.GET("/concept-categories", h.ListCategories)
	rg.POST("/concept-categories", h.CreateCategory)
	rg.POST("/concept-categories/rename", h.RenameCategory)
	rg.DELETE("/concept-categories/:name", h.DeleteCategory)

	rg.POST("/price-overrides", h.SetOverride)
	rg.GET("/price-overrides", h.ListOverrides)
	rg.DELETE("/price-overrides", h.DeleteOverride)
}

func (h *Handler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	concepts, err := h.service.List(c.Request.Context(), c.Query("category"), activeOnly)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list concepts")
		return
	}
	response.Success(c, http.StatusOK, concepts)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateConceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	concept, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create concept")
		return
	}
	response.Success(c, http.StatusCreated, concept)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	concept, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Concept not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load concept")
		return
	}
	response.Success(c, http.StatusOK, concept)
}

// Update reports failures inline so the edit form can render the message
// next to the field instead of bouncing to an error page.
func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateConceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InlineError(c, "Invalid request body")
		return
	}
	concept, err := h.service.Update(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.InlineError(c, "Concept not found")
			return
		}
		response.InlineError(c, "Failed to update concept")
		return
	}
	response.Success(c, http.StatusOK, concept)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete concept")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) BulkAdjust(c *gin.Context) {
	var req BulkAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InlineError(c, "Invalid request body")
		return
	}
	result, err := h.service.BulkAdjustPrices(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.InlineError(c, "No concepts selected")
			return
		}
		response.InlineError(c, "Bulk price adjustment failed")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) PriceHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	history, err := h.service.PriceHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load price history")
		return
	}
	response.Success(c, http.StatusOK, history)
}

func (h *Handler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=conceptos.csv")
	if err := h.service.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to export concepts")
	}
}

func (h *Handler) ExportXLSX(c *gin.Context) {
	data, err := h.service.ExportXLSX(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to export concepts")
		return
	}
	c.Header("Content-Disposition", "attachment;filename=conceptos.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) ImportCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "file not found")
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "unable to open file")
		return
	}
	defer src.Close()

	result, err := h.service.ImportCSV(c.Request.Context(), src)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "IMPORT_ERROR", err.Error())
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list categories")
		return
	}
	response.Success(c, http.StatusOK, cats)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	cat, err := h.service.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create category")
		return
	}
	response.Success(c, http.StatusCreated, cat)
}

func (h *Handler) RenameCategory(c *gin.Context) {
	var req RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := h.service.RenameCategory(c.Request.Context(), req); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to rename category")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"renamed": true})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.service.DeleteCategory(c.Request.Context(), c.Param("name")); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete category")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) SetOverride(c *gin.Context) {
	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InlineError(c, "Invalid request body")
		return
	}
	if err := h.service.SetOverride(c.Request.Context(), req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.InlineError(c, "Concept not found")
			return
		}
		response.InlineError(c, "Failed to save price override")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

func (h *Handler) ListOverrides(c *gin.Context) {
	collabID, err := strconv.ParseInt(c.Query("collaborator_id"), 10, 64)
	if err != nil || collabID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "collaborator_id is required")
		return
	}
	overrides, err := h.service.ListOverrides(c.Request.Context(), collabID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list overrides")
		return
	}
	response.Success(c, http.StatusOK, overrides)
}

func (h *Handler) DeleteOverride(c *gin.Context) {
	conceptID, err1 := strconv.ParseInt(c.Query("concept_id"), 10, 64)
	collabID, err2 := strconv.ParseInt(c.Query("collaborator_id"), 10, 64)
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "concept_id and collaborator_id are required")
		return
	}
	if err := h.service.DeleteOverride(c.Request.Context(), conceptID, collabID); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete override")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid concept ID")
		return 0, false
	}
	return id, true
}
