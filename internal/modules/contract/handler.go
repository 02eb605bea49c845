package contract

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"backoffice/internal/pkg/response"
	"backoffice/internal/repository"

	"github.com/gin-gonic/gin"
)

// Artifact uploads are photos from phone cameras; 10MB each is plenty.
const maxArtifactSize = 10 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contracts", h.Create)
	rg.GET("/contracts", h.List)
	rg.GET("/contracts/:id", h.Get)
	rg.POST("/contracts/:id/initiate", h.Initiate)
	rg.POST("/contracts/:id/cancel", h.Cancel)
	rg.POST("/contracts/:id/complete", h.Complete)
	rg.POST("/contracts/:id/comment", h.Comment)
	rg.GET("/contracts/:id/history", h.History)
	rg.GET("/contracts/:id/tokens", h.Tokens)
}

// RegisterPublicRoutes exposes the token-addressed signing wizard. No auth;
// possession of the token is the credential.
func (h *Handler) RegisterPublicRoutes(r gin.IRouter) {
	r.GET("/contrato/:token", h.ViewByToken)
	r.POST("/contrato/:token/sign", h.Sign)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	contract, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid contract data")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create contract")
		return
	}
	response.Success(c, http.StatusCreated, contract)
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	contracts, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list contracts")
		return
	}
	response.Success(c, http.StatusOK, contracts)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	contract, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Contract not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load contract")
		return
	}
	response.Success(c, http.StatusOK, contract)
}

func (h *Handler) Initiate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.service.Initiate(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Contract not found")
		case errors.Is(err, ErrNotDraft):
			response.Error(c, http.StatusConflict, "NOT_DRAFT", "Only draft contracts can be sent to signature")
		case errors.Is(err, ErrNoRepresentative):
			response.Error(c, http.StatusConflict, "NO_REPRESENTATIVE", "No active administrator to sign for the company")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to initiate signing")
		}
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Contract not found")
			return
		}
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusConflict, "INVALID_STATUS", "Contract is already closed")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel contract")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Complete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Contract not found")
			return
		}
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusConflict, "INVALID_STATUS", "Only active contracts can be completed")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to complete contract")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"completed": true})
}

func (h *Handler) Comment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Comment text is required")
		return
	}
	if err := h.service.Comment(c.Request.Context(), id, req.Text); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save comment")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"commented": true})
}

func (h *Handler) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	history, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load history")
		return
	}
	response.Success(c, http.StatusOK, history)
}

func (h *Handler) Tokens(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tokens, err := h.service.Tokens(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load tokens")
		return
	}
	response.Success(c, http.StatusOK, tokens)
}

func (h *Handler) ViewByToken(c *gin.Context) {
	view, err := h.service.ViewByToken(c.Request.Context(), c.Param("token"), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Signing link not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load contract")
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Sign(c *gin.Context) {
	sub := SignatureSubmission{
		ConsentTerms:    c.PostForm("consent_terms") == "true",
		ConsentIdentity: c.PostForm("consent_identity") == "true",
		IPAddress:       c.ClientIP(),
		UserAgent:       c.Request.UserAgent(),
	}

	files := []struct {
		field string
		dest  *[]byte
	}{
		{"selfie", &sub.Selfie},
		{"id_front", &sub.IDFront},
		{"id_back", &sub.IDBack},
		{"signature", &sub.DrawnSignature},
	}
	for _, f := range files {
		fh, err := c.FormFile(f.field)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing file: "+f.field)
			return
		}
		data, err := readArtifact(fh)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to read file: "+f.field)
			return
		}
		*f.dest = data
	}

	sig, err := h.service.SubmitSignature(c.Request.Context(), c.Param("token"), sub)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Signing link not found")
		case errors.Is(err, ErrAlreadySigned):
			response.Error(c, http.StatusConflict, "ALREADY_SIGNED", "This party has already signed")
		case errors.Is(err, ErrConsentRequired):
			response.Error(c, http.StatusBadRequest, "CONSENT_REQUIRED", "Both consents must be accepted")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record signature")
		}
		return
	}
	response.Success(c, http.StatusCreated, sig)
}

func readArtifact(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxArtifactSize {
		return nil, errors.New("file too large")
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid contract ID")
		return 0, false
	}
	return id, true
}
