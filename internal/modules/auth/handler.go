package auth

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

// RegisterPublicRoutes exposes login without authentication.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
	rg.POST("/auth/change-password", h.ChangePassword)
}

// RegisterAdminRoutes carries the user management endpoints. Failures are
// reported inline so the settings forms can show them next to the fields.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
	rg.POST("/users", h.CreateUser)
	rg.PATCH("/users/:id", h.UpdateUser)
	rg.POST("/users/:id/activate", h.SetActive(true))
	rg.POST("/users/:id/deactivate", h.SetActive(false))
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "email and password are required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, ErrAccountDisabled):
			response.Error(c, http.StatusForbidden, "ACCOUNT_DISABLED", "This account has been deactivated")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		}
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InlineError(c, "Current and new password are required")
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), c.GetInt64("user_id"), req); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.InlineError(c, "Current password is incorrect")
			return
		}
		response.InlineError(c, "Failed to change password")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}
	response.Success(c, http.StatusOK, users)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InlineError(c, "email, password, name and role are required")
		return
	}
	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			response.InlineError(c, "Email is already registered")
		case errors.Is(err, ErrValidation):
			response.InlineError(c, "Unknown role")
		default:
			response.InlineError(c, "Failed to create user")
		}
		return
	}
	response.Success(c, http.StatusCreated, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InlineError(c, "Invalid request body")
		return
	}
	user, err := h.service.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.InlineError(c, "User not found")
		case errors.Is(err, ErrValidation):
			response.InlineError(c, "Unknown role")
		default:
			response.InlineError(c, "Failed to update user")
		}
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) SetActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := h.service.SetUserActive(c.Request.Context(), id, active); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.InlineError(c, "User not found")
				return
			}
			response.InlineError(c, "Failed to update user")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"is_active": active})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}
