package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/userdir/userdir/internal/health"
	"github.com/userdir/userdir/internal/users"
)

// Handlers provides HTTP handlers for user directory operations
type Handlers struct {
	userService users.UserService
	health      *health.Manager
	logger      *zap.Logger
}

// NewHandlers creates new handlers over the given service
func NewHandlers(userService users.UserService, healthManager *health.Manager, logger *zap.Logger) *Handlers {
	return &Handlers{
		userService: userService,
		health:      healthManager,
		logger:      logger,
	}
}

// CreateUser handles POST /createUser
func (h *Handlers) CreateUser(c *gin.Context) {
	var req users.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err, users.MessageMissingNameOrEmail)})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "message": "User created"})
}

// GetUser handles GET /getUser?name=
func (h *Handlers) GetUser(c *gin.Context) {
	var query users.UserNameQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": users.MessageMissingName})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), query.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateEmail handles PUT /updateEmail?name= with body {email}
func (h *Handlers) UpdateEmail(c *gin.Context) {
	var query users.UserNameQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": users.MessageMissingNameOrEmail})
		return
	}

	var body users.UpdateEmailBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err, users.MessageMissingNameOrEmail)})
		return
	}

	err := h.userService.UpdateEmail(c.Request.Context(), &users.UpdateEmailRequest{
		Name:  query.Name,
		Email: body.Email,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email updated"})
}

// DeleteUser handles DELETE /deleteUser?name=
func (h *Handlers) DeleteUser(c *gin.Context) {
	var query users.UserNameQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": users.MessageMissingName})
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), query.Name); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// Health reports the runtime health of every registered checker
func (h *Handlers) Health(c *gin.Context) {
	results := h.health.RuntimeHealthCheck(c.Request.Context())

	services := gin.H{}
	for name, err := range results {
		if err != nil {
			services[name] = err.Error()
		} else {
			services[name] = "healthy"
		}
	}

	status, code := "healthy", http.StatusOK
	if !h.health.Healthy(results) {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	})
}

// writeError maps service errors onto status codes and body shapes
func (h *Handlers) writeError(c *gin.Context, err error) {
	var ue *users.UserError
	if !errors.As(err, &ue) {
		h.logger.Error("Request failed",
			zap.String("request_id", RequestIDFromContext(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch ue.Type {
	case users.UserErrorTypeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"message": users.MessageUserNotFound})
	case users.UserErrorTypeDeleteTooSoon:
		c.JSON(http.StatusForbidden, gin.H{"message": ue.Message})
	case users.UserErrorTypeAlreadyExists:
		c.JSON(http.StatusConflict, gin.H{"error": users.MessageUserAlreadyExists})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": ue.Message})
	}
}
