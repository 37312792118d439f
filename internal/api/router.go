package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/userdir/userdir/internal/telemetry"
)

const methodNotAllowedBody = "Method Not Allowed"

// NewRouter wires the user directory endpoints and middleware onto a gin engine
func NewRouter(h *Handlers, metrics *telemetry.Metrics, logger *zap.Logger) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(cors.Default())
	router.Use(RequestIDMiddleware(logger))
	router.Use(MetricsMiddleware(metrics))
	router.Use(gin.Recovery())

	router.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, methodNotAllowedBody)
	})

	router.GET("/health", h.Health)

	router.POST("/createUser", h.CreateUser)
	router.GET("/getUser", h.GetUser)
	router.PUT("/updateEmail", h.UpdateEmail)
	router.DELETE("/deleteUser", h.DeleteUser)

	return router
}
