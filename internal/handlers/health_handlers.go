package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmitchellscott/hass-render/internal/rendering"
	"github.com/rmitchellscott/hass-render/internal/version"
)

// PoolHealth reports the render pool state.
type PoolHealth interface {
	Health() *rendering.HealthStatus
}

// HealthHandler returns the service status. The body always carries status
// and version; pool details are added when a pool is given. An unhealthy
// pool answers 503.
func HealthHandler(pool PoolHealth) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"version": version.String(),
		}
		status := http.StatusOK

		if pool != nil {
			health := pool.Health()
			body["renderer"] = health
			if health.Status == "unhealthy" {
				body["status"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		c.JSON(status, body)
	}
}

// VersionHandler returns build information.
func VersionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
