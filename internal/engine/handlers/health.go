package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/metrics"
)

// HealthCheck reports liveness and the database connection state.
func (h *Handler) HealthCheck(c *gin.Context) {
	startTime := time.Now()

	dbStatus := "healthy"
	dbError := ""

	if h.db != nil {
		trackDBOp := metrics.TrackDBOperation("read", "system_health")
		var timestamp time.Time
		err := h.db.Session().Query("SELECT now() FROM system.local").Scan(&timestamp)
		trackDBOp(err)
		if err != nil {
			dbStatus = "unhealthy"
			dbError = err.Error()
			h.logger.Errorf("Database health check failed: %v", err)
		}
	} else {
		dbStatus = "disabled"
	}

	response := gin.H{
		"status":    "ok",
		"timestamp": startTime.Unix(),
		"service":   "engine",
		"database": gin.H{
			"status": dbStatus,
			"error":  dbError,
		},
	}

	httpStatus := http.StatusOK
	if dbStatus == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
		response["status"] = "degraded"
	}

	c.JSON(httpStatus, response)
}
