package handlers

import (
	"net/http"

	"taskly/utils"

	"github.com/gin-gonic/gin"
)

// Health returns the latest stored health snapshot.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
