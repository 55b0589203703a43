package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health answers reachability probes from clients deciding whether to write
// through or queue.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
