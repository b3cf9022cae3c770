package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Ping
// @Description Liveness check
// @Tags network
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
