package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes a success body. The extra fields are merged next to "success": true.
func OK(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail writes the uniform failure body with the given HTTP status.
func Fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// FailMsg is Fail for cases where only a message is at hand.
func FailMsg(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}
