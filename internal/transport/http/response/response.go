package response

import "github.com/gin-gonic/gin"

// Error writes a JSON error body with the given status code.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// OK writes the payload as-is with a 200 status.
func OK(c *gin.Context, payload any) {
	c.JSON(200, payload)
}
