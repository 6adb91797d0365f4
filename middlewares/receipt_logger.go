package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/resturaent/API/utils"
)

// ReceiptLoggerMiddleware records every receipt fetch, success or not.
func ReceiptLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() == 200 {
			utils.InfoLogger.Printf("Receipt generated for payment %s", c.Param("id"))
		} else {
			utils.ErrorLogger.Printf("Receipt generation failed for payment %s (status %d)", c.Param("id"), c.Writer.Status())
		}
	}
}
