package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestID tags every request with an X-Request-Id, generating one when
// the caller did not send it.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestId", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}
