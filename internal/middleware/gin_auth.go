package middleware

import "github.com/gin-gonic/gin"

// GinIdentify adapts AuthMiddleware to Gin. It never aborts: it only
// enriches the request context for the dispatch layer.
func GinIdentify(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = auth.Identify(c.Request)
		c.Next()
	}
}
