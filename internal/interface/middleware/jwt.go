package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

const CtxUserIDKey = "userID"

// BearerAuth reads the Authorization bearer token, validates it, and injects the user ID into context
func BearerAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "No token, authorization denied", nil)
			return
		}
		uid, err := jwt.Verify(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Token is not valid", nil)
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}
