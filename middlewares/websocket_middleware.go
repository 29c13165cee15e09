package middlewares

import (
	"errors"
	"net/http"

	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware -> browser websocket tidak bisa kirim header,
// jadi token lewat ?token= dan tenant harus sama dengan :param
func WebSocketAuthMiddleware(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token, _ = bearerToken(c)
		}
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// Validasi token
		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if claims.TenantSlug == "" || claims.TenantSlug != c.Param(param) {
			utils.RespondError(c, http.StatusForbidden, errors.New("tenant mismatch"))
			c.Abort()
			return
		}

		setClaims(c, token, claims)
		c.Next()
	}
}
