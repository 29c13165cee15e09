package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
	CtxTenant = "tenant"
	CtxToken  = "token"
)

// bearerToken -> header Authorization, atau ?token= untuk websocket
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if q := c.Query("token"); q != "" {
			return q, nil
		}
		return "", errors.New("Authorization header missing")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", errors.New("format token tidak valid")
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), nil
}

func setClaims(c *gin.Context, token string, claims *utils.CustomClaims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxRole, claims.Role)
	c.Set(CtxTenant, claims.TenantSlug)
	c.Set(CtxToken, token)
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		if claims.TenantSlug == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("token has no tenant"))
			c.Abort()
			return
		}

		setClaims(c, token, claims)
		c.Next()
	}
}

// OptionalAuth sets the claims when a valid token is present and never aborts.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := bearerToken(c); err == nil {
			if claims, err := utils.ValidateToken(token); err == nil {
				setClaims(c, token, claims)
			}
		}
		c.Next()
	}
}
