package middlewares

import (
	"fmt"
	"net/http"

	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleChef  = "chef"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleStaff, RoleChef:
		return true
	}
	return false
}

// RequireRoles -> admin selalu lolos
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(CtxRole)
		if userRole == "" {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}
		if userRole == RoleAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if r == userRole {
				c.Next()
				return
			}
		}
		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", roles[0]))
		c.Abort()
	}
}
