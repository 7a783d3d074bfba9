package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camco/camco-backend/models"
	"github.com/camco/camco-backend/utils"
)

func requireCapability(check func(models.UserRole) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.UserRole(c.GetString(CtxRole))
		if !check(role) {
			utils.JSONError(c, http.StatusForbidden, utils.CodeForbidden, message)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireEdit chặn VIEWER khỏi các thao tác ghi.
func RequireEdit() gin.HandlerFunc {
	return requireCapability(models.UserRole.CanEdit, "Không có quyền sửa")
}

func RequireDelete() gin.HandlerFunc {
	return requireCapability(models.UserRole.CanDelete, "Không có quyền xóa")
}

func RequireExport() gin.HandlerFunc {
	return requireCapability(models.UserRole.CanExport, "Không có quyền export")
}
