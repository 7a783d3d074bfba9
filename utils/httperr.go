package utils

import "github.com/gin-gonic/gin"

// Bộ mã lỗi cố định trả về cho client.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternal         = "INTERNAL"
)

// JSONError trả lỗi theo dạng thống nhất {code, message, details?}.
func JSONError(c *gin.Context, status int, code, message string, details ...any) {
	body := gin.H{"code": code, "message": message}
	if len(details) > 0 && details[0] != nil {
		body["details"] = details[0]
	}
	c.JSON(status, body)
}
