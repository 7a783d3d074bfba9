package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/camco/camco-backend/config"
	"github.com/camco/camco-backend/middleware"
	"github.com/camco/camco-backend/models"
	"github.com/camco/camco-backend/utils"
)

type LoginInput struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=200"`
}

// POST /auth/login
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadRequest, "Dữ liệu không hợp lệ", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Sai username hoặc password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Sai username hoặc password")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Username, string(user.Role))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể tạo token")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, int(utils.SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// POST /auth/logout
func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /me
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       c.GetString(middleware.CtxUserID),
			"username": c.GetString(middleware.CtxUsername),
			"role":     c.GetString(middleware.CtxRole),
		},
	})
}
