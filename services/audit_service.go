package services

import (
	"encoding/json"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/camco/camco-backend/config"
	"github.com/camco/camco-backend/middleware"
	"github.com/camco/camco-backend/models"
)

// Actor lấy user id của request để gắn vào audit log.
// Chế độ bypass trả về nil: hành động được ghi là của hệ thống.
func Actor(c *gin.Context) *uuid.UUID {
	if middleware.IsBypass(c) {
		return nil
	}
	id, err := uuid.Parse(c.GetString(middleware.CtxUserID))
	if err != nil {
		return nil
	}
	return &id
}

// WriteAuditLog ghi một dòng nhật ký sau khi thao tác chính đã commit.
// Ghi log thất bại không được làm hỏng request: chỉ in cảnh báo.
func WriteAuditLog(userID *uuid.UUID, action, targetTable, targetID string, details any) {
	payload, err := json.Marshal(details)
	if err != nil {
		log.Println("audit: không marshal được details:", err)
		payload = []byte("{}")
	}

	entry := models.AuditLog{
		UserID:      userID,
		Action:      action,
		TargetTable: targetTable,
		TargetID:    targetID,
		Details:     string(payload),
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		log.Println("audit: không ghi được log:", err)
	}
}
