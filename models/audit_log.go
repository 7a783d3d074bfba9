package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Các action ghi vào nhật ký.
const (
	ActionPawnCreate       = "PAWN_CREATE"
	ActionPawnUpdate       = "PAWN_UPDATE"
	ActionPawnToggleRedeem = "PAWN_TOGGLE_REDEEM"
	ActionPawnDelete       = "PAWN_DELETE"
	ActionCatalogCreate    = "CATALOG_CREATE"
	ActionCatalogUpdate    = "CATALOG_UPDATE"
	ActionCatalogDelete    = "CATALOG_DELETE"
	ActionExportLoans      = "EXPORT_LOANS"
)

// AuditLog chỉ thêm, không bao giờ sửa hoặc xóa.
// UserID nil khi thao tác chạy ở chế độ bypass (hệ thống nội bộ).
type AuditLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	Action      string     `gorm:"size:50;not null;index" json:"action"`
	TargetTable string     `gorm:"size:50" json:"targetTable"`
	TargetID    string     `gorm:"size:36;index" json:"targetId"`
	Details     string     `gorm:"type:jsonb" json:"details"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
