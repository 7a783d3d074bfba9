package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogItem là mẫu món hàng dùng để điền nhanh khi tạo phiếu cầm.
// Không có khóa ngoại ngược về pawn_items: phiếu chỉ copy tên/trọng lượng.
type CatalogItem struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemName         string    `gorm:"size:200;not null" json:"itemName"`
	DefaultWeightChi float64   `gorm:"not null;default:0" json:"defaultWeightChi"`
	Note             string    `gorm:"size:2000" json:"note"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (CatalogItem) TableName() string { return "pawn_catalog" }

func (i *CatalogItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
