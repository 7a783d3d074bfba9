package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanItem là một món hàng trong phiếu cầm, chuộc được độc lập với
// các món còn lại. RedeemedAt khác nil khi và chỉ khi IsRedeemed=true.
type LoanItem struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"loanId"`
	Qty            int        `gorm:"not null;default:1" json:"qty"`
	ItemName       string     `gorm:"size:200;not null" json:"itemName"`
	ItemNameSearch string     `gorm:"size:200;not null;index" json:"-"`
	WeightChi      float64    `gorm:"not null;default:0" json:"weightChi"`
	Note           string     `gorm:"size:2000" json:"note"`
	IsRedeemed     bool       `gorm:"not null;default:false" json:"isRedeemed"`
	RedeemedAt     *time.Time `json:"redeemedAt"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (LoanItem) TableName() string { return "pawn_items" }

func (i *LoanItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
