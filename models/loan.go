package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trạng thái chuộc của phiếu. Không lưu cột riêng: luôn suy ra từ
// trạng thái từng món hàng để không bao giờ lệch với thực tế.
const (
	StatusRedeemed    = "DA_CHUOC"
	StatusNotRedeemed = "CHUA_CHUOC"
)

// LoanRecord là phiếu cầm: một khách, một khoản tiền, nhiều món hàng.
type LoanRecord struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerName       string     `gorm:"size:200;not null" json:"customerName"`
	CustomerNameSearch string     `gorm:"size:200;not null;index" json:"-"`
	Cccd               string     `gorm:"size:20;not null;index" json:"cccd"`
	TotalAmountVnd     int64      `gorm:"not null" json:"totalAmountVnd"`
	DatePawn           time.Time  `gorm:"not null;index" json:"datePawn"`
	RecordNote         string     `gorm:"size:5000" json:"recordNote"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	CreatedByID        *uuid.UUID `gorm:"type:uuid" json:"createdById"`
	DeletedAt          *time.Time `gorm:"index" json:"deletedAt"`

	Items []LoanItem `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE" json:"items"`
}

func (LoanRecord) TableName() string { return "pawn_records" }

func (l *LoanRecord) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// RedeemedCount đếm số món đã chuộc.
func (l *LoanRecord) RedeemedCount() int {
	n := 0
	for _, it := range l.Items {
		if it.IsRedeemed {
			n++
		}
	}
	return n
}

// StatusChuoc suy ra trạng thái phiếu: DA_CHUOC khi có ít nhất một món
// và tất cả đều đã chuộc; phiếu không có món nào là CHUA_CHUOC.
func (l *LoanRecord) StatusChuoc() string {
	return DeriveStatus(len(l.Items), l.RedeemedCount())
}

func DeriveStatus(itemCount, redeemedCount int) string {
	if itemCount > 0 && redeemedCount >= itemCount {
		return StatusRedeemed
	}
	return StatusNotRedeemed
}
