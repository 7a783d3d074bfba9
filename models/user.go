package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"  // Quản trị hệ thống
	RoleEditor UserRole = "EDITOR" // Nhân viên (tạo/sửa/xóa phiếu)
	RoleViewer UserRole = "VIEWER" // Chỉ xem
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'VIEWER'" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CanEdit: tạo và sửa phiếu, danh mục
func (r UserRole) CanEdit() bool {
	return r == RoleAdmin || r == RoleEditor
}

// CanDelete: xóa phiếu (soft hoặc hard theo cấu hình)
func (r UserRole) CanDelete() bool {
	return r == RoleAdmin || r == RoleEditor
}

// CanExport: xuất file Excel
func (r UserRole) CanExport() bool {
	return r == RoleAdmin || r == RoleEditor
}

func ParseRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleAdmin, RoleEditor, RoleViewer:
		return UserRole(s), true
	}
	return "", false
}
