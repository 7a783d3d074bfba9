package config

import (
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camco/camco-backend/models"
)

var DB *gorm.DB

// JWTSecret trả về secret ký token phiên. Bắt buộc phải có.
func JWTSecret() []byte {
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal("Thiếu biến môi trường AUTH_JWT_SECRET")
	}
	return []byte(secret)
}

// DeleteMode: "soft" (mặc định) hoặc "hard".
func DeleteMode() string {
	mode := strings.ToLower(os.Getenv("LOANS_DELETE_MODE"))
	if mode == "hard" {
		return "hard"
	}
	return "soft"
}

// AuthBypass bật chế độ định danh cố định cho triển khai nội bộ tin cậy.
func AuthBypass() bool {
	return strings.ToLower(os.Getenv("AUTH_BYPASS")) == "true"
}

func BypassUsername() string {
	if u := os.Getenv("AUTH_BYPASS_USERNAME"); u != "" {
		return u
	}
	return "bypass"
}

func BypassRole() models.UserRole {
	if r, ok := models.ParseRole(os.Getenv("AUTH_BYPASS_ROLE")); ok {
		return r
	}
	return models.RoleAdmin
}

// ExportZipPassword: mật khẩu file zip export, cấu hình theo triển khai.
// Giữ giá trị cũ làm mặc định để các bản export trước vẫn mở được.
func ExportZipPassword() string {
	if p := os.Getenv("EXPORT_ZIP_PASSWORD"); p != "" {
		return p
	}
	return "197781"
}

// DatabaseURL lấy DSN, có fallback cho các nhà cung cấp hosting khác.
func DatabaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	for _, key := range []string{
		"NEON_DATABASE_URL",
		"NEON_POSTGRES_URL_NON_POOLING",
		"NEON_POSTGRES_URL",
	} {
		if dsn := os.Getenv(key); dsn != "" {
			return dsn
		}
	}
	return ""
}

func InitDB() {
	dsn := DatabaseURL()
	if dsn == "" {
		log.Fatal("Thiếu DATABASE_URL")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Không thể kết nối database:", err)
	}

	DB = db

	// Lấy *sql.DB để config connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Không thể lấy sql.DB từ gorm:", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(DB); err != nil {
		log.Fatal("autoMigrate lỗi: ", err)
	}
	log.Println("postgreSQL connected & migrated successfully!")

	if err := SeedAdmin(DB); err != nil {
		log.Println("Không thể seed tài khoản admin:", err)
	}
}

// Migrate tách riêng để test dùng lại trên sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CatalogItem{},
		&models.LoanRecord{},
		&models.LoanItem{},
		&models.AuditLog{},
	)
}

// SeedAdmin tạo tài khoản quản trị đầu tiên khi bảng users còn trống.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := os.Getenv("SEED_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "1234"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Println("Đã seed tài khoản admin:", username)
	return nil
}
