package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yeka/zip"
	"gorm.io/gorm"

	"github.com/camco/camco-backend/config"
	"github.com/camco/camco-backend/models"
	"github.com/camco/camco-backend/services"
	"github.com/camco/camco-backend/utils"
)

// Chặn export quá lớn; danh sách phiếu vẫn được materialize trong RAM.
const exportRowCap = 50000

// POST /export — xuất phiếu theo đúng filter của màn danh sách,
// đóng gói file Excel vào zip mã hóa AES-256 và stream về client.
func ExportLoans(c *gin.Context) {
	var filter services.LoanFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		// body rỗng hoặc không đọc được thì export toàn bộ
		filter = services.LoanFilter{}
	}

	db := config.DB.WithContext(c.Request.Context())
	var loans []models.LoanRecord
	if err := services.LoanOrder(services.ApplyLoanFilter(db, filter)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Limit(exportRowCap).
		Find(&loans).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể truy vấn dữ liệu export")
		return
	}

	wb, err := buildLoanWorkbook(loans)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể tạo file Excel")
		return
	}

	services.WriteAuditLog(services.Actor(c), models.ActionExportLoans, "pawn_records", "", gin.H{
		"filters": filter,
		"count":   len(loans),
		"format":  "zip_aes256",
	})

	fileName := fmt.Sprintf("export_loans_%s.zip", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Status(http.StatusOK)

	// Ghi thẳng vào response, không buffer cả file zip
	zw := zip.NewWriter(c.Writer)
	entry, err := zw.Encrypt("loans.xlsx", config.ExportZipPassword(), zip.AES256Encryption)
	if err != nil {
		zw.Close()
		return
	}
	if _, err := wb.WriteTo(entry); err != nil {
		zw.Close()
		return
	}
	zw.Close()
}

func buildLoanWorkbook(loans []models.LoanRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	const loanSheet = "Loans"
	f.SetSheetName("Sheet1", loanSheet)
	loanHeaders := []any{
		"ID", "Khách hàng", "CCCD", "Số tiền (VND)", "Trạng thái chuộc",
		"Ngày cầm", "Món hàng", "Chuộc lúc", "Ghi chú", "Tạo lúc",
	}
	if err := f.SetSheetRow(loanSheet, "A1", &loanHeaders); err != nil {
		return nil, err
	}

	const itemSheet = "Items"
	if _, err := f.NewSheet(itemSheet); err != nil {
		return nil, err
	}
	itemHeaders := []any{
		"ID phiếu", "Khách hàng", "Tên món", "SL", "Trọng lượng (chỉ)",
		"Đã chuộc", "Chuộc lúc", "Ghi chú",
	}
	if err := f.SetSheetRow(itemSheet, "A1", &itemHeaders); err != nil {
		return nil, err
	}

	itemRow := 2
	for i := range loans {
		loan := &loans[i]
		row := []any{
			loan.ID.String(),
			loan.CustomerName,
			loan.Cccd,
			loan.TotalAmountVnd,
			loan.StatusChuoc(),
			loan.DatePawn.Format("2006-01-02"),
			itemsSummary(loan.Items),
			latestRedeemedAt(loan),
			loan.RecordNote,
			loan.CreatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(loanSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}

		for j := range loan.Items {
			it := &loan.Items[j]
			redeemedAt := ""
			if it.RedeemedAt != nil {
				redeemedAt = it.RedeemedAt.Format(time.RFC3339)
			}
			redeemed := "Chưa"
			if it.IsRedeemed {
				redeemed = "Rồi"
			}
			detail := []any{
				loan.ID.String(),
				loan.CustomerName,
				it.ItemName,
				it.Qty,
				it.WeightChi,
				redeemed,
				redeemedAt,
				it.Note,
			}
			if err := f.SetSheetRow(itemSheet, fmt.Sprintf("A%d", itemRow), &detail); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	return f, nil
}

// itemsSummary gom các món thành một chuỗi: "2 x nhẫn vàng (2.5 chỉ); ..."
func itemsSummary(items []models.LoanItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%d x %s (%g chỉ)", it.Qty, it.ItemName, it.WeightChi))
	}
	return strings.Join(parts, "; ")
}

// latestRedeemedAt: thời điểm chuộc muộn nhất, chỉ khi phiếu đã chuộc hết.
func latestRedeemedAt(loan *models.LoanRecord) string {
	if loan.StatusChuoc() != models.StatusRedeemed {
		return ""
	}
	var latest time.Time
	for _, it := range loan.Items {
		if it.RedeemedAt != nil && it.RedeemedAt.After(latest) {
			latest = *it.RedeemedAt
		}
	}
	if latest.IsZero() {
		return ""
	}
	return latest.Format(time.RFC3339)
}
