package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camco/camco-backend/config"
	"github.com/camco/camco-backend/middleware"
	"github.com/camco/camco-backend/models"
	"github.com/camco/camco-backend/services"
	"github.com/camco/camco-backend/utils"
)

type LoanItemInput struct {
	Qty       int      `json:"qty" binding:"required,gt=0"`
	ItemName  string   `json:"itemName" binding:"required,max=200"`
	WeightChi *float64 `json:"weightChi" binding:"required,gte=0"`
	Note      string   `json:"note" binding:"max=2000"`
}

type LoanCreateInput struct {
	CustomerName   string          `json:"customerName" binding:"required,max=200"`
	Cccd           string          `json:"cccd" binding:"required,max=20"`
	TotalAmountVnd *int64          `json:"totalAmountVnd" binding:"required,gte=0"`
	DatePawn       string          `json:"datePawn" binding:"required"`
	RecordNote     string          `json:"recordNote" binding:"max=5000"`
	Items          []LoanItemInput `json:"items" binding:"omitempty,dive"`
}

type LoanItemRedeemInput struct {
	ID         uuid.UUID `json:"id" binding:"required"`
	IsRedeemed bool      `json:"isRedeemed"`
}

type LoanPatchInput struct {
	RecordNote *string               `json:"recordNote" binding:"omitempty,max=5000"`
	Items      []LoanItemRedeemInput `json:"items" binding:"omitempty,dive"`
}

type LoanStatusInput struct {
	Status string `json:"status" binding:"required,oneof=DA_CHUOC CHUA_CHUOC"`
}

// GET /loans?q=&search_field=&date_from=&date_to=&page=&page_size=
func GetLoans(c *gin.Context) {
	filter := services.LoanFilterFromQuery(c)
	page, pageSize := services.Pagination(c)

	db := config.DB.WithContext(c.Request.Context())
	query := services.ApplyLoanFilter(db, filter)

	// Tổng số luôn tính trên toàn bộ kết quả lọc, không phụ thuộc trang
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể đếm số phiếu")
		return
	}

	var loans []models.LoanRecord
	if err := services.LoanOrder(query).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&loans).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể lấy danh sách phiếu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
		"loans":     loanListResponse(loans),
	})
}

// POST /loans — tạo phiếu và toàn bộ món hàng trong một transaction.
// Bất kỳ dòng nào ghi lỗi thì cả phiếu bị rollback, không ghi nửa chừng.
func CreateLoan(c *gin.Context) {
	var input LoanCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadRequest, "Dữ liệu không hợp lệ", err.Error())
		return
	}

	datePawn, err := time.Parse("2006-01-02", input.DatePawn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadRequest, "Ngày cầm không hợp lệ")
		return
	}

	var createdBy *uuid.UUID
	if id, err := uuid.Parse(c.GetString(middleware.CtxUserID)); err == nil {
		createdBy = &id
	}

	loan := models.LoanRecord{
		CustomerName:       strings.TrimSpace(input.CustomerName),
		CustomerNameSearch: utils.NormalizeSearch(input.CustomerName),
		Cccd:               strings.TrimSpace(input.Cccd),
		TotalAmountVnd:     *input.TotalAmountVnd,
		DatePawn:           datePawn,
		RecordNote:         strings.TrimSpace(input.RecordNote),
		CreatedByID:        createdBy,
	}

	items := make([]models.LoanItem, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, models.LoanItem{
			Qty:            it.Qty,
			ItemName:       strings.TrimSpace(it.ItemName),
			ItemNameSearch: utils.NormalizeSearch(it.ItemName),
			WeightChi:      *it.WeightChi,
			Note:           strings.TrimSpace(it.Note),
		})
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&loan).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].LoanID = loan.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể tạo phiếu")
		return
	}
	loan.Items = items

	services.WriteAuditLog(services.Actor(c), models.ActionPawnCreate, "pawn_records", loan.ID.String(), gin.H{
		"customerName":   loan.CustomerName,
		"totalAmountVnd": loan.TotalAmountVnd,
		"itemCount":      len(items),
	})

	c.JSON(http.StatusCreated, gin.H{"loan": loanResponse(&loan)})
}

// GET /loans/:id
func GetLoanDetail(c *gin.Context) {
	loan, ok := findVisibleLoan(c, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loanResponse(loan)})
}

// PATCH /loans/:id — sửa ghi chú và/hoặc trạng thái chuộc từng món,
// gộp trong một transaction. Id món lạ hoặc thuộc phiếu khác không
// khớp điều kiện id+loan_id nên không ảnh hưởng dòng nào.
func UpdateLoan(c *gin.Context) {
	loan, ok := findVisibleLoan(c, false)
	if !ok {
		return
	}

	var input LoanPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadRequest, "Dữ liệu không hợp lệ", err.Error())
		return
	}

	updatedNote := loan.RecordNote
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if input.RecordNote != nil {
			updatedNote = strings.TrimSpace(*input.RecordNote)
			if err := tx.Model(&models.LoanRecord{}).
				Where("id = ?", loan.ID).
				Update("record_note", updatedNote).Error; err != nil {
				return err
			}
		}
		now := time.Now()
		for _, it := range input.Items {
			values := map[string]any{"is_redeemed": it.IsRedeemed, "redeemed_at": nil}
			if it.IsRedeemed {
				values["redeemed_at"] = now
			}
			if err := tx.Model(&models.LoanItem{}).
				Where("id = ? AND loan_id = ?", it.ID, loan.ID).
				Updates(values).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể cập nhật phiếu")
		return
	}

	itemCount, redeemedCount, err := countRedemption(loan.ID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể đọc lại phiếu")
		return
	}
	status := models.DeriveStatus(itemCount, redeemedCount)

	services.WriteAuditLog(services.Actor(c), models.ActionPawnUpdate, "pawn_records", loan.ID.String(), gin.H{
		"recordNote":    updatedNote,
		"itemCount":     itemCount,
		"redeemedCount": redeemedCount,
		"statusChuoc":   status,
	})

	c.JSON(http.StatusOK, gin.H{"loan": gin.H{
		"id":            loan.ID,
		"recordNote":    updatedNote,
		"itemCount":     itemCount,
		"redeemedCount": redeemedCount,
		"statusChuoc":   status,
	}})
}

// PATCH /loans/:id/status — đặt trạng thái cả phiếu, ghi đè mọi món:
// DA_CHUOC đánh dấu tất cả đã chuộc, CHUA_CHUOC bỏ đánh dấu tất cả.
func ToggleLoanStatus(c *gin.Context) {
	loan, ok := findVisibleLoan(c, false)
	if !ok {
		return
	}

	var input LoanStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadRequest, "Dữ liệu không hợp lệ", err.Error())
		return
	}

	shouldRedeem := input.Status == models.StatusRedeemed
	values := map[string]any{"is_redeemed": shouldRedeem, "redeemed_at": nil}
	if shouldRedeem {
		values["redeemed_at"] = time.Now()
	}
	if err := config.DB.Model(&models.LoanItem{}).
		Where("loan_id = ?", loan.ID).
		Updates(values).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể cập nhật trạng thái")
		return
	}

	itemCount, redeemedCount, err := countRedemption(loan.ID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể đọc lại phiếu")
		return
	}

	services.WriteAuditLog(services.Actor(c), models.ActionPawnToggleRedeem, "pawn_items", loan.ID.String(), gin.H{
		"status":        input.Status,
		"itemCount":     itemCount,
		"redeemedCount": redeemedCount,
	})

	c.JSON(http.StatusOK, gin.H{"loan": gin.H{
		"id":            loan.ID,
		"statusChuoc":   models.DeriveStatus(itemCount, redeemedCount),
		"itemCount":     itemCount,
		"redeemedCount": redeemedCount,
	}})
}

// DELETE /loans/:id — chế độ xóa theo cấu hình triển khai:
// soft chỉ đặt deleted_at, hard xóa hẳn phiếu và các món kèm theo.
func DeleteLoan(c *gin.Context) {
	loan, ok := findVisibleLoan(c, false)
	if !ok {
		return
	}

	mode := config.DeleteMode()
	if mode == "hard" {
		err := config.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.LoanItem{}, "loan_id = ?", loan.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&models.LoanRecord{}, "id = ?", loan.ID).Error
		})
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể xóa phiếu")
			return
		}
	} else {
		if err := config.DB.Model(&models.LoanRecord{}).
			Where("id = ?", loan.ID).
			Update("deleted_at", time.Now()).Error; err != nil {
			utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể xóa phiếu")
			return
		}
	}

	services.WriteAuditLog(services.Actor(c), models.ActionPawnDelete, "pawn_records", loan.ID.String(), gin.H{
		"mode": mode,
		"before": gin.H{
			"id":             loan.ID,
			"customerName":   loan.CustomerName,
			"cccd":           loan.Cccd,
			"totalAmountVnd": loan.TotalAmountVnd,
			"datePawn":       loan.DatePawn,
		},
	})

	c.JSON(http.StatusOK, gin.H{"ok": true, "mode": mode})
}

// findVisibleLoan tìm phiếu theo :id, loại phiếu đã xóa mềm.
// Trả lời 404 hộ caller khi không thấy.
func findVisibleLoan(c *gin.Context, withItems bool) (*models.LoanRecord, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, utils.CodeNotFound, "Không tìm thấy phiếu")
		return nil, false
	}

	query := config.DB.Where("deleted_at IS NULL")
	if withItems {
		query = query.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
	}

	var loan models.LoanRecord
	if err := query.First(&loan, "id = ?", id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, utils.CodeNotFound, "Không tìm thấy phiếu")
		return nil, false
	}
	return &loan, true
}

func countRedemption(loanID uuid.UUID) (itemCount, redeemedCount int, err error) {
	var total, redeemed int64
	if err = config.DB.Model(&models.LoanItem{}).
		Where("loan_id = ?", loanID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = config.DB.Model(&models.LoanItem{}).
		Where("loan_id = ? AND is_redeemed = ?", loanID, true).
		Count(&redeemed).Error; err != nil {
		return 0, 0, err
	}
	return int(total), int(redeemed), nil
}

// loanResponse gắn thêm các trường suy ra (trạng thái, số món đã chuộc)
// vào payload phiếu.
func loanResponse(l *models.LoanRecord) gin.H {
	return gin.H{
		"id":             l.ID,
		"customerName":   l.CustomerName,
		"cccd":           l.Cccd,
		"totalAmountVnd": l.TotalAmountVnd,
		"datePawn":       l.DatePawn.Format("2006-01-02"),
		"recordNote":     l.RecordNote,
		"createdAt":      l.CreatedAt,
		"createdById":    l.CreatedByID,
		"items":          l.Items,
		"itemCount":      len(l.Items),
		"redeemedCount":  l.RedeemedCount(),
		"statusChuoc":    l.StatusChuoc(),
	}
}

func loanListResponse(loans []models.LoanRecord) []gin.H {
	out := make([]gin.H, 0, len(loans))
	for i := range loans {
		out = append(out, loanResponse(&loans[i]))
	}
	return out
}
