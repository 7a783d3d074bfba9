package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/camco/camco-backend/models"
	"github.com/camco/camco-backend/utils"
)

// LoanFilter là điều kiện lọc chung cho danh sách phiếu và export.
type LoanFilter struct {
	Q           string `json:"q"`
	SearchField string `json:"search_field"`
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
}

var uuidPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// LoanFilterFromQuery đọc filter từ query string của request list.
func LoanFilterFromQuery(c *gin.Context) LoanFilter {
	return LoanFilter{
		Q:           strings.TrimSpace(c.Query("q")),
		SearchField: c.Query("search_field"),
		DateFrom:    c.Query("date_from"),
		DateTo:      c.Query("date_to"),
	}
}

// VisibleLoans là scope duy nhất loại phiếu đã xóa mềm.
// Mọi truy vấn đọc phiếu phải đi qua đây để không lộ dữ liệu đã xóa.
func VisibleLoans(db *gorm.DB) *gorm.DB {
	return db.Model(&models.LoanRecord{}).Where("pawn_records.deleted_at IS NULL")
}

// ApplyLoanFilter dựng truy vấn từ filter:
//   - q đúng dạng UUID -> lọc thẳng theo id, bỏ qua các trường khác
//   - search_field chọn cột so khớp (name/cccd/item/amount)
//   - khoảng ngày cầm from/to, chuỗi ngày sai bị bỏ qua
func ApplyLoanFilter(db *gorm.DB, f LoanFilter) *gorm.DB {
	query := VisibleLoans(db)

	if q := strings.TrimSpace(f.Q); q != "" {
		if uuidPattern.MatchString(q) {
			query = query.Where("pawn_records.id = ?", q)
		} else {
			switch f.SearchField {
			case "cccd":
				query = query.Where("LOWER(pawn_records.cccd) LIKE ?", "%"+strings.ToLower(q)+"%")
			case "item":
				needle := utils.NormalizeSearch(q)
				query = query.Where(
					"EXISTS (SELECT 1 FROM pawn_items WHERE pawn_items.loan_id = pawn_records.id AND pawn_items.item_name_search LIKE ?)",
					"%"+needle+"%",
				)
			case "amount":
				if amount, ok := utils.ParseAmountShorthand(q); ok {
					query = query.Where("pawn_records.total_amount_vnd = ?", amount)
				}
			default: // name
				needle := utils.NormalizeSearch(q)
				query = query.Where("pawn_records.customer_name_search LIKE ?", "%"+needle+"%")
			}
		}
	}

	const layout = "2006-01-02"
	if f.DateFrom != "" {
		if from, err := time.Parse(layout, f.DateFrom); err == nil {
			query = query.Where("pawn_records.date_pawn >= ?", from)
		}
	}
	if f.DateTo != "" {
		if to, err := time.Parse(layout, f.DateTo); err == nil {
			// bao gồm cả ngày to
			query = query.Where("pawn_records.date_pawn < ?", to.Add(24*time.Hour))
		}
	}

	return query
}

// LoanOrder: ngày cầm mới nhất trước, cùng ngày thì phiếu tạo sau trước,
// id làm khóa phụ để thứ tự luôn ổn định.
func LoanOrder(query *gorm.DB) *gorm.DB {
	return query.Order("pawn_records.date_pawn DESC").
		Order("pawn_records.created_at DESC").
		Order("pawn_records.id ASC")
}

// Pagination đọc page/page_size, page_size kẹp trong [1,100], mặc định 20.
func Pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
