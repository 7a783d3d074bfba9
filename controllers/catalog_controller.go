package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/camco/camco-backend/config"
	"github.com/camco/camco-backend/models"
	"github.com/camco/camco-backend/services"
	"github.com/camco/camco-backend/utils"
)

type CatalogCreateInput struct {
	ItemName         string   `json:"itemName" binding:"required,max=200"`
	DefaultWeightChi *float64 `json:"defaultWeightChi" binding:"required,gte=0"`
	Note             string   `json:"note" binding:"max=2000"`
}

type CatalogUpdateInput struct {
	ItemName         *string  `json:"itemName" binding:"omitempty,min=1,max=200"`
	DefaultWeightChi *float64 `json:"defaultWeightChi" binding:"omitempty,gte=0"`
	Note             *string  `json:"note" binding:"omitempty,max=2000"`
}

// GET /catalog?q=&limit=
func GetCatalogItems(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	query := config.DB.WithContext(c.Request.Context()).Model(&models.CatalogItem{})
	if q := c.Query("q"); q != "" {
		query = query.Where("LOWER(item_name) LIKE LOWER(?)", "%"+q+"%")
	}

	var items []models.CatalogItem
	if err := query.
		Order("item_name ASC").
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể lấy danh mục")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// POST /catalog
func CreateCatalogItem(c *gin.Context) {
	var input CatalogCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadRequest, "Dữ liệu không hợp lệ", err.Error())
		return
	}

	item := models.CatalogItem{
		ItemName:         input.ItemName,
		DefaultWeightChi: *input.DefaultWeightChi,
		Note:             input.Note,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể tạo mẫu hàng")
		return
	}

	services.WriteAuditLog(services.Actor(c), models.ActionCatalogCreate, "pawn_catalog", item.ID.String(), gin.H{
		"itemName":         item.ItemName,
		"defaultWeightChi": item.DefaultWeightChi,
	})

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// PATCH /catalog/:id
func UpdateCatalogItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, utils.CodeNotFound, "Không tìm thấy mẫu hàng")
		return
	}

	var input CatalogUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadRequest, "Dữ liệu không hợp lệ", err.Error())
		return
	}

	var before models.CatalogItem
	if err := config.DB.First(&before, "id = ?", id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, utils.CodeNotFound, "Không tìm thấy mẫu hàng")
		return
	}

	item := before
	if input.ItemName != nil {
		item.ItemName = *input.ItemName
	}
	if input.DefaultWeightChi != nil {
		item.DefaultWeightChi = *input.DefaultWeightChi
	}
	if input.Note != nil {
		item.Note = *input.Note
	}
	if err := config.DB.Save(&item).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể cập nhật mẫu hàng")
		return
	}

	services.WriteAuditLog(services.Actor(c), models.ActionCatalogUpdate, "pawn_catalog", item.ID.String(), gin.H{
		"before": before,
		"after":  item,
	})

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DELETE /catalog/:id — xóa cứng, danh mục không ràng buộc gì với phiếu.
func DeleteCatalogItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, utils.CodeNotFound, "Không tìm thấy mẫu hàng")
		return
	}

	var before models.CatalogItem
	if err := config.DB.First(&before, "id = ?", id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, utils.CodeNotFound, "Không tìm thấy mẫu hàng")
		return
	}

	if err := config.DB.Delete(&models.CatalogItem{}, "id = ?", id).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, utils.CodeInternal, "Không thể xóa mẫu hàng")
		return
	}

	services.WriteAuditLog(services.Actor(c), models.ActionCatalogDelete, "pawn_catalog", id.String(), gin.H{
		"before": before,
	})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
