package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camco/camco-backend/config"
	"github.com/camco/camco-backend/models"
)

func TestCatalogCRUD(t *testing.T) {
	r := setup(t)
	editor := createTestUser(t, "editor", models.RoleEditor)
	cookie := sessionCookie(t, editor)

	w := doJSON(t, r, http.MethodPost, "/catalog", gin.H{
		"itemName":         "Nhẫn vàng 18K",
		"defaultWeightChi": 2.5,
		"note":             "mẫu phổ biến",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decodeBody(t, w)["item"].(map[string]any)
	id := item["id"].(string)
	assert.Equal(t, int64(1), auditCount(t, models.ActionCatalogCreate))

	// trọng lượng âm bị chặn trước khi chạm DB
	w = doJSON(t, r, http.MethodPost, "/catalog", gin.H{
		"itemName":         "Sai",
		"defaultWeightChi": -1,
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/catalog/"+id, gin.H{
		"defaultWeightChi": 3.0,
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody(t, w)["item"].(map[string]any)
	assert.Equal(t, float64(3), updated["defaultWeightChi"])
	assert.Equal(t, "Nhẫn vàng 18K", updated["itemName"], "trường không gửi giữ nguyên")

	// audit update phải chứa snapshot trước/sau
	var entry models.AuditLog
	require.NoError(t, config.DB.First(&entry, "action = ?", models.ActionCatalogUpdate).Error)
	assert.Contains(t, entry.Details, `"before"`)
	assert.Contains(t, entry.Details, `"after"`)

	w = doJSON(t, r, http.MethodDelete, "/catalog/"+id, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var count int64
	config.DB.Model(&models.CatalogItem{}).Count(&count)
	assert.Zero(t, count)
	assert.Equal(t, int64(1), auditCount(t, models.ActionCatalogDelete))

	w = doJSON(t, r, http.MethodPatch, "/catalog/"+id, gin.H{"note": "x"}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogList(t *testing.T) {
	r := setup(t)
	viewer := createTestUser(t, "viewer", models.RoleViewer)
	cookie := sessionCookie(t, viewer)

	for i := 0; i < 30; i++ {
		item := models.CatalogItem{ItemName: fmt.Sprintf("Mẫu %02d", i)}
		require.NoError(t, config.DB.Create(&item).Error)
	}
	require.NoError(t, config.DB.Create(&models.CatalogItem{ItemName: "Kiềng cổ"}).Error)

	w := doJSON(t, r, http.MethodGet, "/catalog?q=ki%E1%BB%81ng", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["items"], 1)

	// limit mặc định 20, kẹp tối đa 50
	w = doJSON(t, r, http.MethodGet, "/catalog", nil, cookie)
	assert.Len(t, decodeBody(t, w)["items"], 20)
	w = doJSON(t, r, http.MethodGet, "/catalog?limit=9999", nil, cookie)
	assert.Len(t, decodeBody(t, w)["items"], 31)
}

func TestCatalogViewerForbidden(t *testing.T) {
	r := setup(t)
	viewer := createTestUser(t, "viewer", models.RoleViewer)
	cookie := sessionCookie(t, viewer)

	w := doJSON(t, r, http.MethodPost, "/catalog", gin.H{
		"itemName":         "Nhẫn",
		"defaultWeightChi": 1,
	}, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decodeBody(t, w)["code"])
}
