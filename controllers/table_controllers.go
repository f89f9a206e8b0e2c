package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/hub"
	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/store"
	"github.com/yeremiapane/table-order/utils"
)

type TableController struct {
	DB    *gorm.DB
	Store store.OrderStore
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db, Store: store.NewGormOrderStore(db)}
}

// ScanTable -> customer scans the table QR. Reuses the running session if one
// exists, otherwise starts an order and hands back the opaque order link.
func (tc *TableController) ScanTable(c *gin.Context) {
	tableID, err := strconv.ParseUint(c.Param("table_id"), 10, 64)
	if err != nil || tableID == 0 {
		utils.RespondError(c, http.StatusBadRequest,
			models.NewValidationError("Failed to create order"))
		return
	}
	customerName := c.Query("name")

	var table models.Table
	if err := tc.DB.Preload("Restaurant").First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound,
			models.NewNotFoundError("Not found restaurant table"))
		return
	}

	if table.Status == models.TableStatusReserved {
		utils.RespondError(c, http.StatusConflict, ErrTableUnavailable)
		return
	}

	// Rejoin a session already running at this table.
	order, err := tc.Store.ActiveOrderByTable(uint(tableID))
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}

	created := false
	if order == nil {
		order, err = tc.Store.CreateOrder(uint(tableID), customerName)
		if err != nil {
			utils.RespondStoreError(c, err)
			return
		}
		created = true

		table.Status = models.TableStatusOccupied
		if err := tc.DB.Save(&table).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		hub.BroadcastTableUpdate(table)
	}

	token := utils.EncodeOrderToken(order.ID)
	orderURL := "/orders/" + token
	if qs := utils.QueryString(map[string]interface{}{"name": customerName}); qs != "" {
		orderURL += "?" + qs
	}

	code := http.StatusOK
	message := "Rejoined active order"
	if created {
		code = http.StatusCreated
		message = "Order created"
		utils.InfoLogger.Printf("New order %d at table %d (status=%s)", order.ID, table.ID, order.Status)
	}

	utils.RespondJSON(c, code, message, gin.H{
		"order":       order,
		"order_token": token,
		"order_url":   orderURL,
	})
}

// CreateTable -> staff adds a table
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		RestaurantID uint               `json:"restaurant_id" binding:"required"`
		Number       uint               `json:"number" binding:"required"`
		TableType    string             `json:"table_type"`
		Status       models.TableStatus `json:"status"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		RestaurantID: req.RestaurantID,
		Number:       req.Number,
		TableType:    "TABLE",
		Status:       models.TableStatusAvailable,
	}
	if req.TableType != "" {
		table.TableType = req.TableType
	}
	if req.Status != "" {
		if !req.Status.Valid() {
			utils.RespondError(c, http.StatusBadRequest,
				models.NewValidationError("Failed to create table"))
			return
		}
		table.Status = req.Status
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastMessage(hub.Message{
		Event: hub.EventTableCreate,
		Data: gin.H{
			"table": table,
			"stats": tc.getDashboardStats(),
		},
	})

	utils.InfoLogger.Printf("New table created: %d (status=%s)", table.Number, table.Status)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> all tables
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> single table with restaurant context
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.Preload("Restaurant").First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableStatus -> staff flips table status (e.g. to RESERVED)
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	tableID := c.Param("table_id")
	var body struct {
		Status models.TableStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !body.Status.Valid() {
		utils.RespondError(c, http.StatusBadRequest,
			models.NewValidationError("Failed to update table"))
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	table.Status = body.Status
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastMessage(hub.Message{
		Event: hub.EventTableUpdate,
		Data: gin.H{
			"table": table,
			"stats": tc.getDashboardStats(),
		},
	})

	utils.InfoLogger.Printf("Table %d status changed to %s", table.ID, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// getDashboardStats counts tables per status for the dashboard broadcast.
func (tc *TableController) getDashboardStats() gin.H {
	var availableCount, occupiedCount, reservedCount int64

	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusAvailable).Count(&availableCount)
	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusOccupied).Count(&occupiedCount)
	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusReserved).Count(&reservedCount)

	return gin.H{
		"available": availableCount,
		"occupied":  occupiedCount,
		"reserved":  reservedCount,
		"total":     availableCount + occupiedCount + reservedCount,
	}
}
