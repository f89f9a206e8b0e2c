package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/hub"
	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/services"
	"github.com/yeremiapane/table-order/store"
	"github.com/yeremiapane/table-order/utils"
)

type OrderController struct {
	DB    *gorm.DB
	Store store.OrderStore

	// One reconciler for all sync sessions, so clearing updates stay
	// serialized per order across connections.
	Reconciler *services.AnnouncementReconciler
}

func NewOrderController(db *gorm.DB) *OrderController {
	s := store.NewGormOrderStore(db)
	return &OrderController{
		DB:         db,
		Store:      s,
		Reconciler: services.NewAnnouncementReconciler(s),
	}
}

// resolveOrderToken decodes the opaque token from the table link and loads the
// order. A bad token or unknown order is a not-found page, never a crash.
func (oc *OrderController) resolveOrderToken(token string) (*models.Order, error) {
	decoded, err := utils.DecodeOrderToken(token)
	if err != nil {
		return nil, err
	}

	orderID, ok := utils.ParseOrderID(decoded)
	if !ok {
		return nil, nil
	}
	return oc.Store.OrderByID(orderID)
}

// GetOrderByToken -> customer page snapshot, disposition recomputed per fetch
func (oc *OrderController) GetOrderByToken(c *gin.Context) {
	order, err := oc.resolveOrderToken(c.Param("order_token"))
	if err != nil && !models.IsNotFound(err) {
		utils.RespondStoreError(c, err)
		return
	}
	if err != nil || order == nil {
		utils.RespondJSON(c, http.StatusNotFound, "Not found restaurant table. Please contact the staff",
			gin.H{"not_found": true})
		return
	}

	disposition := services.DecideDisposition(order.Table.Status, order.Status)
	utils.RespondJSON(c, http.StatusOK, "Order detail", gin.H{
		"order":       order,
		"disposition": disposition.String(),
	})
}

// CreateOrderRequest -> customer submits a batch of items
func (oc *OrderController) CreateOrderRequest(c *gin.Context) {
	order, err := oc.resolveOrderToken(c.Param("order_token"))
	if err != nil && !models.IsNotFound(err) {
		utils.RespondStoreError(c, err)
		return
	}
	if err != nil || order == nil {
		utils.RespondJSON(c, http.StatusNotFound, "Not found restaurant table. Please contact the staff",
			gin.H{"not_found": true})
		return
	}

	if services.DecideDisposition(order.Table.Status, order.Status) != services.DispositionLive {
		utils.RespondError(c, http.StatusConflict, ErrOrderNotLive)
		return
	}

	type ItemReq struct {
		MenuID   uint   `json:"menu_id" binding:"required"`
		Quantity int    `json:"quantity" binding:"required"`
		Notes    string `json:"notes"`
	}
	type ReqBody struct {
		Items []ItemReq `json:"items" binding:"required"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items := make([]store.RequestItemInput, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, store.RequestItemInput{
			MenuID:   item.MenuID,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		})
	}

	request, err := oc.Store.CreateOrderRequest(order.ID, items)
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}

	hub.BroadcastRequestUpdate(*request)
	hub.BroadcastStaffNotification(fmt.Sprintf("New request %s for order #%d",
		utils.FormatRequestNumber(request.ID), order.ID))

	utils.RespondJSON(c, http.StatusCreated, "Order request created", request)
}

// GetAnnouncements -> pending rejection notices for the customer page
func (oc *OrderController) GetAnnouncements(c *gin.Context) {
	order, err := oc.resolveOrderToken(c.Param("order_token"))
	if err != nil && !models.IsNotFound(err) {
		utils.RespondStoreError(c, err)
		return
	}
	if err != nil || order == nil {
		utils.RespondJSON(c, http.StatusNotFound, "Not found restaurant table. Please contact the staff",
			gin.H{"not_found": true})
		return
	}

	announcements, err := oc.Store.AnnouncementsByOrder(order.ID)
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Announcements", announcements)
}

// ClearRejectionNotices -> one batched acknowledgement after the notices were
// shown. Idempotent.
func (oc *OrderController) ClearRejectionNotices(c *gin.Context) {
	order, err := oc.resolveOrderToken(c.Param("order_token"))
	if err != nil && !models.IsNotFound(err) {
		utils.RespondStoreError(c, err)
		return
	}
	if err != nil || order == nil {
		utils.RespondJSON(c, http.StatusNotFound, "Not found restaurant table. Please contact the staff",
			gin.H{"not_found": true})
		return
	}

	var body struct {
		RejectedFlag *bool `json:"rejected_flag" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || *body.RejectedFlag {
		utils.RespondError(c, http.StatusBadRequest,
			models.NewValidationError("Failed to update order requests"))
		return
	}

	count, err := oc.Store.ClearRejectionNotices(order.ID)
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Rejection notices cleared", gin.H{"count": count})
}

// UpdateOrder -> staff partial update. Any field explicitly sent as null is a
// validation error; the order ID and table reference cannot change this way.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil || orderID == 0 {
		utils.RespondError(c, http.StatusBadRequest,
			models.NewValidationError("Failed to update order. Please try again later"))
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	patch := store.OrderPatch{}
	for key, value := range body {
		if value == nil {
			utils.RespondError(c, http.StatusBadRequest,
				models.NewValidationError("Failed to update order. Please try again later"))
			return
		}
		switch key {
		case "status":
			raw, ok := value.(string)
			status := models.OrderStatus(raw)
			if !ok || !status.Valid() {
				utils.RespondError(c, http.StatusBadRequest,
					models.NewValidationError("Failed to update order. Please try again later"))
				return
			}
			patch.Status = &status
		case "customer_name":
			name, ok := value.(string)
			if !ok {
				utils.RespondError(c, http.StatusBadRequest,
					models.NewValidationError("Failed to update order. Please try again later"))
				return
			}
			patch.CustomerName = &name
		default:
			utils.RespondError(c, http.StatusBadRequest,
				models.NewValidationError("Failed to update order. Please try again later"))
			return
		}
	}

	if patch.Status != nil {
		current, err := oc.Store.OrderByID(uint(orderID))
		if err != nil {
			utils.RespondStoreError(c, err)
			return
		}
		if current == nil {
			utils.RespondError(c, http.StatusNotFound, models.NewNotFoundError("Not found order"))
			return
		}
		if !services.CanTransition(current.Status, *patch.Status) {
			utils.RespondError(c, http.StatusConflict, ErrIllegalTransition)
			return
		}
	}

	order, err := oc.Store.UpdateOrder(uint(orderID), patch)
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}

	hub.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// ConfirmOrder -> staff confirms a PENDING order (PENDING -> ORDERED)
func (oc *OrderController) ConfirmOrder(c *gin.Context) {
	oc.transition(c, models.OrderStatusOrdered, "Order confirmed")
}

// CompleteOrder -> staff marks a fulfilled order (ORDERED -> COMPLETED)
func (oc *OrderController) CompleteOrder(c *gin.Context) {
	oc.transition(c, models.OrderStatusCompleted, "Order completed")
}

// CancelOrder -> any non-terminal order -> CANCELLED
func (oc *OrderController) CancelOrder(c *gin.Context) {
	oc.transition(c, models.OrderStatusCancelled, "Order cancelled")
}

func (oc *OrderController) transition(c *gin.Context, to models.OrderStatus, message string) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil || orderID == 0 {
		utils.RespondError(c, http.StatusBadRequest,
			models.NewValidationError("Failed to update order. Please try again later"))
		return
	}

	current, err := oc.Store.OrderByID(uint(orderID))
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}
	if current == nil {
		utils.RespondError(c, http.StatusNotFound, models.NewNotFoundError("Not found order"))
		return
	}
	if !services.CanTransition(current.Status, to) {
		utils.RespondError(c, http.StatusConflict, ErrIllegalTransition)
		return
	}

	order, err := oc.Store.UpdateOrder(uint(orderID), store.OrderPatch{Status: &to})
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}

	hub.BroadcastOrderUpdate(*order)
	hub.BroadcastStaffNotification(fmt.Sprintf("Order #%d is now %s", order.ID, order.Status))
	utils.RespondJSON(c, http.StatusOK, message, order)
}

// GetOrdersByTable -> all orders for a table (staff view)
func (oc *OrderController) GetOrdersByTable(c *gin.Context) {
	tableID, _ := strconv.ParseUint(c.Param("table_id"), 10, 64)

	orders, err := oc.Store.OrdersByTable(uint(tableID))
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetCompletedOrdersByTable -> COMPLETED orders only
func (oc *OrderController) GetCompletedOrdersByTable(c *gin.Context) {
	tableID, _ := strconv.ParseUint(c.Param("table_id"), 10, 64)

	orders, err := oc.Store.CompletedOrdersByTable(uint(tableID))
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of completed orders", orders)
}

// GetActiveOrderByTable -> most recent PENDING/ORDERED order, null when none
func (oc *OrderController) GetActiveOrderByTable(c *gin.Context) {
	tableID, _ := strconv.ParseUint(c.Param("table_id"), 10, 64)

	order, err := oc.Store.ActiveOrderByTable(uint(tableID))
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active order", order)
}

// RejectOrderRequest -> staff rejects a request batch with a reason
func (oc *OrderController) RejectOrderRequest(c *gin.Context) {
	requestID, _ := strconv.ParseUint(c.Param("request_id"), 10, 64)

	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	request, err := oc.Store.RejectOrderRequest(uint(requestID), body.Reason)
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}

	hub.BroadcastRequestUpdate(*request)
	utils.RespondJSON(c, http.StatusOK, "Order request rejected", request)
}

// AcceptOrderRequest -> staff accepts a request batch
func (oc *OrderController) AcceptOrderRequest(c *gin.Context) {
	requestID, _ := strconv.ParseUint(c.Param("request_id"), 10, 64)

	request, err := oc.Store.AcceptOrderRequest(uint(requestID))
	if err != nil {
		utils.RespondStoreError(c, err)
		return
	}

	hub.BroadcastRequestUpdate(*request)
	utils.RespondJSON(c, http.StatusOK, "Order request accepted", request)
}
