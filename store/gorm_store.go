package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/utils"
)

// GormOrderStore implements OrderStore on top of gorm.
type GormOrderStore struct {
	DB *gorm.DB
}

func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{DB: db}
}

var activeStatuses = []models.OrderStatus{models.OrderStatusPending, models.OrderStatusOrdered}

func (s *GormOrderStore) CreateOrder(tableID uint, customerName string) (*models.Order, error) {
	if tableID == 0 {
		return nil, models.NewValidationError("Failed to create order")
	}

	var table models.Table
	if err := s.DB.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Not found restaurant table")
		}
		return nil, models.NewApiError("createOrder", err)
	}

	// A named guest waits for staff confirmation; an anonymous walk-in
	// goes straight to ORDERED.
	status := models.OrderStatusOrdered
	if customerName != "" {
		status = models.OrderStatusPending
	}

	order := models.Order{
		TableID:      tableID,
		Status:       status,
		CustomerName: customerName,
	}
	if err := s.DB.Create(&order).Error; err != nil {
		return nil, models.NewApiError("createOrder", err)
	}

	order.Table = table
	return &order, nil
}

func (s *GormOrderStore) OrderByID(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, nil
	}

	var order models.Order
	err := s.DB.Preload("Table.Restaurant").
		Preload("OrderRequests.Items.Menu").
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewApiError("orderByID", err)
	}
	return &order, nil
}

func (s *GormOrderStore) ActiveOrderByID(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, nil
	}
	return s.activeOrder(s.DB.Where("id = ?", orderID))
}

func (s *GormOrderStore) ActiveOrderByTable(tableID uint) (*models.Order, error) {
	if tableID == 0 {
		return nil, nil
	}
	return s.activeOrder(s.DB.Where("table_id = ?", tableID))
}

func (s *GormOrderStore) ActiveOrderByTableAndID(orderID, tableID uint) (*models.Order, error) {
	if orderID == 0 || tableID == 0 {
		return nil, nil
	}
	return s.activeOrder(s.DB.Where("id = ? AND table_id = ?", orderID, tableID))
}

func (s *GormOrderStore) activeOrder(tx *gorm.DB) (*models.Order, error) {
	var order models.Order
	err := tx.Where("status IN ?", activeStatuses).
		Preload("Table.Restaurant").
		Order("created_at DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewApiError("activeOrder", err)
	}
	return &order, nil
}

func (s *GormOrderStore) OrdersByTable(tableID uint) ([]models.Order, error) {
	if tableID == 0 {
		return nil, nil
	}

	var orders []models.Order
	if err := s.DB.Where("table_id = ?", tableID).Find(&orders).Error; err != nil {
		return nil, models.NewApiError("ordersByTable", err)
	}
	return orders, nil
}

func (s *GormOrderStore) CompletedOrdersByTable(tableID uint) ([]models.Order, error) {
	if tableID == 0 {
		return nil, nil
	}

	var orders []models.Order
	if err := s.DB.Where("table_id = ? AND status = ?", tableID, models.OrderStatusCompleted).
		Find(&orders).Error; err != nil {
		return nil, models.NewApiError("completedOrdersByTable", err)
	}
	return orders, nil
}

func (s *GormOrderStore) UpdateOrder(orderID uint, patch OrderPatch) (*models.Order, error) {
	if orderID == 0 || patch.Empty() {
		return nil, models.NewValidationError("Failed to update order. Please try again later")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, models.NewValidationError("Failed to update order. Please try again later")
	}

	var order models.Order
	if err := s.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Not found order")
		}
		return nil, models.NewApiError("updateOrder", err)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.CustomerName != nil {
		updates["customer_name"] = *patch.CustomerName
	}

	if err := s.DB.Model(&order).Updates(updates).Error; err != nil {
		return nil, models.NewApiError("updateOrder", err)
	}
	return &order, nil
}

func (s *GormOrderStore) CreateOrderRequest(orderID uint, items []RequestItemInput) (*models.OrderRequest, error) {
	if orderID == 0 || len(items) == 0 {
		return nil, models.NewValidationError("Failed to create order request")
	}

	var order models.Order
	if err := s.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Not found order")
		}
		return nil, models.NewApiError("createOrderRequest", err)
	}

	request := models.OrderRequest{
		OrderID: orderID,
		Status:  models.RequestStatusPending,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		for _, item := range items {
			var menu models.Menu
			if err := tx.First(&menu, item.MenuID).Error; err != nil {
				// Unknown menu IDs are skipped, matching order creation.
				continue
			}
			requestItem := models.RequestItem{
				OrderRequestID: request.ID,
				MenuID:         menu.ID,
				Quantity:       item.Quantity,
				Notes:          item.Notes,
			}
			if err := tx.Create(&requestItem).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, models.NewApiError("createOrderRequest", err)
	}

	if err := s.DB.Preload("Items.Menu").First(&request, request.ID).Error; err != nil {
		return nil, models.NewApiError("createOrderRequest", err)
	}
	return &request, nil
}

func (s *GormOrderStore) RejectOrderRequest(requestID uint, reason string) (*models.OrderRequest, error) {
	if requestID == 0 || reason == "" {
		return nil, models.NewValidationError("Failed to reject order request")
	}

	var request models.OrderRequest
	if err := s.DB.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Not found order request")
		}
		return nil, models.NewApiError("rejectOrderRequest", err)
	}

	request.Status = models.RequestStatusRejected
	request.RejectedReason = &reason
	request.RejectedFlag = true
	if err := s.DB.Save(&request).Error; err != nil {
		return nil, models.NewApiError("rejectOrderRequest", err)
	}
	return &request, nil
}

func (s *GormOrderStore) AcceptOrderRequest(requestID uint) (*models.OrderRequest, error) {
	if requestID == 0 {
		return nil, models.NewValidationError("Failed to accept order request")
	}

	var request models.OrderRequest
	if err := s.DB.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Not found order request")
		}
		return nil, models.NewApiError("acceptOrderRequest", err)
	}

	request.Status = models.RequestStatusAccepted
	if err := s.DB.Save(&request).Error; err != nil {
		return nil, models.NewApiError("acceptOrderRequest", err)
	}
	return &request, nil
}

func (s *GormOrderStore) AnnouncementsByOrder(orderID uint) ([]models.Announcement, error) {
	if orderID == 0 {
		return nil, nil
	}

	var requests []models.OrderRequest
	if err := s.DB.Where("order_id = ? AND rejected_flag = ?", orderID, true).
		Preload("Items.Menu").
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, models.NewApiError("announcementsByOrder", err)
	}

	announcements := make([]models.Announcement, 0, len(requests))
	for _, request := range requests {
		var reason string
		if request.RejectedReason != nil {
			reason = *request.RejectedReason
		}
		names := make([]string, 0, len(request.Items))
		for _, item := range request.Items {
			names = append(names, item.Menu.Name)
		}
		announcements = append(announcements, models.Announcement{
			OrderRequestID: request.ID,
			RequestNumber:  request.ID,
			RejectedReason: reason,
			CreatedAt:      utils.ToISOString(request.CreatedAt),
			ItemNames:      names,
		})
	}
	return announcements, nil
}

func (s *GormOrderStore) ClearRejectionNotices(orderID uint) (int64, error) {
	if orderID == 0 {
		return 0, models.NewValidationError("Failed to update order requests")
	}

	result := s.DB.Model(&models.OrderRequest{}).
		Where("order_id = ? AND rejected_flag = ?", orderID, true).
		Update("rejected_flag", false)
	if result.Error != nil {
		return 0, models.NewApiError("clearRejectionNotices", result.Error)
	}
	return result.RowsAffected, nil
}
