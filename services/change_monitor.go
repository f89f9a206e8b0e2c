package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/hub"
	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/utils"
)

// ChangeMonitor polls the trigger-fed change log and pushes typed events to
// the dashboard hub.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "orders":
			cm.processOrderChange(change)
		case "order_requests":
			cm.processRequestChange(change)
		case "tables":
			cm.processTableChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("Error committing change log transaction: %v", err)
		tx.Rollback()
		return
	}

	if len(changes) > 0 {
		utils.InfoLogger.Printf("Processed %d change log entries", len(changes))
	}
}

func (cm *ChangeMonitor) processOrderChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		return
	}

	var order models.Order
	if err := cm.DB.Preload("Table").First(&order, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching order %d: %v", change.RecordID, err)
		return
	}
	hub.BroadcastOrderUpdate(order)
}

func (cm *ChangeMonitor) processRequestChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		return
	}

	var request models.OrderRequest
	if err := cm.DB.Preload("Items.Menu").First(&request, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching order request %d: %v", change.RecordID, err)
		return
	}
	hub.BroadcastRequestUpdate(request)
}

func (cm *ChangeMonitor) processTableChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		hub.BroadcastTableDelete(models.Table{ID: uint(change.RecordID)})
		return
	}

	var table models.Table
	if err := cm.DB.First(&table, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching table %d: %v", change.RecordID, err)
		return
	}
	hub.BroadcastTableUpdate(table)
}
