package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/controllers"
	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/store"
	"github.com/yeremiapane/table-order/utils"
)

func setupTestDBForOrders(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Restaurant{},
		&models.Table{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.Order{},
		&models.OrderRequest{},
		&models.RequestItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	restaurant := models.Restaurant{Name: "Testaurant", StartTime: "10:00", EndTime: "22:00", LastOrder: "21:30"}
	db.Create(&restaurant)
	table := models.Table{RestaurantID: restaurant.ID, Number: 1, TableType: "TABLE", Status: models.TableStatusOccupied}
	db.Create(&table)
	category := models.MenuCategory{Name: "Mains"}
	db.Create(&category)
	menu := models.Menu{CategoryID: category.ID, Name: "Carbonara", Price: 12.5, Stock: 10}
	db.Create(&menu)

	return db
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	orderCtrl := controllers.NewOrderController(db)
	router.GET("/orders/:order_token", orderCtrl.GetOrderByToken)
	router.POST("/orders/:order_token/requests", orderCtrl.CreateOrderRequest)
	router.GET("/orders/:order_token/announcements", orderCtrl.GetAnnouncements)
	router.PATCH("/orders/:order_token/requests", orderCtrl.ClearRejectionNotices)
	router.PATCH("/staff/orders/:order_id", orderCtrl.UpdateOrder)
	router.POST("/staff/orders/:order_id/confirm", orderCtrl.ConfirmOrder)
	router.POST("/staff/orders/:order_id/complete", orderCtrl.CompleteOrder)
	router.POST("/staff/orders/:order_id/cancel", orderCtrl.CancelOrder)
	router.POST("/staff/requests/:request_id/reject", orderCtrl.RejectOrderRequest)
	router.POST("/staff/requests/:request_id/accept", orderCtrl.AcceptOrderRequest)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	return response
}

func TestGetOrderByToken(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	orders := store.NewGormOrderStore(db)

	order, err := orders.CreateOrder(1, "")
	assert.NoError(t, err)

	router := setupOrderRouter(db)
	w := doJSON(t, router, "GET", "/orders/"+utils.EncodeOrderToken(order.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeResponse(t, w)
	assert.Equal(t, "Order detail", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "live", data["disposition"])
	orderData := data["order"].(map[string]interface{})
	assert.Equal(t, "ORDERED", orderData["status"])
}

func TestGetOrderByTokenNotFound(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	// Garbage token, well-formed token for a missing order, and a token that
	// decodes to a non-numeric value all land on the same not-found page.
	for _, token := range []string{"%%%", utils.EncodeOrderToken(9999), "b3JkZXIxMjM="} {
		w := doJSON(t, router, "GET", "/orders/"+url.PathEscape(token), nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "token %q", token)

		response := decodeResponse(t, w)
		assert.Equal(t, "Not found restaurant table. Please contact the staff", response["message"])
		data := response["data"].(map[string]interface{})
		assert.Equal(t, true, data["not_found"])
	}
}

func TestGetOrderByTokenRestrictedWhenReserved(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	orders := store.NewGormOrderStore(db)

	order, _ := orders.CreateOrder(1, "")
	db.Model(&models.Table{}).Where("id = ?", 1).Update("status", models.TableStatusReserved)

	router := setupOrderRouter(db)
	w := doJSON(t, router, "GET", "/orders/"+utils.EncodeOrderToken(order.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "restricted", data["disposition"])
}

func TestCreateOrderRequest(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	orders := store.NewGormOrderStore(db)

	order, _ := orders.CreateOrder(1, "")
	router := setupOrderRouter(db)

	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{"menu_id": 1, "quantity": 2, "notes": "no bacon"},
		},
	}
	w := doJSON(t, router, "POST", "/orders/"+utils.EncodeOrderToken(order.ID)+"/requests", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	response := decodeResponse(t, w)
	assert.Equal(t, "Order request created", response["message"])

	var count int64
	db.Model(&models.RequestItem{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateOrderRequestRejectedWhilePending(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	orders := store.NewGormOrderStore(db)

	// A named order starts PENDING, so the page is restricted.
	order, _ := orders.CreateOrder(1, "Alice")
	router := setupOrderRouter(db)

	payload := map[string]interface{}{
		"items": []map[string]interface{}{{"menu_id": 1, "quantity": 1}},
	}
	w := doJSON(t, router, "POST", "/orders/"+utils.EncodeOrderToken(order.ID)+"/requests", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAnnouncementLifecycle(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	orders := store.NewGormOrderStore(db)

	order, _ := orders.CreateOrder(1, "")
	request, err := orders.CreateOrderRequest(order.ID, []store.RequestItemInput{{MenuID: 1, Quantity: 1}})
	assert.NoError(t, err)

	router := setupOrderRouter(db)
	token := utils.EncodeOrderToken(order.ID)

	// No rejections yet: empty list.
	w := doJSON(t, router, "GET", "/orders/"+token+"/announcements", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.Empty(t, response["data"])

	// Staff rejects the request with a reason.
	w = doJSON(t, router, "POST", "/staff/requests/"+strconv.Itoa(int(request.ID))+"/reject",
		map[string]string{"reason": "out of stock"})
	assert.Equal(t, http.StatusOK, w.Code)

	// The rejection surfaces as an announcement.
	w = doJSON(t, router, "GET", "/orders/"+token+"/announcements", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response = decodeResponse(t, w)
	announcements := response["data"].([]interface{})
	if assert.Len(t, announcements, 1) {
		a := announcements[0].(map[string]interface{})
		assert.Equal(t, "out of stock", a["rejected_reason"])
	}

	// The customer page acknowledges all notices in one batch.
	w = doJSON(t, router, "PATCH", "/orders/"+token+"/requests",
		map[string]interface{}{"rejected_flag": false})
	assert.Equal(t, http.StatusOK, w.Code)
	response = decodeResponse(t, w)
	assert.Equal(t, float64(1), response["data"].(map[string]interface{})["count"])

	// Acknowledging again is a no-op.
	w = doJSON(t, router, "PATCH", "/orders/"+token+"/requests",
		map[string]interface{}{"rejected_flag": false})
	assert.Equal(t, http.StatusOK, w.Code)
	response = decodeResponse(t, w)
	assert.Equal(t, float64(0), response["data"].(map[string]interface{})["count"])

	w = doJSON(t, router, "GET", "/orders/"+token+"/announcements", nil)
	response = decodeResponse(t, w)
	assert.Empty(t, response["data"])
}

func TestClearRejectionNoticesRejectsTrueFlag(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	orders := store.NewGormOrderStore(db)

	order, _ := orders.CreateOrder(1, "")
	router := setupOrderRouter(db)

	// The only legal acknowledgement sets the flag to false.
	w := doJSON(t, router, "PATCH", "/orders/"+utils.EncodeOrderToken(order.ID)+"/requests",
		map[string]interface{}{"rejected_flag": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderTransitions(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	orders := store.NewGormOrderStore(db)

	order, _ := orders.CreateOrder(1, "Alice")
	router := setupOrderRouter(db)
	base := "/staff/orders/" + strconv.Itoa(int(order.ID))

	// PENDING cannot jump straight to COMPLETED.
	w := doJSON(t, router, "POST", base+"/complete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, "POST", base+"/confirm", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.Equal(t, "Order confirmed", response["message"])

	w = doJSON(t, router, "POST", base+"/complete", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Terminal orders stay terminal.
	w = doJSON(t, router, "POST", base+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	orders := store.NewGormOrderStore(db)

	order, _ := orders.CreateOrder(1, "Alice")
	router := setupOrderRouter(db)
	url := "/staff/orders/" + strconv.Itoa(int(order.ID))

	w := doJSON(t, router, "PATCH", url, map[string]interface{}{
		"status":        "ORDERED",
		"customer_name": "Alice B",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Order
	db.First(&updated, order.ID)
	assert.Equal(t, models.OrderStatusOrdered, updated.Status)
	assert.Equal(t, "Alice B", updated.CustomerName)

	// Explicit nulls are refused.
	w = doJSON(t, router, "PATCH", url, map[string]interface{}{"customer_name": nil})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown fields are refused.
	w = doJSON(t, router, "PATCH", url, map[string]interface{}{"table_id": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Illegal transition through the generic patch endpoint.
	w = doJSON(t, router, "PATCH", url, map[string]interface{}{"status": "PENDING"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown order.
	w = doJSON(t, router, "PATCH", "/staff/orders/9999", map[string]interface{}{"status": "COMPLETED"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAcceptOrderRequest(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	orders := store.NewGormOrderStore(db)

	order, _ := orders.CreateOrder(1, "")
	request, _ := orders.CreateOrderRequest(order.ID, []store.RequestItemInput{{MenuID: 1, Quantity: 1}})

	router := setupOrderRouter(db)
	w := doJSON(t, router, "POST", "/staff/requests/"+strconv.Itoa(int(request.ID))+"/accept", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.OrderRequest
	db.First(&updated, request.ID)
	assert.Equal(t, models.RequestStatusAccepted, updated.Status)
}
