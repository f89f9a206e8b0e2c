package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/router"
	"github.com/yeremiapane/table-order/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main customer/staff flow:
// 1. Customer scans the table with a name -> PENDING order + opaque link
// 2. Staff confirms -> ORDERED, ordering page goes live
// 3. Customer submits a request batch
// 4. Staff rejects it with a reason
// 5. The rejection surfaces on the announcements endpoint
// 6. Customer page acknowledges the notices (idempotent)
// 7. Staff completes the order -> no active order left at the table
func TestEndToEndIntegration(t *testing.T) {
	db := setupIntegrationDB()
	r := router.SetupRouter(db)

	token := scanTableTest(t, r)
	orderID := lookupOrderTest(t, r, token, "PENDING", "restricted")

	confirmOrderTest(t, r, orderID)
	lookupOrderTest(t, r, token, "ORDERED", "live")

	requestID := createRequestTest(t, r, token)
	rejectRequestTest(t, r, requestID)

	checkAnnouncementsTest(t, r, token, 1)
	clearNoticesTest(t, r, token, 1)
	clearNoticesTest(t, r, token, 0)
	checkAnnouncementsTest(t, r, token, 0)

	completeOrderTest(t, r, orderID)
	lookupOrderTest(t, r, token, "COMPLETED", "restricted")
	checkNoActiveOrderTest(t, r)
}

func setupIntegrationDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
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
		log.Fatalf("failed to migrate: %v", err)
	}

	restaurant := models.Restaurant{Name: "Testaurant", StartTime: "10:00", EndTime: "22:00", LastOrder: "21:30"}
	db.Create(&restaurant)
	table := models.Table{RestaurantID: restaurant.ID, Number: 1, TableType: "TABLE", Status: models.TableStatusAvailable}
	db.Create(&table)
	category := models.MenuCategory{Name: "Mains"}
	db.Create(&category)
	db.Create(&models.Menu{CategoryID: category.ID, Name: "Carbonara", Price: 12.5, Stock: 10})

	return db
}

func performJSON(t *testing.T, r *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
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
	r.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	return response
}

func scanTableTest(t *testing.T, r *gin.Engine) string {
	w := performJSON(t, r, "GET", "/tables/1/scan?name=Alice", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	token := data["order_token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func lookupOrderTest(t *testing.T, r *gin.Engine, token, wantStatus, wantDisposition string) uint {
	w := performJSON(t, r, "GET", "/orders/"+token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, wantDisposition, data["disposition"])

	order := data["order"].(map[string]interface{})
	assert.Equal(t, wantStatus, order["status"])
	return uint(order["id"].(float64))
}

func confirmOrderTest(t *testing.T, r *gin.Engine, orderID uint) {
	w := performJSON(t, r, "POST", "/staff/orders/"+strconv.Itoa(int(orderID))+"/confirm", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order confirmed", parseBody(t, w)["message"])
}

func createRequestTest(t *testing.T, r *gin.Engine, token string) uint {
	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{"menu_id": 1, "quantity": 2, "notes": "extra cheese"},
		},
	}
	w := performJSON(t, r, "POST", "/orders/"+token+"/requests", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}

func rejectRequestTest(t *testing.T, r *gin.Engine, requestID uint) {
	w := performJSON(t, r, "POST", "/staff/requests/"+strconv.Itoa(int(requestID))+"/reject",
		map[string]string{"reason": "out of stock"})
	assert.Equal(t, http.StatusOK, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "REJECTED", data["status"])
	assert.Equal(t, true, data["rejected_flag"])
}

func checkAnnouncementsTest(t *testing.T, r *gin.Engine, token string, want int) {
	w := performJSON(t, r, "GET", "/orders/"+token+"/announcements", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data, _ := parseBody(t, w)["data"].([]interface{})
	assert.Len(t, data, want)
	if want > 0 {
		a := data[0].(map[string]interface{})
		assert.Equal(t, "out of stock", a["rejected_reason"])
		items := a["item_names"].([]interface{})
		assert.Equal(t, "Carbonara", items[0])
	}
}

func clearNoticesTest(t *testing.T, r *gin.Engine, token string, want int) {
	w := performJSON(t, r, "PATCH", "/orders/"+token+"/requests",
		map[string]interface{}{"rejected_flag": false})
	assert.Equal(t, http.StatusOK, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(want), data["count"])
}

func completeOrderTest(t *testing.T, r *gin.Engine, orderID uint) {
	w := performJSON(t, r, "POST", "/staff/orders/"+strconv.Itoa(int(orderID))+"/complete", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order completed", parseBody(t, w)["message"])
}

func checkNoActiveOrderTest(t *testing.T, r *gin.Engine) {
	w := performJSON(t, r, "GET", "/staff/tables/1/active-order", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, parseBody(t, w)["data"])
}
