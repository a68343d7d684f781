package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkropachev/eshop/internal/models"
	"github.com/nkropachev/eshop/internal/mykafka"
)

func orderBody(userID uint, items ...[2]uint) string {
	entries := make([]map[string]uint, 0, len(items))
	for _, it := range items {
		entries = append(entries, map[string]uint{"product": it[0], "quantity": it[1]})
	}
	body := map[string]any{
		"orderItems":       entries,
		"shippingAddress1": "1 Main St",
		"city":             "Springfield",
		"zip":              "12345",
		"country":          "US",
		"phone":            "555-0100",
		"user":             userID,
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory(t, "peripherals")
	p1 := env.seedProduct(t, "keyboard", 10, category.ID)
	p2 := env.seedProduct(t, "mouse", 5, category.ID)
	user := env.seedUser(t, "Alice", "alice@example.com")

	c, rec := env.request(http.MethodPost, "/api/v1/orders", orderBody(user.ID, [2]uint{p1.ID, 2}, [2]uint{p2.ID, 3}))
	require.NoError(t, env.orders.CreateOrder(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, 35.00, order.TotalPrice)
	assert.Equal(t, "Pending", order.Status)
	assert.Len(t, order.Items, 2)

	require.Len(t, env.producer.events, 1)
	ev := env.producer.events[0]
	assert.Equal(t, mykafka.TopicOrderEvents, ev.Topic)
	assert.Equal(t, "order_created", ev.Event["type"])
}

func TestOrderHandler_CreateOrder_RejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(http.MethodPost, "/api/v1/orders", `{"orderItems":[],"bogus":true}`)
	err := env.orders.CreateOrder(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	assert.Empty(t, env.producer.events)
}

func TestOrderHandler_CreateOrder_UnknownProductIs400(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Alice", "alice@example.com")

	c, _ := env.request(http.MethodPost, "/api/v1/orders", orderBody(user.ID, [2]uint{999, 1}))
	err := env.orders.CreateOrder(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	assert.Empty(t, env.producer.events)
}

func TestOrderHandler_GetOrder_NotFound(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(http.MethodGet, "/api/v1/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	err := env.orders.GetOrder(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestOrderHandler_GetOrder_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(http.MethodGet, "/api/v1/orders/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	err := env.orders.GetOrder(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestOrderHandler_UpdateOrder(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory(t, "peripherals")
	p := env.seedProduct(t, "keyboard", 10, category.ID)
	user := env.seedUser(t, "Alice", "alice@example.com")

	c, rec := env.request(http.MethodPost, "/api/v1/orders", orderBody(user.ID, [2]uint{p.ID, 1}))
	require.NoError(t, env.orders.CreateOrder(c))
	var created models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	c, rec = env.request(http.MethodPut, "/api/v1/orders/"+fmt.Sprint(created.ID), `{"status":"Shipped"}`)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(created.ID))
	require.NoError(t, env.orders.UpdateOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Shipped", updated.Status)
	assert.Equal(t, created.TotalPrice, updated.TotalPrice)

	last := env.producer.events[len(env.producer.events)-1]
	assert.Equal(t, "order_status_updated", last.Event["type"])
}

func TestOrderHandler_UpdateOrder_NotFound(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(http.MethodPut, "/api/v1/orders/42", `{"status":"Shipped"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")
	err := env.orders.UpdateOrder(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestOrderHandler_DeleteOrder(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory(t, "peripherals")
	p := env.seedProduct(t, "keyboard", 10, category.ID)
	user := env.seedUser(t, "Alice", "alice@example.com")

	c, rec := env.request(http.MethodPost, "/api/v1/orders", orderBody(user.ID, [2]uint{p.ID, 1}))
	require.NoError(t, env.orders.CreateOrder(c))
	var created models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	c, rec = env.request(http.MethodDelete, "/api/v1/orders/"+fmt.Sprint(created.ID), "")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(created.ID))
	require.NoError(t, env.orders.DeleteOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"the order is deleted"}`, rec.Body.String())

	last := env.producer.events[len(env.producer.events)-1]
	assert.Equal(t, "order_deleted", last.Event["type"])
}

func TestOrderHandler_DeleteOrder_NotFound(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(http.MethodDelete, "/api/v1/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	err := env.orders.DeleteOrder(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
	assert.Empty(t, env.producer.events)
}

func TestOrderHandler_TotalSales_EmptyIs400(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(http.MethodGet, "/api/v1/orders/get/totalsales", "")
	err := env.orders.TotalSales(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestOrderHandler_TotalSalesAndCount(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory(t, "peripherals")
	p := env.seedProduct(t, "keyboard", 10, category.ID)
	user := env.seedUser(t, "Alice", "alice@example.com")

	for i := 0; i < 2; i++ {
		c, _ := env.request(http.MethodPost, "/api/v1/orders", orderBody(user.ID, [2]uint{p.ID, 2}))
		require.NoError(t, env.orders.CreateOrder(c))
	}

	c, rec := env.request(http.MethodGet, "/api/v1/orders/get/totalsales", "")
	require.NoError(t, env.orders.TotalSales(c))
	assert.JSONEq(t, `{"totalsales":40}`, rec.Body.String())

	c, rec = env.request(http.MethodGet, "/api/v1/orders/get/count", "")
	require.NoError(t, env.orders.CountOrders(c))
	assert.JSONEq(t, `{"orderCount":2}`, rec.Body.String())
}

func TestOrderHandler_ListUserOrders(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory(t, "peripherals")
	p := env.seedProduct(t, "keyboard", 10, category.ID)
	alice := env.seedUser(t, "Alice", "alice@example.com")
	bob := env.seedUser(t, "Bob", "bob@example.com")

	c, _ := env.request(http.MethodPost, "/api/v1/orders", orderBody(alice.ID, [2]uint{p.ID, 1}))
	require.NoError(t, env.orders.CreateOrder(c))
	c, _ = env.request(http.MethodPost, "/api/v1/orders", orderBody(bob.ID, [2]uint{p.ID, 1}))
	require.NoError(t, env.orders.CreateOrder(c))

	c, rec := env.request(http.MethodGet, "/api/v1/orders/get/userorders/"+fmt.Sprint(alice.ID), "")
	c.SetParamNames("userid")
	c.SetParamValues(fmt.Sprint(alice.ID))
	require.NoError(t, env.orders.ListUserOrders(c))

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, alice.ID, orders[0].UserID)
}
