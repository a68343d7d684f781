package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nkropachev/eshop/internal/logging"
	"github.com/nkropachev/eshop/internal/mykafka"
	"github.com/nkropachev/eshop/internal/service"
	"github.com/nkropachev/eshop/internal/transport"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer mykafka.Publisher
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	orders, err := h.Svc.ListOrders(ctx)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		l.Warn("get_order_error", "order_id", id, "error", err)
		return httpError(err, "cannot get order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return httpError(err, "the order cannot be created")
	}

	publish(c, h.Producer, mykafka.TopicOrderEvents, fmt.Sprint(order.ID), map[string]any{
		"type":       "order_created",
		"orderID":    order.ID,
		"userID":     order.UserID,
		"totalPrice": order.TotalPrice,
		"items":      len(order.Items),
	})

	l.Info("create_order_success", "order_id", order.ID, "total_price", order.TotalPrice)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateOrderRequest
	if err := transport.BindStrict(c, &req); err != nil {
		l.Warn("update_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.Svc.UpdateOrderStatus(ctx, id, req)
	if err != nil {
		l.Warn("update_order_error", "order_id", id, "error", err)
		return httpError(err, "the order cannot be updated")
	}

	publish(c, h.Producer, mykafka.TopicOrderEvents, fmt.Sprint(order.ID), map[string]any{
		"type":    "order_status_updated",
		"orderID": order.ID,
		"status":  order.Status,
	})

	l.Info("update_order_success", "order_id", order.ID, "order_status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteOrder(ctx, id); err != nil {
		l.Warn("delete_order_error", "order_id", id, "error", err)
		return httpError(err, "the order cannot be deleted")
	}

	publish(c, h.Producer, mykafka.TopicOrderEvents, fmt.Sprint(id), map[string]any{
		"type":    "order_deleted",
		"orderID": id,
	})

	l.Info("delete_order_success", "order_id", id)
	return c.JSON(http.StatusOK, confirmation("the order is deleted"))
}

func (h *OrderHTTP) TotalSales(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.total_sales")

	total, err := h.Svc.TotalSales(ctx)
	if err != nil {
		l.Warn("total_sales_error", "error", err)
		return httpError(err, "cannot compute total sales")
	}
	return c.JSON(http.StatusOK, transport.TotalSalesResponse{TotalSales: total})
}

func (h *OrderHTTP) CountOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.count_orders")

	n, err := h.Svc.CountOrders(ctx)
	if err != nil {
		l.Error("count_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot count orders")
	}
	return c.JSON(http.StatusOK, transport.OrderCountResponse{OrderCount: n})
}

func (h *OrderHTTP) ListUserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_user_orders")

	userID, err := parseID(c, "userid")
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListUserOrders(ctx, userID)
	if err != nil {
		l.Error("list_user_orders_error", "status", 500, "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list user orders")
	}
	return c.JSON(http.StatusOK, orders)
}
