package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nkropachev/eshop/internal/models"
	"github.com/nkropachev/eshop/internal/repo"
	"github.com/nkropachev/eshop/internal/transport"
)

const DefaultOrderStatus = "Pending"

// OrderService orchestrates the order workflow: creation with a derived
// total, reads with item/product/category resolution, status updates and
// cascade deletion.
type OrderService struct {
	Repo *repo.GormRepo
}

func NewOrderService(r *repo.GormRepo) *OrderService {
	return &OrderService{Repo: r}
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

// CreateOrder persists the cart's order-items, derives the total from the
// product prices read in the same transaction, and persists the order.
// The whole invocation is atomic: a failure at any step leaves no orphan
// order-items behind.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	status := req.Status
	if status == "" {
		status = DefaultOrderStatus
	}

	order := &models.Order{
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           status,
		UserID:           req.User,
	}

	err := s.Repo.Transaction(ctx, func(txr *repo.GormRepo) error {
		if _, err := txr.GetUser(ctx, req.User); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d does not exist", ErrValidation, req.User)
			}
			return err
		}

		var total float64
		items := make([]models.OrderItem, 0, len(req.OrderItems))
		for _, entry := range req.OrderItems {
			product, err := txr.GetProduct(ctx, entry.Product)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d does not exist", ErrValidation, entry.Product)
				}
				return err
			}
			total += product.Price * float64(entry.Quantity)
			items = append(items, models.OrderItem{
				ProductID: entry.Product,
				Quantity:  entry.Quantity,
			})
		}

		order.Items = items
		order.TotalPrice = total
		return txr.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus overwrites the status and nothing else.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, req transport.UpdateOrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.Repo.UpdateOrderStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

// DeleteOrder removes the order and every order-item it owns in one
// transaction, so a partial cascade cannot leave orphans.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	return s.Repo.Transaction(ctx, func(txr *repo.GormRepo) error {
		if _, err := txr.GetOrder(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, id)
			}
			return err
		}
		if err := txr.DeleteOrderRecord(ctx, id); err != nil {
			return err
		}
		return txr.DeleteOrderItems(ctx, id)
	})
}

// TotalSales sums total price across all orders. An empty collection is
// an error so callers can tell "no data" from a genuine zero.
func (s *OrderService) TotalSales(ctx context.Context) (float64, error) {
	n, err := s.Repo.CountOrders(ctx)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: the order sales cannot be generated", ErrNoOrders)
	}
	return s.Repo.SumTotalPrice(ctx)
}

func (s *OrderService) CountOrders(ctx context.Context) (int64, error) {
	return s.Repo.CountOrders(ctx)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListUserOrders(ctx, userID)
}
