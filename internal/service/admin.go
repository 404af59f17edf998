package service

import (
	"context"
	"fmt"

	"storefront-api/internal/model"
	"storefront-api/internal/repository"
)

// Back-office operations. Fulfillment staff move orders along
// processing -> shipped -> delivered here; payment-driven transitions stay
// with the webhook service.
type AdminService interface {
	ListOrders(ctx context.Context, limit, offset int) ([]*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	SaveProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, productID string) error
}

var validOrderStatuses = map[string]bool{
	model.OrderStatusPendingPayment: true,
	model.OrderStatusProcessing:     true,
	model.OrderStatusShipped:        true,
	model.OrderStatusDelivered:      true,
	model.OrderStatusCancelled:      true,
}

type adminServiceImpl struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewAdminService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) AdminService {
	return &adminServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func (s *adminServiceImpl) ListOrders(ctx context.Context, limit, offset int) ([]*model.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.orderRepo.List(ctx, limit, offset)
}

func (s *adminServiceImpl) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return s.orderRepo.FindByOrderID(ctx, orderID)
}

func (s *adminServiceImpl) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	if !validOrderStatuses[status] {
		return fmt.Errorf("invalid order status %q", status)
	}
	return s.orderRepo.UpdateByOrderID(ctx, orderID, map[string]interface{}{
		"status": status,
	})
}

func (s *adminServiceImpl) SaveProduct(ctx context.Context, product *model.Product) error {
	if product.ID == "" {
		return fmt.Errorf("product id required")
	}
	return s.productRepo.Save(ctx, product)
}

func (s *adminServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	return s.productRepo.Delete(ctx, productID)
}
