package service

import (
	"context"

	"storefront-api/internal/model"
	"storefront-api/internal/repository"
)

type CatalogService interface {
	ListActive(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, productID string) (*model.Product, error)
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
	}
}

func (s *catalogServiceImpl) ListActive(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.ListActive(ctx)
}

func (s *catalogServiceImpl) Get(ctx context.Context, productID string) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, productID)
}
