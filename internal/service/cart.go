package service

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-api/internal/model"
	"storefront-api/internal/repository"
)

// Pure cart operations, shared by the server mirror and its tests. The
// uniqueness key is (productId, color, size): adding a matching line
// increments quantity instead of duplicating.

func AddItem(items []model.CartItem, item model.CartItem) []model.CartItem {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i, existing := range items {
		if existing.Key() == item.Key() {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

func RemoveItem(items []model.CartItem, key string) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		if item.Key() != key {
			out = append(out, item)
		}
	}
	return out
}

func SetItemQuantity(items []model.CartItem, key string, quantity int) []model.CartItem {
	if quantity <= 0 {
		return RemoveItem(items, key)
	}
	for i, item := range items {
		if item.Key() == key {
			items[i].Quantity = quantity
			break
		}
	}
	return items
}

func ItemCount(items []model.CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

func Subtotal(items []model.CartItem) int64 {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}
	return subtotal
}

// MergeCarts unions server and local items by composite key; on a key
// collision the local line wins outright.
func MergeCarts(server, local []model.CartItem) []model.CartItem {
	merged := make([]model.CartItem, 0, len(server)+len(local))
	byKey := make(map[string]int)

	for _, item := range server {
		byKey[item.Key()] = len(merged)
		merged = append(merged, item)
	}
	for _, item := range local {
		if i, ok := byKey[item.Key()]; ok {
			merged[i] = item
		} else {
			byKey[item.Key()] = len(merged)
			merged = append(merged, item)
		}
	}
	return merged
}

// CartService is the backend mirror for signed-in users. Every write is
// last-write-wins; the live cart itself lives with the client.
type CartService interface {
	Get(ctx context.Context, userID string) ([]model.CartItem, error)
	Put(ctx context.Context, userID string, items []model.CartItem) error
	Merge(ctx context.Context, userID string, local []model.CartItem) ([]model.CartItem, error)
	Clear(ctx context.Context, userID string) error
}

type cartServiceImpl struct {
	cartRepo repository.CartRepository
}

func NewCartService(cartRepo repository.CartRepository) CartService {
	return &cartServiceImpl{
		cartRepo: cartRepo,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, userID string) ([]model.CartItem, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil || cart.Items == "" {
		return nil, nil
	}

	var items []model.CartItem
	if err := json.Unmarshal([]byte(cart.Items), &items); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	return items, nil
}

func (s *cartServiceImpl) Put(ctx context.Context, userID string, items []model.CartItem) error {
	valid := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != "" && item.Quantity >= 1 {
			valid = append(valid, item)
		}
	}

	raw, err := json.Marshal(valid)
	if err != nil {
		return fmt.Errorf("encode cart items: %w", err)
	}

	return s.cartRepo.Upsert(ctx, &model.Cart{
		UserID: userID,
		Items:  string(raw),
	})
}

// Merge runs on sign-in: the mirrored cart plus any local-only lines, local
// wins ties, and the merged result is written back.
func (s *cartServiceImpl) Merge(ctx context.Context, userID string, local []model.CartItem) ([]model.CartItem, error) {
	server, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := MergeCarts(server, local)
	if err := s.Put(ctx, userID, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID string) error {
	return s.cartRepo.Clear(ctx, userID)
}
