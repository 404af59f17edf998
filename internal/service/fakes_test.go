package service

import (
	"context"
	"time"

	"storefront-api/internal/client"
	"storefront-api/internal/model"

	"gorm.io/gorm"
)

type fakeOrderRepo struct {
	orders    map[string]*model.Order
	createErr error
	findCalls int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*model.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *model.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *order
	r.orders[order.OrderID] = &cp
	return nil
}

func (r *fakeOrderRepo) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	r.findCalls++
	order, ok := r.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *fakeOrderRepo) FindByPaymentIntentID(ctx context.Context, intentID string) (*model.Order, error) {
	r.findCalls++
	for _, order := range r.orders {
		if order.PaymentIntentID != nil && *order.PaymentIntentID == intentID {
			cp := *order
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) UpdateByOrderID(ctx context.Context, orderID string, updates map[string]interface{}) error {
	order, ok := r.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			order.Status = v.(string)
		case "payment_status":
			order.PaymentStatus = v.(string)
		case "payment_intent_id":
			id := v.(string)
			order.PaymentIntentID = &id
		case "notes":
			order.Notes = v.(string)
		}
	}
	order.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrderRepo) MarkConfirmationSent(ctx context.Context, orderID string) error {
	if order, ok := r.orders[orderID]; ok {
		now := time.Now()
		order.ConfirmationSentAt = &now
	}
	return nil
}

func (r *fakeOrderRepo) List(ctx context.Context, limit, offset int) ([]*model.Order, error) {
	var orders []*model.Order
	for _, order := range r.orders {
		orders = append(orders, order)
	}
	return orders, nil
}

type fakeCartRepo struct {
	carts   map[string]*model.Cart
	cleared []string
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]*model.Cart)}
}

func (r *fakeCartRepo) Get(ctx context.Context, userID string) (*model.Cart, error) {
	cart, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *cart
	return &cp, nil
}

func (r *fakeCartRepo) Upsert(ctx context.Context, cart *model.Cart) error {
	cp := *cart
	r.carts[cart.UserID] = &cp
	return nil
}

func (r *fakeCartRepo) Clear(ctx context.Context, userID string) error {
	r.cleared = append(r.cleared, userID)
	if cart, ok := r.carts[userID]; ok {
		cart.Items = "[]"
	}
	return nil
}

type fakeWebhookEventRepo struct {
	seen map[string]string
}

func newFakeWebhookEventRepo() *fakeWebhookEventRepo {
	return &fakeWebhookEventRepo{seen: make(map[string]string)}
}

func (r *fakeWebhookEventRepo) Exists(ctx context.Context, eventID string) (bool, error) {
	_, ok := r.seen[eventID]
	return ok, nil
}

func (r *fakeWebhookEventRepo) MarkProcessed(ctx context.Context, eventID, eventType string) error {
	r.seen[eventID] = eventType
	return nil
}

type fakeProductRepo struct {
	products map[string]*model.Product
}

func newFakeProductRepo(products ...*model.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*model.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Seed(ctx context.Context) error { return nil }

func (r *fakeProductRepo) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	product, ok := r.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error) {
	var out []*model.Product
	for _, id := range productIDs {
		if product, ok := r.products[id]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListActive(ctx context.Context) ([]*model.Product, error) {
	var out []*model.Product
	for _, product := range r.products {
		if product.Active {
			out = append(out, product)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, product *model.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, productID string) error {
	delete(r.products, productID)
	return nil
}

type fakePaymentClient struct {
	intent       *model.PaymentIntent
	createErr    error
	sigErr       error
	sessionItems []model.CartItem

	createCalls int
	lastAmount  int64
	lastOrderID string
}

func (c *fakePaymentClient) CreateIntent(ctx context.Context, amount int64, currency, orderID, userID string) (*model.PaymentIntent, error) {
	c.createCalls++
	c.lastAmount = amount
	c.lastOrderID = orderID
	if c.createErr != nil {
		return nil, c.createErr
	}
	if c.intent != nil {
		return c.intent, nil
	}
	return &model.PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func (c *fakePaymentClient) GetIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	return c.intent, nil
}

func (c *fakePaymentClient) ListSessionLineItems(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	return c.sessionItems, nil
}

func (c *fakePaymentClient) VerifyWebhookSignature(signatureHeader string, body []byte) error {
	return c.sigErr
}

type fakeShippingClient struct {
	rates []model.ShippingRate
	err   error
}

func (c *fakeShippingClient) GetRates(ctx context.Context, to model.ShippingAddress, parcels []client.Parcel) ([]model.ShippingRate, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.rates, nil
}

func (c *fakeShippingClient) Track(ctx context.Context, carrier, trackingNumber string) (*model.TrackingInfo, error) {
	return nil, nil
}

type fakeTaxClient struct {
	calc *client.TaxCalculation
	err  error
}

func (c *fakeTaxClient) Calculate(ctx context.Context, items []client.TaxLineItem, addr model.ShippingAddress) (*client.TaxCalculation, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.calc, nil
}

type fakeEmailClient struct {
	sent []string
	err  error
}

func (c *fakeEmailClient) SendOrderConfirmation(ctx context.Context, order *model.Order) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, order.OrderID)
	return nil
}
