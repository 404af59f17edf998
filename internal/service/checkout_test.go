package service

import (
	"context"
	"fmt"
	"testing"

	"storefront-api/internal/dto"
	"storefront-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentIntentRequest() *dto.PaymentIntentRequest {
	return &dto.PaymentIntentRequest{
		Amount:  5350 + 650,
		OrderID: model.NewOrderID(),
		Email:   "shopper@example.com",
		Items: []model.CartItem{
			{ProductID: "p1", Name: "Classic Tee", Price: 2500, Quantity: 2, Color: "Black", Size: "M"},
		},
		ShippingAddress: model.ShippingAddress{
			FirstName: "Ada", LastName: "Lovelace",
			Address1: "1 Main St", City: "Indianapolis",
			State: "IN", PostalCode: "46204", Country: "US",
		},
		Shipping:        650,
		Tax:             350,
		ShippingService: "ground",
	}
}

func TestCreatePaymentIntent_PersistsPendingOrderSnapshot(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	payment := &fakePaymentClient{}
	svc := NewCheckoutService(payment, orderRepo)

	req := paymentIntentRequest()
	resp, err := svc.CreatePaymentIntent(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "pi_test_secret", resp.ClientSecret)
	assert.Equal(t, "pi_test", resp.PaymentIntentID)

	order, err := orderRepo.FindByOrderID(context.Background(), req.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPendingPayment, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, order.Total, order.Subtotal+order.Shipping+order.Tax)
	assert.Equal(t, req.Amount, order.Total)

	items, err := order.LineItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)

	addr, err := order.Address()
	require.NoError(t, err)
	require.NotNil(t, addr)
	assert.Equal(t, "Indianapolis", addr.City)
	assert.Equal(t, order.ShippingAddress, order.BillingAddress)

	assert.Equal(t, req.Amount, payment.lastAmount)
	assert.Equal(t, req.OrderID, payment.lastOrderID)
}

func TestCreatePaymentIntent_MissingFields(t *testing.T) {
	svc := NewCheckoutService(&fakePaymentClient{}, newFakeOrderRepo())

	req := paymentIntentRequest()
	req.Amount = 0
	_, err := svc.CreatePaymentIntent(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	req = paymentIntentRequest()
	req.OrderID = ""
	_, err = svc.CreatePaymentIntent(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestCreatePaymentIntent_StorageFailureIsSwallowed(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.createErr = fmt.Errorf("storage hiccup")
	payment := &fakePaymentClient{}
	svc := NewCheckoutService(payment, orderRepo)

	resp, err := svc.CreatePaymentIntent(context.Background(), paymentIntentRequest())

	// the pending order never landed but checkout still proceeds
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ClientSecret)
	assert.Equal(t, 1, payment.createCalls)
	assert.Empty(t, orderRepo.orders)
}

func TestCreatePaymentIntent_ProcessorFailureIsFatal(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	payment := &fakePaymentClient{createErr: fmt.Errorf("processor down")}
	svc := NewCheckoutService(payment, orderRepo)

	_, err := svc.CreatePaymentIntent(context.Background(), paymentIntentRequest())

	assert.ErrorIs(t, err, ErrPaymentIntentFailed)
	// the pending order still exists for the eventual webhook
	assert.Len(t, orderRepo.orders, 1)
}
