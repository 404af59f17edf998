package service

import (
	"context"
	"fmt"
	"testing"

	"storefront-api/internal/client"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFreeShippingThreshold = 7500
	testDefaultWeight         = 450
)

func usAddress(state string) model.ShippingAddress {
	return model.ShippingAddress{
		FirstName: "Ada", LastName: "Lovelace",
		Address1: "1 Main St", City: "Springfield",
		State: state, PostalCode: "46204", Country: "US",
	}
}

func TestShippingRates_FallsBackWhenUnconfigured(t *testing.T) {
	products := newFakeProductRepo(&model.Product{ID: "p1", Price: 5000, Weight: 200, Active: true})
	svc := NewQuoteService(nil, nil, products, testFreeShippingThreshold, testDefaultWeight)

	resp := svc.ShippingRates(context.Background(),
		[]dto.RateItem{{ProductID: "p1", Quantity: 1}}, usAddress("IN"))

	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Rates)
	// subtotal 5000 < threshold: cheapest rate still costs money
	assert.Greater(t, resp.Rates[0].Price, int64(0))
	// cheapest first
	for i := 1; i < len(resp.Rates); i++ {
		assert.LessOrEqual(t, resp.Rates[i-1].Price, resp.Rates[i].Price)
	}
}

func TestShippingRates_FreeShippingOverThreshold(t *testing.T) {
	products := newFakeProductRepo(&model.Product{ID: "p1", Price: 5000, Weight: 200, Active: true})
	shipping := &fakeShippingClient{rates: []model.ShippingRate{
		{Carrier: "ups", Service: "express", ServiceName: "Express", Price: 1500, EstimatedDays: 2},
		{Carrier: "usps", Service: "ground", ServiceName: "Ground", Price: 650, EstimatedDays: 5},
	}}
	svc := NewQuoteService(shipping, nil, products, testFreeShippingThreshold, testDefaultWeight)

	resp := svc.ShippingRates(context.Background(),
		[]dto.RateItem{{ProductID: "p1", Quantity: 2}}, usAddress("CA"))

	require.True(t, resp.Success)
	require.Len(t, resp.Rates, 2)
	// subtotal 10000 >= 7500: cheapest rate zeroed, provider price retained
	assert.Equal(t, int64(0), resp.Rates[0].Price)
	assert.Equal(t, int64(650), resp.Rates[0].OriginalPrice)
	assert.Equal(t, int64(1500), resp.Rates[1].Price)
}

func TestShippingRates_ProviderErrorDegradesToEstimate(t *testing.T) {
	products := newFakeProductRepo(&model.Product{ID: "p1", Price: 5000, Active: true})
	shipping := &fakeShippingClient{err: fmt.Errorf("provider down")}
	svc := NewQuoteService(shipping, nil, products, testFreeShippingThreshold, testDefaultWeight)

	resp := svc.ShippingRates(context.Background(),
		[]dto.RateItem{{ProductID: "p1", Quantity: 1}}, usAddress("TX"))

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	assert.NotEmpty(t, resp.Rates) // estimate still usable
}

func TestTaxQuote_EstimateSevenPercentState(t *testing.T) {
	svc := NewQuoteService(nil, nil, newFakeProductRepo(), testFreeShippingThreshold, testDefaultWeight)

	resp := svc.TaxQuote(context.Background(),
		[]dto.TaxItem{{ID: "p1", Price: 5000, Quantity: 1}}, usAddress("IN"))

	require.True(t, resp.Success)
	assert.Equal(t, int64(350), resp.Tax) // $50 at 7%
	require.Len(t, resp.Breakdown, 1)
	assert.Equal(t, int64(350), resp.Breakdown[0].Tax)
}

func TestTaxQuote_NoTaxState(t *testing.T) {
	svc := NewQuoteService(nil, nil, newFakeProductRepo(), testFreeShippingThreshold, testDefaultWeight)

	resp := svc.TaxQuote(context.Background(),
		[]dto.TaxItem{{ID: "p1", Price: 5000, Quantity: 2}}, usAddress("OR"))

	require.True(t, resp.Success)
	assert.Equal(t, int64(0), resp.Tax)
}

func TestTaxQuote_ProviderResult(t *testing.T) {
	tax := &fakeTaxClient{calc: &client.TaxCalculation{
		TotalTax: 412,
		Lines:    []client.TaxLineResult{{ID: "p1", Tax: 412}},
	}}
	svc := NewQuoteService(nil, tax, newFakeProductRepo(), testFreeShippingThreshold, testDefaultWeight)

	resp := svc.TaxQuote(context.Background(),
		[]dto.TaxItem{{ID: "p1", Price: 5000, Quantity: 1}}, usAddress("CA"))

	require.True(t, resp.Success)
	assert.Equal(t, int64(412), resp.Tax)
}

func TestTaxQuote_ProviderErrorDegradesToEstimate(t *testing.T) {
	tax := &fakeTaxClient{err: fmt.Errorf("provider down")}
	svc := NewQuoteService(nil, tax, newFakeProductRepo(), testFreeShippingThreshold, testDefaultWeight)

	resp := svc.TaxQuote(context.Background(),
		[]dto.TaxItem{{ID: "p1", Price: 5000, Quantity: 1}}, usAddress("IN"))

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, int64(350), resp.Tax) // estimate still computed
}
