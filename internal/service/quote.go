package service

import (
	"context"
	"log/slog"
	"sort"

	"storefront-api/internal/client"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"

	"github.com/shopspring/decimal"
)

// Flat per-state tax estimate, percent. Used whenever the tax provider is
// unconfigured or errors; unknown states get the default rate.
var stateTaxRates = map[string]float64{
	"CA": 7.25,
	"TX": 6.25,
	"NY": 8.00,
	"FL": 6.00,
	"WA": 6.50,
	"IL": 6.25,
	"PA": 6.00,
	"IN": 7.00,
	"OH": 5.75,
	"GA": 4.00,
	"OR": 0.00,
	"MT": 0.00,
	"NH": 0.00,
	"DE": 0.00,
}

const defaultTaxRate = 7.00

// QuoteService answers checkout step two. Neither operation can hard-fail:
// provider errors degrade to the local estimate and Success only reports
// the provider outcome.
type QuoteService interface {
	ShippingRates(ctx context.Context, items []dto.RateItem, addr model.ShippingAddress) *dto.ShippingRatesResponse
	TaxQuote(ctx context.Context, items []dto.TaxItem, addr model.ShippingAddress) *dto.TaxResponse
}

type quoteServiceImpl struct {
	shippingClient client.ShippingClient // nil when unconfigured
	taxClient      client.TaxClient      // nil when unconfigured
	productRepo    repository.ProductRepository

	freeShippingThreshold int64
	defaultItemWeight     int
}

func NewQuoteService(
	shippingClient client.ShippingClient,
	taxClient client.TaxClient,
	productRepo repository.ProductRepository,
	freeShippingThreshold int64,
	defaultItemWeight int,
) QuoteService {
	return &quoteServiceImpl{
		shippingClient:        shippingClient,
		taxClient:             taxClient,
		productRepo:           productRepo,
		freeShippingThreshold: freeShippingThreshold,
		defaultItemWeight:     defaultItemWeight,
	}
}

func (s *quoteServiceImpl) ShippingRates(ctx context.Context, items []dto.RateItem, addr model.ShippingAddress) *dto.ShippingRatesResponse {
	parcels, subtotal := s.resolveItems(ctx, items)

	resp := &dto.ShippingRatesResponse{Success: true}

	if s.shippingClient != nil {
		rates, err := s.shippingClient.GetRates(ctx, addr, parcels)
		if err == nil && len(rates) > 0 {
			resp.Rates = rates
		} else if err != nil {
			slog.Warn("shipping provider failed, using estimate", "error", err)
			resp.Success = false
			resp.Error = err.Error()
		}
	}
	if len(resp.Rates) == 0 {
		resp.Rates = estimateRates(addr, totalWeight(parcels))
	}

	sort.Slice(resp.Rates, func(i, j int) bool {
		return resp.Rates[i].Price < resp.Rates[j].Price
	})
	applyFreeShipping(resp.Rates, subtotal, s.freeShippingThreshold)

	return resp
}

func (s *quoteServiceImpl) TaxQuote(ctx context.Context, items []dto.TaxItem, addr model.ShippingAddress) *dto.TaxResponse {
	if s.taxClient != nil {
		lines := make([]client.TaxLineItem, len(items))
		for i, item := range items {
			lines[i] = client.TaxLineItem{
				ID:       item.ID,
				Amount:   item.Price,
				Quantity: item.Quantity,
				Category: item.Category,
			}
		}

		calc, err := s.taxClient.Calculate(ctx, lines, addr)
		if err == nil {
			resp := &dto.TaxResponse{Success: true, Tax: calc.TotalTax}
			for _, line := range calc.Lines {
				resp.Breakdown = append(resp.Breakdown, dto.TaxLine{ItemID: line.ID, Tax: line.Tax})
			}
			return resp
		}

		slog.Warn("tax provider failed, using estimate", "error", err)
		resp := estimateTax(items, addr)
		resp.Success = false
		resp.Error = err.Error()
		return resp
	}

	return estimateTax(items, addr)
}

// resolveItems fills in catalog prices and weights for rate items, falling
// back to the assumed flat per-unit weight when neither the request nor the
// catalog knows one.
func (s *quoteServiceImpl) resolveItems(ctx context.Context, items []dto.RateItem) ([]client.Parcel, int64) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductID != "" {
			ids = append(ids, item.ProductID)
		}
	}

	catalog := make(map[string]*model.Product)
	if len(ids) > 0 && s.productRepo != nil {
		products, err := s.productRepo.FindMany(ctx, ids)
		if err != nil {
			slog.Warn("catalog lookup failed during quote", "error", err)
		}
		for _, p := range products {
			catalog[p.ID] = p
		}
	}

	var parcels []client.Parcel
	var subtotal int64
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		weight := item.Weight
		product := catalog[item.ProductID]
		if weight == 0 && product != nil {
			weight = product.Weight
		}
		if weight == 0 {
			weight = s.defaultItemWeight
		}
		if product != nil {
			subtotal += product.Price * int64(qty)
		}

		for i := 0; i < qty; i++ {
			parcels = append(parcels, client.Parcel{Weight: weight})
		}
	}

	return parcels, subtotal
}

func totalWeight(parcels []client.Parcel) int {
	var total int
	for _, p := range parcels {
		total += p.Weight
	}
	return total
}

// applyFreeShipping zeroes the cheapest rate when the subtotal clears the
// threshold, keeping the provider price for struck-through display. Rates
// must already be sorted cheapest first.
func applyFreeShipping(rates []model.ShippingRate, subtotal, threshold int64) {
	if len(rates) == 0 || subtotal < threshold {
		return
	}
	rates[0].OriginalPrice = rates[0].Price
	rates[0].Price = 0
}

// estimateRates is the deterministic zone-table fallback: a ground and an
// express option priced by destination zone plus a weight surcharge.
func estimateRates(addr model.ShippingAddress, weightGrams int) []model.ShippingRate {
	groundBase, expressBase := int64(599), int64(1599)
	groundDays, expressDays := 5, 2

	switch addr.Country {
	case "", "US":
		// domestic
	case "CA", "MX":
		groundBase, expressBase = 1299, 2999
		groundDays, expressDays = 8, 4
	default:
		groundBase, expressBase = 2499, 4999
		groundDays, expressDays = 14, 7
	}

	// 50 cents per started kilogram
	surcharge := int64((weightGrams + 999) / 1000 * 50)

	return []model.ShippingRate{
		{
			Carrier:       "estimate",
			Service:       "ground",
			ServiceName:   "Standard Shipping",
			Price:         groundBase + surcharge,
			EstimatedDays: groundDays,
		},
		{
			Carrier:       "estimate",
			Service:       "express",
			ServiceName:   "Express Shipping",
			Price:         expressBase + surcharge,
			EstimatedDays: expressDays,
			Guaranteed:    true,
		},
	}
}

// estimateTax applies the flat per-state percentage, rounding per line.
func estimateTax(items []dto.TaxItem, addr model.ShippingAddress) *dto.TaxResponse {
	rate, ok := stateTaxRates[addr.State]
	if !ok {
		rate = defaultTaxRate
	}
	ratio := decimal.NewFromFloat(rate).Div(decimal.NewFromInt(100))

	resp := &dto.TaxResponse{Success: true}
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		line := decimal.NewFromInt(item.Price * int64(qty))
		tax := line.Mul(ratio).Round(0).IntPart()

		resp.Tax += tax
		resp.Breakdown = append(resp.Breakdown, dto.TaxLine{ItemID: item.ID, Tax: tax})
	}
	return resp
}
