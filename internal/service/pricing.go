package service

import (
	"github.com/alimikegami/e-commerce/storefront-service/config"
	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	"github.com/shopspring/decimal"
)

type PriceBreakdown struct {
	ItemsPrice    float64
	TaxPrice      float64
	ShippingPrice float64
	TotalPrice    float64
}

type PriceCalculator struct {
	taxRate               decimal.Decimal
	shippingPrice         decimal.Decimal
	freeShippingThreshold decimal.Decimal
}

func CreatePriceCalculator(conf config.PricingConfig) PriceCalculator {
	return PriceCalculator{
		taxRate:               conf.TaxRate,
		shippingPrice:         conf.ShippingPrice,
		freeShippingThreshold: conf.FreeShippingThreshold,
	}
}

// Calculate prices the snapshot line items. Every amount is rounded to cents
// and the total is the sum of the rounded parts.
func (c PriceCalculator) Calculate(items []domain.OrderItem) PriceBreakdown {
	itemsPrice := decimal.Zero
	for _, item := range items {
		itemsPrice = itemsPrice.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	itemsPrice = itemsPrice.Round(2)

	shipping := c.shippingPrice.Round(2)
	if itemsPrice.GreaterThanOrEqual(c.freeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := itemsPrice.Mul(c.taxRate).Round(2)
	total := itemsPrice.Add(shipping).Add(tax)

	return PriceBreakdown{
		ItemsPrice:    itemsPrice.InexactFloat64(),
		TaxPrice:      tax.InexactFloat64(),
		ShippingPrice: shipping.InexactFloat64(),
		TotalPrice:    total.InexactFloat64(),
	}
}
