package main

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"time"
)

// priceStore is the slice of the Shopify client the price updater needs.
type priceStore interface {
	ProductsWithTag(tag string) ([]Product, error)
	UpdateVariantPrice(variantID int64, price string) error
}

// PriceUpdater multiplies every variant price of tagged products by a fixed
// factor, one variant at a time with pacing between requests.
type PriceUpdater struct {
	store  priceStore
	pacing time.Duration
	sleep  func(time.Duration)
}

// NewPriceUpdater creates a price updater with the given inter-request
// pacing.
func NewPriceUpdater(store priceStore, pacing time.Duration) *PriceUpdater {
	return &PriceUpdater{store: store, pacing: pacing, sleep: time.Sleep}
}

// Run applies the multiplier to every variant of every product carrying tag.
// Returns how many variants were updated. A listing failure aborts; a
// per-variant failure is logged and the batch continues.
func (u *PriceUpdater) Run(tag string, multiplier float64) (int, error) {
	if multiplier <= 0 {
		return 0, fmt.Errorf("multiplier must be positive, got %g", multiplier)
	}

	products, err := u.store.ProductsWithTag(tag)
	if err != nil {
		return 0, fmt.Errorf("listing products with tag %q: %w", tag, err)
	}
	log.Printf("Found %d products with tag %q.", len(products), tag)

	updated := 0
	for _, product := range products {
		for _, variant := range product.Variants {
			oldPrice, err := strconv.ParseFloat(variant.Price, 64)
			if err != nil {
				log.Printf("⚠ Skipping variant %d of product %d: bad price %q", variant.ID, product.ID, variant.Price)
				continue
			}

			newPrice := scalePrice(oldPrice, multiplier)
			if updated > 0 {
				u.sleep(u.pacing)
			}
			if err := u.store.UpdateVariantPrice(variant.ID, newPrice); err != nil {
				log.Printf("✗ %v", err)
				continue
			}
			updated++
			log.Printf("✓ Updated product %d variant %d price: %s -> %s", product.ID, variant.ID, variant.Price, newPrice)
		}
	}

	return updated, nil
}

// scalePrice multiplies a price and renders it with two decimals, rounding
// half away from zero the way storefront prices expect.
func scalePrice(price, multiplier float64) string {
	scaled := math.Round(price*multiplier*100) / 100
	return strconv.FormatFloat(scaled, 'f', 2, 64)
}
