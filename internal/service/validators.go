package service

// DiscountedPrice applies a percentage discount to a price in cents, rounding
// toward zero. Discounts outside [0, 100] are clamped.
func DiscountedPrice(priceCents, discountPercent int64) int64 {
	if discountPercent <= 0 {
		return priceCents
	}
	if discountPercent >= 100 {
		return 0
	}
	return priceCents - priceCents*discountPercent/100
}
