package booking

import "fmt"

// PricingStrategy defines the interface for calculating booking prices.
type PricingStrategy interface {
	// Calculate returns the total price in cents for the given parameters.
	Calculate(params PricingParams) (int64, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	PricePerNightCents int64
	Rooms              int
	Nights             int
}

// NightlyPricingStrategy charges the room type's nightly rate per room per night.
type NightlyPricingStrategy struct{}

// NewNightlyPricingStrategy creates a new NightlyPricingStrategy.
func NewNightlyPricingStrategy() *NightlyPricingStrategy {
	return &NightlyPricingStrategy{}
}

// Calculate computes pricePerNight × rooms × nights.
func (s *NightlyPricingStrategy) Calculate(params PricingParams) (int64, error) {
	if params.PricePerNightCents < 0 {
		return 0, fmt.Errorf("nightly rate cannot be negative")
	}
	if params.Rooms < 1 || params.Nights < 1 {
		return 0, fmt.Errorf("rooms and nights must be positive")
	}
	return params.PricePerNightCents * int64(params.Rooms) * int64(params.Nights), nil
}
