package fees

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Schedule is the platform's fee policy. All amounts are whole currency units.
type Schedule struct {
	RatePerKm       int64
	MinShippingFee  int64
	BuyerServiceFee int64
	DriverPickupFee int64
	SellerFeeRate   decimal.Decimal
	MinWithdrawal   int64
	MinTopUp        int64
}

// DefaultSchedule returns the fee policy the platform launched with.
func DefaultSchedule() Schedule {
	return Schedule{
		RatePerKm:       2500,
		MinShippingFee:  5000,
		BuyerServiceFee: 2000,
		DriverPickupFee: 1000,
		SellerFeeRate:   decimal.NewFromFloat(0.10),
		MinWithdrawal:   10000,
		MinTopUp:        10000,
	}
}

// Validate checks that the schedule can be used to price orders.
func (s Schedule) Validate() error {
	amounts := map[string]int64{
		"rate per km":       s.RatePerKm,
		"min shipping fee":  s.MinShippingFee,
		"buyer service fee": s.BuyerServiceFee,
		"driver pickup fee": s.DriverPickupFee,
		"min withdrawal":    s.MinWithdrawal,
		"min top-up":        s.MinTopUp,
	}
	for name, v := range amounts {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, v)
		}
	}
	// Either fee keeps every checkout total positive, even for free products.
	if s.MinShippingFee == 0 && s.BuyerServiceFee == 0 {
		return errors.New("min shipping fee and buyer service fee cannot both be zero")
	}
	if s.SellerFeeRate.IsNegative() || s.SellerFeeRate.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("seller fee rate must be between 0 and 1")
	}
	return nil
}

// ShippingFee prices a delivery of distanceKm at the schedule's rate and floor.
func (s Schedule) ShippingFee(distanceKm float64) int64 {
	return ShippingFee(distanceKm, s.RatePerKm, s.MinShippingFee)
}

// SaleFee is the platform's commission on an item subtotal, rounded down.
func (s Schedule) SaleFee(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(s.SellerFeeRate).Floor().IntPart()
}

// ShippingFee returns max(minimum, ceil(distanceKm * ratePerKm)).
// The product is computed in decimal so that a distance such as 4.3 km is not priced one unit high.
func ShippingFee(distanceKm float64, ratePerKm, minimum int64) int64 {
	if math.IsNaN(distanceKm) || distanceKm < 0 {
		panic(fmt.Sprintf("fees: negative distance %v", distanceKm))
	}
	fee := decimal.NewFromFloat(distanceKm).Mul(decimal.NewFromInt(ratePerKm)).Ceil().IntPart()
	if fee < minimum {
		return minimum
	}
	return fee
}

// Split divides total into n shares using floor division and hands the remainder
// one unit at a time to the earliest shares, so the shares always sum to total.
func Split(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	shares := make([]int64, n)
	base := total / int64(n)
	rem := total % int64(n)
	for i := range shares {
		shares[i] = base
		if int64(i) < rem {
			shares[i]++
		}
	}
	return shares
}
