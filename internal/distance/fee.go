package distance

import (
	"math"

	"ordersheet/internal/config"
)

// QuoteFee prices a delivery: the base fee covers the free radius, every
// mile past it is billed at the per-mile rate.
func QuoteFee(cfg config.Config, miles float64) float64 {
	billable := miles - cfg.DeliveryFreeMiles
	if billable < 0 {
		billable = 0
	}
	return round2(cfg.DeliveryBaseFee + cfg.DeliveryPerMile*billable)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
