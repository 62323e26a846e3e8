package pricingcfg

import (
	"strings"
)

// MarginTier applies a multiplier and flat addition to a diamond's base rate,
// bracketed by per-stone weight. MaxCarat nil means open-ended.
type MarginTier struct {
	MinCarat     float64  `json:"min_carat"`
	MaxCarat     *float64 `json:"max_carat,omitempty"`
	Multiplier   float64  `json:"multiplier"`
	FlatAddition float64  `json:"flat_addition"`
}

// MakingChargeRule prices labor per gram of gold with a weight-based rate and
// a final multiplier. RateBelowThreshold applies to pieces lighter than
// ThresholdGrams, RateAboveThreshold to the rest (threshold inclusive).
type MakingChargeRule struct {
	RateBelowThreshold float64 `json:"rate_below_threshold"`
	RateAboveThreshold float64 `json:"rate_above_threshold"`
	ThresholdGrams     float64 `json:"threshold_grams"`
	Multiplier         float64 `json:"multiplier"`
}

// RateRange maps a per-stone weight bracket to a base rate in whole rupees.
// Brackets are inclusive-lower, exclusive-upper.
type RateRange struct {
	MinCarat     float64 `json:"min_carat"`
	MaxCarat     float64 `json:"max_carat"`
	RatePerStone float64 `json:"rate_per_stone"`
}

// Config is the tunable rule set consulted by the price engine. A versioned
// copy lives in the pricing_configs table; Default() is served whenever that
// row cannot be fetched.
type Config struct {
	Tiers     []MarginTier           `json:"tiers"`
	Making    MakingChargeRule       `json:"making"`
	GSTRate   float64                `json:"gst_rate"`
	BaseFee1  float64                `json:"base_fee_1"`
	BaseFee2  float64                `json:"base_fee_2"`
	RateTable map[string][]RateRange `json:"rate_table"`
}

func caratPtr(v float64) *float64 { return &v }

// Default returns the hardcoded fallback configuration. These values define
// the observable behavior when the config store is unreachable, so they must
// not drift without a matching fixture update.
func Default() Config {
	return Config{
		Tiers: []MarginTier{
			{MinCarat: 0, MaxCarat: caratPtr(1), Multiplier: 2.2, FlatAddition: 900},
			{MinCarat: 1, MaxCarat: caratPtr(2), Multiplier: 2.7},
			{MinCarat: 2, MaxCarat: caratPtr(3), Multiplier: 2.8},
			{MinCarat: 3, MaxCarat: caratPtr(4), Multiplier: 2.9},
			{MinCarat: 4, MaxCarat: caratPtr(5), Multiplier: 3.0},
			{MinCarat: 5, Multiplier: 3.2},
		},
		Making: MakingChargeRule{
			RateBelowThreshold: 950,
			RateAboveThreshold: 700,
			ThresholdGrams:     2,
			Multiplier:         1.75,
		},
		GSTRate:  0.03,
		BaseFee1: 500,
		BaseFee2: 350,
		RateTable: map[string][]RateRange{
			"round": {
				{MinCarat: 0.01, MaxCarat: 0.10, RatePerStone: 3500},
				{MinCarat: 0.10, MaxCarat: 0.25, RatePerStone: 9000},
				{MinCarat: 0.25, MaxCarat: 0.50, RatePerStone: 19500},
				{MinCarat: 0.50, MaxCarat: 1.00, RatePerStone: 36000},
				{MinCarat: 1.00, MaxCarat: 2.00, RatePerStone: 92000},
				{MinCarat: 2.00, MaxCarat: 5.00, RatePerStone: 225000},
			},
			"princess": {
				{MinCarat: 0.01, MaxCarat: 0.10, RatePerStone: 3200},
				{MinCarat: 0.10, MaxCarat: 0.25, RatePerStone: 8400},
				{MinCarat: 0.25, MaxCarat: 0.50, RatePerStone: 18000},
				{MinCarat: 0.50, MaxCarat: 1.00, RatePerStone: 33500},
				{MinCarat: 1.00, MaxCarat: 2.00, RatePerStone: 86000},
			},
			"oval": {
				{MinCarat: 0.01, MaxCarat: 0.10, RatePerStone: 3300},
				{MinCarat: 0.10, MaxCarat: 0.25, RatePerStone: 8700},
				{MinCarat: 0.25, MaxCarat: 0.50, RatePerStone: 18800},
				{MinCarat: 0.50, MaxCarat: 1.00, RatePerStone: 34800},
				{MinCarat: 1.00, MaxCarat: 2.00, RatePerStone: 88500},
			},
			"pear": {
				{MinCarat: 0.01, MaxCarat: 0.10, RatePerStone: 3300},
				{MinCarat: 0.10, MaxCarat: 0.25, RatePerStone: 8600},
				{MinCarat: 0.25, MaxCarat: 0.50, RatePerStone: 18500},
				{MinCarat: 0.50, MaxCarat: 1.00, RatePerStone: 34200},
			},
			"marquise": {
				{MinCarat: 0.01, MaxCarat: 0.10, RatePerStone: 3400},
				{MinCarat: 0.10, MaxCarat: 0.25, RatePerStone: 8800},
				{MinCarat: 0.25, MaxCarat: 0.50, RatePerStone: 19000},
				{MinCarat: 0.50, MaxCarat: 1.00, RatePerStone: 35000},
			},
			"cushion": {
				{MinCarat: 0.01, MaxCarat: 0.10, RatePerStone: 3250},
				{MinCarat: 0.10, MaxCarat: 0.25, RatePerStone: 8500},
				{MinCarat: 0.25, MaxCarat: 0.50, RatePerStone: 18200},
				{MinCarat: 0.50, MaxCarat: 1.00, RatePerStone: 33800},
			},
			"emerald": {
				{MinCarat: 0.01, MaxCarat: 0.10, RatePerStone: 3600},
				{MinCarat: 0.10, MaxCarat: 0.25, RatePerStone: 9200},
				{MinCarat: 0.25, MaxCarat: 0.50, RatePerStone: 19800},
				{MinCarat: 0.50, MaxCarat: 1.00, RatePerStone: 36500},
			},
		},
	}
}

// TierFor resolves the margin tier for a per-stone weight. Brackets are
// inclusive-lower, exclusive-upper, so a 1.0ct stone lands in the 1-2ct tier.
// Weights beyond every defined bracket fall back to the tier starting at 1ct,
// a compatibility quirk kept from the original rule set.
func (c Config) TierFor(weightCt float64) MarginTier {
	for _, tier := range c.Tiers {
		if weightCt < tier.MinCarat {
			continue
		}
		if tier.MaxCarat == nil || weightCt < *tier.MaxCarat {
			return tier
		}
	}
	for _, tier := range c.Tiers {
		if tier.MinCarat == 1 {
			return tier
		}
	}
	if len(c.Tiers) > 0 {
		return c.Tiers[0]
	}
	return MarginTier{Multiplier: 1}
}

// BaseRate looks up the base rate for a shape and per-stone weight. A weight
// outside every defined range prices at zero; that is deliberate, not clamped.
func (c Config) BaseRate(shape string, weightCt float64) float64 {
	ranges, ok := c.RateTable[normalizeShape(shape)]
	if !ok {
		return 0
	}
	for _, r := range ranges {
		if weightCt >= r.MinCarat && weightCt < r.MaxCarat {
			return r.RatePerStone
		}
	}
	return 0
}

func normalizeShape(shape string) string {
	return strings.ToLower(strings.TrimSpace(shape))
}
