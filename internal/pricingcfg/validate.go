package pricingcfg

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate checks a config for internal consistency. All problems are
// collected so an admin sees the full list in one round trip.
func Validate(cfg Config) error {
	var err error

	if len(cfg.Tiers) == 0 {
		err = multierr.Append(err, fmt.Errorf("tiers: at least one margin tier is required"))
	}
	for i, tier := range cfg.Tiers {
		if tier.Multiplier <= 0 {
			err = multierr.Append(err, fmt.Errorf("tiers[%d]: multiplier must be positive, got %v", i, tier.Multiplier))
		}
		if tier.FlatAddition < 0 {
			err = multierr.Append(err, fmt.Errorf("tiers[%d]: flat addition must not be negative, got %v", i, tier.FlatAddition))
		}
		if tier.MinCarat < 0 {
			err = multierr.Append(err, fmt.Errorf("tiers[%d]: min carat must not be negative, got %v", i, tier.MinCarat))
		}
		if tier.MaxCarat != nil && *tier.MaxCarat <= tier.MinCarat {
			err = multierr.Append(err, fmt.Errorf("tiers[%d]: max carat %v must exceed min carat %v", i, *tier.MaxCarat, tier.MinCarat))
		}
		if i > 0 && tier.MinCarat < cfg.Tiers[i-1].MinCarat {
			err = multierr.Append(err, fmt.Errorf("tiers[%d]: tiers must be ordered by min carat", i))
		}
	}

	if cfg.Making.RateBelowThreshold <= 0 {
		err = multierr.Append(err, fmt.Errorf("making: rate below threshold must be positive, got %v", cfg.Making.RateBelowThreshold))
	}
	if cfg.Making.RateAboveThreshold <= 0 {
		err = multierr.Append(err, fmt.Errorf("making: rate above threshold must be positive, got %v", cfg.Making.RateAboveThreshold))
	}
	if cfg.Making.ThresholdGrams <= 0 {
		err = multierr.Append(err, fmt.Errorf("making: threshold grams must be positive, got %v", cfg.Making.ThresholdGrams))
	}
	if cfg.Making.Multiplier <= 0 {
		err = multierr.Append(err, fmt.Errorf("making: multiplier must be positive, got %v", cfg.Making.Multiplier))
	}

	if cfg.GSTRate < 0 || cfg.GSTRate >= 1 {
		err = multierr.Append(err, fmt.Errorf("gst_rate: must be a fraction in [0, 1), got %v", cfg.GSTRate))
	}
	if cfg.BaseFee1 < 0 {
		err = multierr.Append(err, fmt.Errorf("base_fee_1: must not be negative, got %v", cfg.BaseFee1))
	}
	if cfg.BaseFee2 < 0 {
		err = multierr.Append(err, fmt.Errorf("base_fee_2: must not be negative, got %v", cfg.BaseFee2))
	}

	for shape, ranges := range cfg.RateTable {
		if shape != normalizeShape(shape) {
			err = multierr.Append(err, fmt.Errorf("rate_table[%q]: shape keys must be lowercase and trimmed", shape))
		}
		for i, r := range ranges {
			if r.MaxCarat <= r.MinCarat {
				err = multierr.Append(err, fmt.Errorf("rate_table[%q][%d]: max carat %v must exceed min carat %v", shape, i, r.MaxCarat, r.MinCarat))
			}
			if r.RatePerStone < 0 {
				err = multierr.Append(err, fmt.Errorf("rate_table[%q][%d]: rate must not be negative, got %v", shape, i, r.RatePerStone))
			}
			if i > 0 && r.MinCarat < ranges[i-1].MaxCarat {
				err = multierr.Append(err, fmt.Errorf("rate_table[%q][%d]: ranges must not overlap", shape, i))
			}
		}
	}

	return err
}
