// Package pricing implements the price calculation engine. A breakdown is a
// pure function of the mode-selected inputs plus two cached external values:
// the gold spot price and the pricing configuration.
package pricing

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/kanakjewels/kanak-backend/internal/pricingcfg"
	"github.com/kanakjewels/kanak-backend/internal/productspec"
	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/metrics"
	"github.com/kanakjewels/kanak-backend/pkg/types"
)

// Synced-mode making charges are deliberately hardcoded instead of read from
// the live config. The spreadsheet rows were authored against these rates, so
// recomputing with live rates would contradict the synced diamond price.
const (
	syncedMakingRateLight  = 950
	syncedMakingRateHeavy  = 700
	syncedMakingThreshold  = 2
	syncedMakingMultiplier = 1.75
)

// GoldPriceSource supplies the spot price per gram of 24K gold.
type GoldPriceSource interface {
	PricePerGram(ctx context.Context) float64
}

// ConfigSource supplies the live pricing configuration.
type ConfigSource interface {
	Config(ctx context.Context) pricingcfg.Config
}

// Engine computes price breakdowns.
type Engine struct {
	gold    GoldPriceSource
	cfg     ConfigSource
	logg    *logger.Logger
	metrics *metrics.PricingMetrics
}

// EngineDeps wires the price engine.
type EngineDeps struct {
	Gold    GoldPriceSource
	Config  ConfigSource
	Logger  *logger.Logger
	Metrics *metrics.PricingMetrics
}

// NewEngine builds the price engine.
func NewEngine(deps EngineDeps) (*Engine, error) {
	if deps.Gold == nil {
		return nil, fmt.Errorf("pricing: gold price source is required")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("pricing: config source is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("pricing: logger is required")
	}
	return &Engine{
		gold:    deps.Gold,
		cfg:     deps.Config,
		logg:    deps.Logger,
		metrics: deps.Metrics,
	}, nil
}

// Calculate resolves the pricing mode for the input and produces a breakdown.
// A synced record whose cells fail to parse falls through to the dynamic
// calculation instead of failing the request; the only terminal error is the
// complete absence of usable input.
func (e *Engine) Calculate(ctx context.Context, input Input) (types.PriceBreakdown, error) {
	ctx = e.logg.WithProductHandle(ctx, input.ProductHandle)
	ctx = e.logg.WithKarat(ctx, string(input.Karat))

	mode, ok := ResolveMode(input)
	if !ok {
		return types.PriceBreakdown{}, pkgerrors.New(pkgerrors.CodePriceUnavailable, "no price data available")
	}

	start := time.Now()
	var breakdown types.PriceBreakdown
	var err error
	switch mode {
	case enums.PricingModeFixed:
		breakdown, err = e.computeFixed(input.Record, input.Karat)
		if err != nil {
			// A fixed record with an unparseable price cell behaves like a
			// synced parse failure: degrade through the remaining modes.
			e.logg.Warn(ctx, fmt.Sprintf("fixed price record unusable, degrading: %v", err))
			breakdown, err = e.degradeFromFixed(ctx, input)
		}
	case enums.PricingModeSynced:
		breakdown, err = e.computeSynced(ctx, input.Record, input.Karat)
		if err != nil {
			e.logg.Warn(ctx, fmt.Sprintf("synced price record unusable, falling back to dynamic: %v", err))
			breakdown, err = e.computeDynamic(ctx, input)
		}
	case enums.PricingModeDynamic:
		breakdown, err = e.computeDynamic(ctx, input)
	}
	if err != nil {
		return types.PriceBreakdown{}, err
	}

	e.metrics.ObserveCalculation(string(breakdown.Mode), time.Since(start))
	return breakdown, nil
}

func (e *Engine) degradeFromFixed(ctx context.Context, input Input) (types.PriceBreakdown, error) {
	if syncedEligible(input.Record, input.Karat) {
		breakdown, err := e.computeSynced(ctx, input.Record, input.Karat)
		if err == nil {
			return breakdown, nil
		}
		e.logg.Warn(ctx, fmt.Sprintf("synced price record unusable, falling back to dynamic: %v", err))
	}
	return e.computeDynamic(ctx, input)
}

// computeFixed reads every component straight from the stored record. It
// touches neither the gold price provider nor the live configuration.
func (e *Engine) computeFixed(record *models.PricingRecord, karat enums.Karat) (types.PriceBreakdown, error) {
	total, err := parseCellFloat(fixedPriceCell(record, karat))
	if err != nil {
		return types.PriceBreakdown{}, fmt.Errorf("fixed price for %s: %w", karat, err)
	}

	// The remaining components are display-only in this mode; missing cells
	// read as zero rather than invalidating the stored total.
	diamond := parseCellFloatOrZero(record.DiamondPrice)
	gold := parseCellFloatOrZero(record.GoldPrice14K)
	making := parseCellFloatOrZero(record.MakingCharges)
	gst := parseCellFloatOrZero(record.GST)

	totalInt := roundCurrency(total)
	gstInt := roundCurrency(gst)
	return types.PriceBreakdown{
		DiamondPrice: roundCurrency(diamond),
		GoldPrice:    roundCurrency(gold),
		MakingCharge: roundCurrency(making),
		Subtotal:     totalInt - gstInt,
		GST:          gstInt,
		TotalPrice:   totalInt,
		Mode:         enums.PricingModeFixed,
	}, nil
}

// computeSynced prices from the spreadsheet row: the diamond price is taken
// as-is, gold is live spot scaled by karat purity, making charges use the
// hardcoded synced rates, and only the GST rate comes from live config.
func (e *Engine) computeSynced(ctx context.Context, record *models.PricingRecord, karat enums.Karat) (types.PriceBreakdown, error) {
	diamond, err := parseCellFloat(record.DiamondPrice)
	if err != nil {
		return types.PriceBreakdown{}, fmt.Errorf("synced diamond price: %w", err)
	}
	weight, err := parseCellFloat(weightCell(record, karat))
	if err != nil {
		return types.PriceBreakdown{}, fmt.Errorf("synced gold weight for %s: %w", karat, err)
	}
	if weight < 0 {
		return types.PriceBreakdown{}, fmt.Errorf("synced gold weight for %s is negative: %v", karat, weight)
	}

	spot := e.gold.PricePerGram(ctx)
	goldPrice := roundCurrency(spot * karat.Purity() * weight)

	makingRate := float64(syncedMakingRateLight)
	if weight >= syncedMakingThreshold {
		makingRate = syncedMakingRateHeavy
	}
	making := roundCurrency(weight * makingRate * syncedMakingMultiplier)

	diamondInt := roundCurrency(diamond)
	subtotal := diamondInt + goldPrice + making
	gst := roundCurrency(float64(subtotal) * e.cfg.Config(ctx).GSTRate)

	return types.PriceBreakdown{
		DiamondPrice: diamondInt,
		GoldPrice:    goldPrice,
		MakingCharge: making,
		Subtotal:     subtotal,
		GST:          gst,
		TotalPrice:   subtotal + gst,
		Mode:         enums.PricingModeSynced,
	}, nil
}

// computeDynamic prices from the extracted specification and the live
// configuration. Every stage is rounded before the next consumes it.
func (e *Engine) computeDynamic(ctx context.Context, input Input) (types.PriceBreakdown, error) {
	spec := productspec.Extract(input.DescriptionHTML, input.Karat)
	cfg := e.cfg.Config(ctx)

	diamond := e.diamondTotal(cfg, spec.Diamonds)

	spot := e.gold.PricePerGram(ctx)
	goldPrice := roundCurrency(spot * input.Karat.Purity() * spec.GoldWeightGrams)

	makingRate := cfg.Making.RateBelowThreshold
	if spec.GoldWeightGrams >= cfg.Making.ThresholdGrams {
		makingRate = cfg.Making.RateAboveThreshold
	}
	making := roundCurrency(spec.GoldWeightGrams * makingRate * cfg.Making.Multiplier)

	subtotal := diamond + goldPrice + making
	gst := roundCurrency(float64(subtotal) * cfg.GSTRate)

	return types.PriceBreakdown{
		DiamondPrice: diamond,
		GoldPrice:    goldPrice,
		MakingCharge: making,
		Subtotal:     subtotal,
		GST:          gst,
		TotalPrice:   subtotal + gst,
		Mode:         enums.PricingModeDynamic,
	}, nil
}

// diamondTotal sums the tiered per-stone contributions across every line and
// adds the two flat base fees once. A weight outside every rate range prices
// that line's stones at zero.
func (e *Engine) diamondTotal(cfg pricingcfg.Config, lines []productspec.DiamondLine) int {
	if len(lines) == 0 {
		return 0
	}
	total := 0
	for _, line := range lines {
		if line.Count <= 0 || line.PerStoneWeightCt <= 0 {
			continue
		}
		base := cfg.BaseRate(line.Shape, line.PerStoneWeightCt)
		tier := cfg.TierFor(line.PerStoneWeightCt)
		perStone := roundCurrency(base*tier.Multiplier) + roundCurrency(tier.FlatAddition)
		total += perStone * line.Count
	}
	return roundCurrency(float64(total) + cfg.BaseFee1 + cfg.BaseFee2)
}

func roundCurrency(value float64) int {
	return int(math.Round(value))
}

func parseCellFloat(cell *string) (float64, error) {
	raw := cellValue(cell)
	if raw == "" {
		return 0, fmt.Errorf("empty cell")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable cell %q", raw)
	}
	return value, nil
}

func parseCellFloatOrZero(cell *string) float64 {
	value, err := parseCellFloat(cell)
	if err != nil {
		return 0
	}
	return value
}
