package types

import "github.com/kanakjewels/kanak-backend/pkg/enums"

// PriceBreakdown is the engine's output: every figure is a whole-rupee amount,
// rounded at the stage that produced it. Computed fresh per request and never
// persisted by the engine itself; cart lines snapshot it as a JSON column.
type PriceBreakdown struct {
	DiamondPrice int               `json:"diamond_price"`
	GoldPrice    int               `json:"gold_price"`
	MakingCharge int               `json:"making_charge"`
	Subtotal     int               `json:"subtotal"`
	GST          int               `json:"gst"`
	TotalPrice   int               `json:"total_price"`
	Mode         enums.PricingMode `json:"mode"`
}
