package enums

// PricingMode identifies which branch of the price calculation produced a
// breakdown. Resolution order is fixed, then synced, then dynamic.
type PricingMode string

const (
	PricingModeFixed   PricingMode = "fixed"
	PricingModeSynced  PricingMode = "synced"
	PricingModeDynamic PricingMode = "dynamic"
)
