package pricing

import (
	"strings"

	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
)

// Input carries everything a single price calculation may draw on. Record and
// DescriptionHTML are both optional; ResolveMode decides which path applies.
type Input struct {
	ProductHandle   string
	Karat           enums.Karat
	Record          *models.PricingRecord
	DescriptionHTML string
}

// ResolveMode is a pure function of the input's shape. Precedence is strict:
// fixed beats synced beats dynamic. It reports false when no mode applies,
// which is the only unpriceable case.
func ResolveMode(input Input) (enums.PricingMode, bool) {
	if fixedEligible(input.Record, input.Karat) {
		return enums.PricingModeFixed, true
	}
	if syncedEligible(input.Record, input.Karat) {
		return enums.PricingModeSynced, true
	}
	if strings.TrimSpace(input.DescriptionHTML) != "" {
		return enums.PricingModeDynamic, true
	}
	return "", false
}

// fixedEligible requires the record to declare fixed mode and carry a stored
// price for the selected karat.
func fixedEligible(record *models.PricingRecord, karat enums.Karat) bool {
	if record == nil {
		return false
	}
	if cellValue(record.PricingMode) != string(enums.PricingModeFixed) {
		return false
	}
	return cellValue(fixedPriceCell(record, karat)) != ""
}

// syncedEligible requires a synced diamond price and a gold weight for the
// selected karat.
func syncedEligible(record *models.PricingRecord, karat enums.Karat) bool {
	if record == nil {
		return false
	}
	if cellValue(record.DiamondPrice) == "" {
		return false
	}
	return cellValue(weightCell(record, karat)) != ""
}

func fixedPriceCell(record *models.PricingRecord, karat enums.Karat) *string {
	switch karat {
	case enums.Karat10:
		return record.Price10K
	case enums.Karat14:
		return record.Price14K
	case enums.Karat18:
		return record.Price18K
	}
	return nil
}

func weightCell(record *models.PricingRecord, karat enums.Karat) *string {
	switch karat {
	case enums.Karat10:
		return record.Weight10K
	case enums.Karat14:
		return record.Weight14K
	case enums.Karat18:
		return record.Weight18K
	}
	return nil
}

func cellValue(cell *string) string {
	if cell == nil {
		return ""
	}
	return strings.TrimSpace(*cell)
}
