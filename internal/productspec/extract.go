// Package productspec parses a product's semi-structured description markup
// into a normalized diamond list and a gold weight for the chosen karat.
package productspec

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kanakjewels/kanak-backend/pkg/enums"
)

// DiamondLine is one group of same-shape stones on a piece.
type DiamondLine struct {
	Shape            string  `json:"shape"`
	PerStoneWeightCt float64 `json:"per_stone_weight_ct"`
	Count            int     `json:"count"`
}

// Specification is the normalized input the price engine consumes.
type Specification struct {
	Diamonds        []DiamondLine `json:"diamonds"`
	GoldWeightGrams float64       `json:"gold_weight_grams"`
}

const (
	labelShapes  = "diamond shape"
	labelWeights = "diamond weight"
	labelCounts  = "total diamonds"
)

// goldWeightLabels maps each karat to the exact label used in description
// markup. An explicit map, not substring matching against arbitrary keys.
var goldWeightLabels = map[enums.Karat]string{
	enums.Karat10: "10k gold",
	enums.Karat14: "14k gold",
	enums.Karat18: "18k gold",
}

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	breakPattern  = regexp.MustCompile(`(?i)<\s*(?:br|/li|/p|/div|/h[1-6]|/tr)\s*/?\s*>`)
	numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// Extract parses the markup for the labeled fields and assembles diamond
// lines positionally. Missing fields produce empty arrays and zero weights
// rather than errors; the engine prices missing data at zero.
func Extract(markup string, karat enums.Karat) Specification {
	fields := parseLabeledFields(markup)

	shapes := splitValues(fields[labelShapes])
	weights := splitValues(fields[labelWeights])
	counts := splitValues(fields[labelCounts])

	// The three lists are parallel. Mismatched lengths are tolerated: we pad
	// short lists with zero values instead of rejecting the product.
	n := len(shapes)
	if len(weights) > n {
		n = len(weights)
	}
	if len(counts) > n {
		n = len(counts)
	}

	var diamonds []DiamondLine
	for i := 0; i < n; i++ {
		var line DiamondLine
		if i < len(shapes) {
			line.Shape = shapes[i]
		}
		if i < len(weights) {
			line.PerStoneWeightCt = parseFloatValue(weights[i])
		}
		if i < len(counts) {
			line.Count = parseIntValue(counts[i])
		}
		diamonds = append(diamonds, line)
	}

	var goldWeight float64
	if label, ok := goldWeightLabels[karat]; ok {
		goldWeight = parseFloatValue(fields[label])
	}

	return Specification{Diamonds: diamonds, GoldWeightGrams: goldWeight}
}

// parseLabeledFields flattens the markup into lines and collects "Label:
// value" pairs keyed by lowercased label. Later occurrences win, matching how
// the description editor duplicates blocks.
func parseLabeledFields(markup string) map[string]string {
	if strings.TrimSpace(markup) == "" {
		return nil
	}

	text := breakPattern.ReplaceAllString(markup, "\n")
	text = tagPattern.ReplaceAllString(text, "")

	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label = strings.ToLower(strings.TrimSpace(label))
		value = strings.TrimSpace(value)
		if label == "" || value == "" {
			continue
		}
		fields[label] = value
	}
	return fields
}

func splitValues(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		values = append(values, strings.TrimSpace(part))
	}
	return values
}

// parseFloatValue pulls the first numeric token out of a value like
// "3.2 grams" or "0.25 ct". Unparseable input is zero, never an error.
func parseFloatValue(raw string) float64 {
	match := numberPattern.FindString(raw)
	if match == "" {
		return 0
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return value
}

func parseIntValue(raw string) int {
	match := numberPattern.FindString(raw)
	if match == "" {
		return 0
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return int(value)
}
