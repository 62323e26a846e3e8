package enums

import "fmt"

// Karat is the gold purity option a shopper selects on a product page.
type Karat string

const (
	Karat10 Karat = "10K"
	Karat14 Karat = "14K"
	Karat18 Karat = "18K"
)

var validKarats = []Karat{Karat10, Karat14, Karat18}

// IsValid reports whether the value matches a supported karat option.
func (k Karat) IsValid() bool {
	for _, candidate := range validKarats {
		if candidate == k {
			return true
		}
	}
	return false
}

// Number returns the karat as an integer (10, 14, 18).
func (k Karat) Number() int {
	switch k {
	case Karat10:
		return 10
	case Karat14:
		return 14
	case Karat18:
		return 18
	}
	return 0
}

// Purity returns the fraction of the 24K spot price this karat commands.
func (k Karat) Purity() float64 {
	return float64(k.Number()) / 24
}

// ParseKarat converts the raw string to Karat.
func ParseKarat(value string) (Karat, error) {
	for _, candidate := range validKarats {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid karat %q", value)
}
