package enums

// CartStatus tracks the lifecycle of a persisted cart.
type CartStatus string

const (
	CartStatusActive     CartStatus = "active"
	CartStatusCheckedOut CartStatus = "checked_out"
	CartStatusAbandoned  CartStatus = "abandoned"
)

// IsValid reports whether the value matches the canonical cart status enum.
func (c CartStatus) IsValid() bool {
	switch c {
	case CartStatusActive, CartStatusCheckedOut, CartStatusAbandoned:
		return true
	}
	return false
}
