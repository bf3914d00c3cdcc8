package enums

import "fmt"

// PaymentMethodKind identifies the stored payment instrument category.
type PaymentMethodKind string

const (
	PaymentMethodKindCard PaymentMethodKind = "CARD"
)

var validPaymentMethodKinds = []PaymentMethodKind{
	PaymentMethodKindCard,
}

// String implements fmt.Stringer.
func (p PaymentMethodKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethodKind.
func (p PaymentMethodKind) IsValid() bool {
	for _, candidate := range validPaymentMethodKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethodKind converts raw input into a PaymentMethodKind.
func ParsePaymentMethodKind(value string) (PaymentMethodKind, error) {
	for _, candidate := range validPaymentMethodKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method kind %q", value)
}
