package enums

import "fmt"

// PaymentStatus is the legacy payment phase column kept for storefront
// compatibility. It is derived from OrderStatus and written in the same
// statement that advances it; OrderStatus alone drives behavior.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// PaymentStatusFor maps an order status onto the legacy payment phase.
func PaymentStatusFor(status OrderStatus) PaymentStatus {
	switch status {
	case OrderStatusPending:
		return PaymentStatusPending
	case OrderStatusCanceled:
		return PaymentStatusFailed
	case OrderStatusRefunded:
		return PaymentStatusRefunded
	default:
		return PaymentStatusPaid
	}
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
