package enums

import "fmt"

// OrderStatus is the single source of truth for an order's lifecycle. The main
// line is monotonic (pending → paid → processing → ready → delivered); the
// side branches are operator-driven exception states and are terminal.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusOutOfStock OrderStatus = "outofstock"
	OrderStatusReturned   OrderStatus = "returned"
	OrderStatusCanceled   OrderStatus = "canceled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusProcessing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusOutOfStock,
	OrderStatusReturned,
	OrderStatusCanceled,
	OrderStatusRefunded,
}

// orderTransitions lists the allowed moves out of each state. Absent states
// are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusProcessing, OrderStatusCanceled},
	OrderStatusPaid:    {OrderStatusProcessing, OrderStatusOutOfStock, OrderStatusCanceled, OrderStatusRefunded},
	OrderStatusProcessing: {
		OrderStatusReady,
		OrderStatusOutOfStock,
		OrderStatusCanceled,
		OrderStatusRefunded,
	},
	OrderStatusReady:     {OrderStatusDelivered, OrderStatusCanceled, OrderStatusRefunded},
	OrderStatusDelivered: {OrderStatusReturned},
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransition reports whether an order may move from one status to another.
// The main line never moves backward.
func CanTransition(from, to OrderStatus) bool {
	for _, candidate := range orderTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
