package order

import (
	"fmt"
	"strings"
)

// Status is the fulfillment state of an order.
type Status string

const (
	StatusPlaced         Status = "PLACED"
	StatusCancelled      Status = "CANCELLED"
	StatusPaid           Status = "PAID"
	StatusInPreparation  Status = "IN_PREPARATION"
	StatusReady          Status = "READY"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
)

var statusInfo = map[Status]struct {
	title       string
	description string
}{
	StatusPlaced:         {"Order Received", "Waiting for the restaurant to confirm"},
	StatusCancelled:      {"Order Cancelled", "This order was cancelled"},
	StatusPaid:           {"Order Paid", "Your order was paid successfully"},
	StatusInPreparation:  {"In Preparation", "We are preparing your order"},
	StatusReady:          {"Order Ready", "Your order is ready and waiting for pickup"},
	StatusOutForDelivery: {"Out for Delivery", "The courier is on the way to your address"},
	StatusDelivered:      {"Order Delivered", "Order delivered. Enjoy your meal!"},
}

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusInfo[s]

	return ok
}

// Terminal reports whether no transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusDelivered
}

// Title returns a short human readable label.
func (s Status) Title() string {
	if info, ok := statusInfo[s]; ok {
		return info.title
	}

	return s.String()
}

// Description returns a customer facing explanation of the status.
func (s Status) Description() string {
	return statusInfo[s].description
}

// ParseStatus parses a status code, case-insensitively.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}

	return status, nil
}
