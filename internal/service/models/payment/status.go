package payment

import (
	"fmt"
	"strings"
)

// Status is the settlement state of a payment.
type Status string

const (
	StatusAwaitingConfirmation Status = "AWAITING_CONFIRMATION"
	StatusConfirmed            Status = "CONFIRMED"
	StatusDeclined             Status = "DECLINED"
	StatusCancelled            Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAwaitingConfirmation, StatusConfirmed, StatusDeclined, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether s can never change again.
func (s Status) Terminal() bool {
	return s == StatusDeclined || s == StatusCancelled
}

// ParseStatus parses a status code, case-insensitively.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown payment status %q", s)
	}

	return status, nil
}

// Method is the card payment method.
type Method string

const (
	MethodCredit Method = "CREDIT"
	MethodDebit  Method = "DEBIT"
)

func (m Method) String() string {
	return string(m)
}

// ParseMethod parses a payment method, case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodCredit, MethodDebit:
		return m, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}
