package payment

import "github.com/corray333/backend-labs/orderpay/internal/service/errs"

// Trigger names the operation requesting a status change.
type Trigger string

const (
	TriggerConfirm    Trigger = "confirm"
	TriggerCompensate Trigger = "compensate"
	TriggerDecline    Trigger = "decline"
	TriggerCancel     Trigger = "cancel"
)

var transitions = map[Trigger]struct {
	from Status
	to   Status
}{
	TriggerConfirm:    {StatusAwaitingConfirmation, StatusConfirmed},
	TriggerCompensate: {StatusConfirmed, StatusAwaitingConfirmation},
	TriggerDecline:    {StatusAwaitingConfirmation, StatusDeclined},
	TriggerCancel:     {StatusAwaitingConfirmation, StatusCancelled},
}

// Transition returns the status trigger moves a payment to from current.
// A payment may leave AWAITING_CONFIRMATION only once, and may only go back
// to it from CONFIRMED through compensation.
func Transition(current Status, trigger Trigger) (Status, error) {
	t, ok := transitions[trigger]
	if !ok {
		return "", errs.BusinessRule("unknown payment transition %q", trigger)
	}
	if current != t.from {
		return "", errs.BusinessRule(
			"payment cannot be moved to %s, current status: %s",
			t.to, current,
		)
	}

	return t.to, nil
}

// Source returns the only status trigger may start from.
func Source(trigger Trigger) Status {
	return transitions[trigger].from
}
