package order

import (
	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
)

// Trigger names the operation requesting a status change.
type Trigger string

const (
	TriggerSetStatus    Trigger = "set_status"
	TriggerCancel       Trigger = "cancel"
	TriggerMarkPaid     Trigger = "mark_paid"
	TriggerReplaceItems Trigger = "replace_items"
)

// CheckTransition decides whether trigger may move an order from current to target.
// For TriggerReplaceItems target is ignored and the status stays the same.
// Every refusal is an errs.ErrBusinessRule.
func CheckTransition(current Status, trigger Trigger, target Status) error {
	switch trigger {
	case TriggerMarkPaid:
		if current != StatusPlaced {
			return errs.BusinessRule(
				"cannot approve payment of an order that is not %s, current status: %s",
				StatusPlaced, current,
			)
		}

		return nil
	case TriggerCancel:
		if current.Terminal() {
			return errs.BusinessRule("cannot cancel an order that is already %s", current)
		}

		return nil
	case TriggerReplaceItems:
		if current != StatusPlaced {
			return errs.BusinessRule("only %s orders can be changed, current status: %s", StatusPlaced, current)
		}

		return nil
	case TriggerSetStatus:
		if current.Terminal() {
			return errs.BusinessRule("cannot change the status of an order that is already %s", current)
		}
		if !target.Valid() {
			return errs.Validation("unknown order status %q", target)
		}
		switch target {
		case StatusPaid:
			return errs.BusinessRule("status %s can only be set by payment confirmation", StatusPaid)
		case StatusPlaced:
			return errs.BusinessRule("an order cannot return to %s", StatusPlaced)
		}

		return nil
	default:
		return errs.BusinessRule("unknown order transition %q", trigger)
	}
}

// TargetStatus returns the status a successful trigger leads to.
func TargetStatus(current Status, trigger Trigger, requested Status) Status {
	switch trigger {
	case TriggerMarkPaid:
		return StatusPaid
	case TriggerCancel:
		return StatusCancelled
	case TriggerSetStatus:
		return requested
	default:
		return current
	}
}
