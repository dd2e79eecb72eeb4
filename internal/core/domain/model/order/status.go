package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the approval state of a purchase order.
//
// State transitions:
//
//	PendingApproval ──┬──> Approved
//	                  └──> ApprovedWithPartialPayment ──> Approved
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// PendingApproval is the only status in which payment is accepted.
	PendingApproval

	// Approved means the order is fully paid and its shipments were handed to the carrier.
	Approved

	// ApprovedWithPartialPayment is an approved order with an outstanding balance.
	ApprovedWithPartialPayment
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:                    "UNKNOWN",
		PendingApproval:            "PENDING_APPROVAL",
		Approved:                   "APPROVED",
		ApprovedWithPartialPayment: "APPROVED_WITH_PARTIAL_PAYMENT",
	}
}

// ParseStatus maps a persisted status name onto Status.
func ParseStatus(raw string) (Status, error) {
	for s, name := range getStatusStrings() {
		if s != Unknown && name == raw {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a purchase order status", raw))
}

// Validate checks if the Status value is one of the known non-Unknown statuses.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// ValidateCanBePaid is the strict payment precondition.
func (s Status) ValidateCanBePaid() error {
	if s != PendingApproval {
		return errs.NewBadRequest("Only orders with PENDING_APPROVAL status can be paid.")
	}
	return nil
}

// Approve transitions to Approved.
//
// Valid transitions:
//   - PendingApproval -> Approved
//   - ApprovedWithPartialPayment -> Approved (balance settled)
func (s Status) Approve() (Status, error) {
	if s != PendingApproval && s != ApprovedWithPartialPayment {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to approve", s.String()),
		)
	}
	return Approved, nil
}
