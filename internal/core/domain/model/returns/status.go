package returns

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the state of a return shipment.
type Status int

const (
	Unknown Status = iota
	Pending
	PickupScheduled
	PickedUp
	InTransit
	OutForDelivery
	Delivered
	Cancelled
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "UNKNOWN",
		Pending:         "RETURN_PENDING",
		PickupScheduled: "RETURN_PICKUP_SCHEDULED",
		PickedUp:        "RETURN_PICKED_UP",
		InTransit:       "RETURN_IN_TRANSIT",
		OutForDelivery:  "RETURN_OUT_FOR_DELIVERY",
		Delivered:       "RETURN_DELIVERED",
		Cancelled:       "RETURN_CANCELLED",
		Failed:          "RETURN_FAILED",
	}
}

func ParseStatus(raw string) (Status, error) {
	for s, name := range getStatusStrings() {
		if s != Unknown && name == raw {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("return status", fmt.Errorf("%q is not a return status", raw))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("return status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Type tells whether a return covers every allocated unit of the shipment.
type Type int

const (
	PartialReturn Type = iota + 1
	FullReturn
)

func (t Type) String() string {
	if t == FullReturn {
		return "FULL_RETURN"
	}
	return "PARTIAL_RETURN"
}

func ParseType(raw string) (Type, error) {
	switch raw {
	case "FULL_RETURN":
		return FullReturn, nil
	case "PARTIAL_RETURN":
		return PartialReturn, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause("return type", fmt.Errorf("%q is not a return type", raw))
	}
}
