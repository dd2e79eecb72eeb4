package shipment

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of a shipment.
//
// The first block of values is the carrier vocabulary, in the order the carrier
// documents it. Carrier responses are mapped onto it by ParseCarrierStatus, which fails
// for anything outside the set. The return statuses are set locally by the return flow
// and are never reported by the carrier.
//
//	New ──> ReadyToShip ──> PickupScheduled ──> PickedUp ──> InTransit ──> OutForDelivery ──> Delivered
//	 │                                                                                         │
//	 └──────────────> Cancelled (from any non-terminal status)             FullReturnInitiated <┤
//	                                                                    PartialReturnInitiated <┘
type Status int

const (
	Unknown Status = iota
	New
	ReadyToShip
	PickupScheduled
	PickedUp
	InTransit
	OutForDelivery
	Delivered
	RTOInitiated
	RTODelivered
	Cancelled
	Pending
	Failed
	FullReturnInitiated
	PartialReturnInitiated
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:                "UNKNOWN",
		New:                    "NEW",
		ReadyToShip:            "READY_TO_SHIP",
		PickupScheduled:        "PICKUP_SCHEDULED",
		PickedUp:               "PICKED_UP",
		InTransit:              "IN_TRANSIT",
		OutForDelivery:         "OUT_FOR_DELIVERY",
		Delivered:              "DELIVERED",
		RTOInitiated:           "RTO_INITIATED",
		RTODelivered:           "RTO_DELIVERED",
		Cancelled:              "CANCELLED",
		Pending:                "PENDING",
		Failed:                 "FAILED",
		FullReturnInitiated:    "FULL_RETURN_INITIATED",
		PartialReturnInitiated: "PARTIAL_RETURN_INITIATED",
	}
}

// carrierStatuses is the closed set the carrier may report, in documented order.
var carrierStatuses = []Status{
	New,
	ReadyToShip,
	PickupScheduled,
	PickedUp,
	InTransit,
	OutForDelivery,
	Delivered,
	RTOInitiated,
	RTODelivered,
	Cancelled,
	Pending,
	Failed,
}

// progression ranks the forward path. Statuses missing here (Pending, Failed) are side
// states the carrier may report at any point before a terminal status.
var progression = map[Status]int{
	New:             1,
	ReadyToShip:     2,
	PickupScheduled: 3,
	PickedUp:        4,
	InTransit:       5,
	OutForDelivery:  6,
	Delivered:       7,
	RTOInitiated:    8,
	RTODelivered:    9,
}

// InvalidStatusError is returned for a carrier status outside the known vocabulary.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status '%s'. Valid statuses are: %s", e.Value, ValidStatusList())
}

func (e *InvalidStatusError) Unwrap() error {
	return errs.ErrValueIsInvalid
}

// ValidStatusList renders the carrier vocabulary as "NEW, READY_TO_SHIP, ...".
func ValidStatusList() string {
	names := make([]string, 0, len(carrierStatuses))
	for _, s := range carrierStatuses {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

// NormalizeStatus upper-cases, trims and replaces inner spaces with underscores, so that
// "Out for delivery" and "OUT_FOR_DELIVERY" are the same status.
func NormalizeStatus(raw string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(raw)), " ", "_")
}

// ParseCarrierStatus maps a raw carrier status onto the closed carrier vocabulary.
// There is no default branch: an unrecognized value is an *InvalidStatusError.
func ParseCarrierStatus(raw string) (Status, error) {
	normalized := NormalizeStatus(raw)
	for _, s := range carrierStatuses {
		if s.String() == normalized {
			return s, nil
		}
	}
	return Unknown, &InvalidStatusError{Value: raw}
}

// ParseStatus maps any persisted status name, including the local return statuses.
func ParseStatus(raw string) (Status, error) {
	normalized := NormalizeStatus(raw)
	for s, name := range getStatusStrings() {
		if s != Unknown && name == normalized {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a shipment status", raw))
}

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

// IsTerminal reports statuses the carrier flow can no longer move out of.
func (s Status) IsTerminal() bool {
	switch s { //nolint:exhaustive // everything else is in flight
	case Delivered, RTODelivered, Cancelled, FullReturnInitiated, PartialReturnInitiated:
		return true
	default:
		return false
	}
}

// Cancel transitions to Cancelled. Delivered shipments and shipments in the return
// flow cannot be cancelled.
func (s Status) Cancel() (Status, error) {
	if s == Cancelled {
		return Unknown, errs.NewBadRequest("Shipment is already cancelled.")
	}
	if s.IsTerminal() {
		return Unknown, errs.NewBadRequest("Shipment cannot be cancelled in status %s.", s)
	}
	return Cancelled, nil
}

// Advance applies a status reported by the carrier. It returns false when the reported
// status would move the shipment backwards or the shipment is already terminal.
func (s Status) Advance(reported Status) (Status, bool) {
	if s.IsTerminal() || reported == s || reported == Unknown {
		return s, false
	}
	if reported == Cancelled {
		return Cancelled, true
	}

	from, fromRanked := progression[s]
	to, toRanked := progression[reported]
	if fromRanked && toRanked && to < from {
		return s, false
	}
	return reported, true
}

// InitiateReturn moves a delivered shipment into the return flow.
func (s Status) InitiateReturn(full bool) (Status, error) {
	if s != Delivered {
		return Unknown, errs.NewBadRequest("Can only create return for delivered shipments. Current status: %s", s)
	}
	if full {
		return FullReturnInitiated, nil
	}
	return PartialReturnInitiated, nil
}
