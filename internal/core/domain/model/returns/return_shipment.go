// Package returns contains the ReturnShipment aggregate and the return policy checks
// applied to a delivered shipment.
package returns

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrReturnShipmentIsNotConstructed = errors.New("return shipment must be created via NewReturnShipment")

// Line is one returned product.
type Line struct {
	ProductID int64
	Quantity  int
	Reason    string
}

// Parcel is the size and weight the carrier is asked to collect.
type Parcel struct {
	Dimensions kernel.Dimensions
	Weight     kernel.Weight
}

// DefaultParcel is used when the customer does not measure the return.
func DefaultParcel() Parcel {
	dims, _ := kernel.NewDimensions(11, 11, 11)
	return Parcel{Dimensions: dims, Weight: kernel.MustWeight("0.5")}
}

// ReturnShipment is a return case opened against one delivered shipment.
//
// The record exists independently of the carrier: if the carrier cannot schedule the
// return, the ReturnShipment stays Pending without carrier ids.
type ReturnShipment struct {
	id         int64
	shipmentID int64
	clientID   int64
	reference  string
	returnType Type
	status     Status
	parcel     Parcel
	lines      []Line

	carrierOrderID    string
	carrierShipmentID string
	awbCode           string
	carrierResponse   string

	isConstructed bool
}

// NewReturnShipment opens a pending return for the given lines.
func NewReturnShipment(
	shipmentID, clientID int64,
	reference string,
	returnType Type,
	parcel Parcel,
	lines []Line,
) (*ReturnShipment, error) {
	r := &ReturnShipment{
		status:        Pending,
		returnType:    returnType,
		parcel:        parcel,
		isConstructed: true,
	}

	if err := errors.Join(
		requirePositive("shipment id", &r.shipmentID, shipmentID),
		requirePositive("client id", &r.clientID, clientID),
		r.setReference(reference),
		r.setLines(lines),
	); err != nil {
		return nil, err
	}
	return r, nil
}

// Snapshot is the persisted form of a return shipment.
type Snapshot struct {
	ID                int64
	ShipmentID        int64
	ClientID          int64
	Reference         string
	Type              Type
	Status            Status
	Parcel            Parcel
	Lines             []Line
	CarrierOrderID    string
	CarrierShipmentID string
	AWBCode           string
	CarrierResponse   string
}

func RestoreReturnShipment(snap Snapshot) (*ReturnShipment, error) {
	if err := snap.Status.Validate(); err != nil {
		return nil, err
	}
	r := &ReturnShipment{
		id:                snap.ID,
		shipmentID:        snap.ShipmentID,
		clientID:          snap.ClientID,
		reference:         snap.Reference,
		returnType:        snap.Type,
		status:            snap.Status,
		parcel:            snap.Parcel,
		lines:             snap.Lines,
		carrierOrderID:    snap.CarrierOrderID,
		carrierShipmentID: snap.CarrierShipmentID,
		awbCode:           snap.AWBCode,
		carrierResponse:   snap.CarrierResponse,
		isConstructed:     true,
	}
	return r, nil
}

func (r *ReturnShipment) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReturnShipmentIsNotConstructed
	}
	return nil
}

func (r *ReturnShipment) ID() int64                 { return r.id }
func (r *ReturnShipment) ShipmentID() int64         { return r.shipmentID }
func (r *ReturnShipment) ClientID() int64           { return r.clientID }
func (r *ReturnShipment) Reference() string         { return r.reference }
func (r *ReturnShipment) Type() Type                { return r.returnType }
func (r *ReturnShipment) Status() Status            { return r.status }
func (r *ReturnShipment) Parcel() Parcel            { return r.parcel }
func (r *ReturnShipment) CarrierOrderID() string    { return r.carrierOrderID }
func (r *ReturnShipment) CarrierShipmentID() string { return r.carrierShipmentID }
func (r *ReturnShipment) AWBCode() string           { return r.awbCode }
func (r *ReturnShipment) CarrierResponse() string   { return r.carrierResponse }

func (r *ReturnShipment) Lines() []Line {
	return append([]Line(nil), r.lines...)
}

// AssignID is called by the repository after the first insert.
func (r *ReturnShipment) AssignID(id int64) {
	if r.id == 0 {
		r.id = id
	}
}

// RecordCarrierOrder stores the carrier's return order identifiers and raw response.
func (r *ReturnShipment) RecordCarrierOrder(orderID, shipmentID, rawResponse string) {
	r.carrierOrderID = orderID
	r.carrierShipmentID = shipmentID
	r.carrierResponse = rawResponse
}

// AssignAWB stores the return waybill. Empty codes are ignored.
func (r *ReturnShipment) AssignAWB(code string) {
	if code != "" {
		r.awbCode = code
	}
}

// ValidateCancel checks that the return can be cancelled with the carrier.
func (r *ReturnShipment) ValidateCancel() error {
	if r.status == Cancelled {
		return errs.NewBadRequest("Return shipment is already cancelled.")
	}
	if strings.TrimSpace(r.carrierOrderID) == "" {
		return errs.NewBadRequest("Cannot cancel return shipment: ShipRocket return order ID not found.")
	}
	return nil
}

// Cancel moves the return to Cancelled.
func (r *ReturnShipment) Cancel() error {
	if err := r.ValidateCancel(); err != nil {
		return err
	}
	r.status = Cancelled
	return nil
}

func (r *ReturnShipment) setReference(reference string) error {
	if strings.TrimSpace(reference) == "" {
		return errs.NewValueIsRequiredError("reference")
	}
	r.reference = reference
	return nil
}

func (r *ReturnShipment) setLines(lines []Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	for i, l := range lines {
		if l.ProductID <= 0 || l.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("lines",
				fmt.Errorf("line %d has product %d and quantity %d", i, l.ProductID, l.Quantity))
		}
	}
	r.lines = lines
	return nil
}

func requirePositive(name string, target *int64, v int64) error {
	if v <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is not greater than 0", v))
	}
	*target = v
	return nil
}
