package order

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Address is a postal address with a contact person.
type Address struct {
	Name       string
	Email      string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	Country    string
	PostalCode string
}

// IsZero reports an address with no postal code and no first line.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.PostalCode) == "" && strings.TrimSpace(a.Line1) == ""
}

// FirstName and LastName split Name on the first space, the way the carrier expects
// billing names.
func (a Address) FirstName() string {
	first, _, _ := strings.Cut(strings.TrimSpace(a.Name), " ")
	return first
}

func (a Address) LastName() string {
	_, last, _ := strings.Cut(strings.TrimSpace(a.Name), " ")
	return strings.TrimSpace(last)
}

// Summary holds what the checkout captured for a purchase order.
type Summary struct {
	ID              int64
	PurchaseOrderID int64
	DeliveryAddress *Address
	Subtotal        decimal.Decimal
	ShippingTotal   decimal.Decimal
	DiscountTotal   decimal.Decimal
	GSTPercentage   *decimal.Decimal
}

// HasDeliveryAddress reports whether a usable delivery address was captured.
func (s *Summary) HasDeliveryAddress() bool {
	return s != nil && s.DeliveryAddress != nil && !s.DeliveryAddress.IsZero()
}
