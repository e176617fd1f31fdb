package identity

import (
	"fmt"
	"strings"

	pkgerrors "github.com/nasir97177/erpnext-magento/pkg/errors"
	"github.com/nasir97177/erpnext-magento/pkg/magento"
)

// Kind distinguishes how a storefront shopper is keyed on the ledger side.
type Kind string

const (
	// KindAccount keys registered shoppers by their storefront customer id.
	KindAccount Kind = "account"
	// KindGuest keys guest shoppers by checkout email.
	KindGuest Kind = "guest"
)

// Key is the deterministic ledger identity for one storefront order's
// customer. Exactly one of CustomerID or Email is meaningful.
type Key struct {
	Kind       Kind
	CustomerID int64
	Email      string
}

// KeyFromOrder derives the customer key for an order. A guest order
// without an email, or an account order without a customer id, cannot be
// keyed and fails validation.
func KeyFromOrder(order magento.Order) (Key, error) {
	if order.IsGuest() {
		email := strings.ToLower(strings.TrimSpace(order.CustomerEmail))
		if email == "" {
			return Key{}, pkgerrors.New(pkgerrors.CodeValidation, "guest order has no customer email").
				WithDetails(map[string]any{"magento_order_id": order.EntityID})
		}
		return Key{Kind: KindGuest, Email: email}, nil
	}

	if order.CustomerID == nil || *order.CustomerID == 0 {
		return Key{}, pkgerrors.New(pkgerrors.CodeValidation, "account order has no customer id").
			WithDetails(map[string]any{"magento_order_id": order.EntityID})
	}
	return Key{Kind: KindAccount, CustomerID: *order.CustomerID}, nil
}

func (k Key) String() string {
	if k.Kind == KindGuest {
		return fmt.Sprintf("guest:%s", k.Email)
	}
	return fmt.Sprintf("account:%d", k.CustomerID)
}

// DisplayName joins the shopper's names the way ledger customers are titled.
func DisplayName(firstName, lastName string) string {
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}

// SalesOrderName derives the ledger document name from the naming series
// and the storefront order id. One order maps to one name, so reruns of
// the same order regenerate the same document name.
func SalesOrderName(series string, magentoOrderID int64) string {
	return fmt.Sprintf("%s%d", series, magentoOrderID)
}

// SalesInvoiceName derives the invoice document name; invoices are one
// per storefront order.
func SalesInvoiceName(series string, magentoOrderID int64) string {
	return fmt.Sprintf("%s%d", series, magentoOrderID)
}

// DeliveryNoteName derives the document name for an inbound shipment.
func DeliveryNoteName(series string, magentoShipmentID int64) string {
	return fmt.Sprintf("%s%d", series, magentoShipmentID)
}

// PaymentEntryName derives the payment entry name from the invoice it
// settles; the one-entry-per-invoice constraint makes it unique.
func PaymentEntryName(invoiceName string) string {
	return "PE-" + invoiceName
}

// AddressName titles a ledger address. Customer name plus street line
// plus type keeps billing and shipping copies of the same street apart.
func AddressName(customerName, addressType, line1 string) string {
	return fmt.Sprintf("%s - %s - %s", customerName, strings.TrimSpace(line1), addressType)
}
