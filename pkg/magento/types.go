package magento

// DTOs for the storefront REST payloads this synchronizer touches.
// Parsed and validated at the boundary so a missing or renamed field
// fails before any business logic runs.

// Order is one storefront order snapshot.
type Order struct {
	EntityID            int64               `json:"entity_id" validate:"required"`
	IncrementID         string              `json:"increment_id"`
	CustomerIsGuest     int                 `json:"customer_is_guest"`
	CustomerID          *int64              `json:"customer_id"`
	CustomerEmail       string              `json:"customer_email"`
	CustomerFirstname   string              `json:"customer_firstname"`
	CustomerLastname    string              `json:"customer_lastname"`
	StoreID             int64               `json:"store_id"`
	DiscountAmount      float64             `json:"discount_amount"`
	BillingAddress      *OrderAddress       `json:"billing_address" validate:"required"`
	Payment             Payment             `json:"payment"`
	Items               []OrderItem         `json:"items" validate:"min=1,dive"`
	ExtensionAttributes ExtensionAttributes `json:"extension_attributes"`

	// LedgerGuestCustomerName is resolved by the guest provisioner and
	// carried in memory for downstream steps; never serialized.
	LedgerGuestCustomerName string `json:"-"`
}

// IsGuest reports whether the order was placed without an account.
func (o Order) IsGuest() bool {
	return o.CustomerIsGuest == 1
}

// ShippingAddress returns the first shipping-assignment address, which
// is the only one the storefront populates for standard checkouts.
func (o Order) ShippingAddress() *OrderAddress {
	if len(o.ExtensionAttributes.ShippingAssignments) == 0 {
		return nil
	}
	return o.ExtensionAttributes.ShippingAssignments[0].Shipping.Address
}

// AppliedTaxes returns the order-level applied tax rows.
func (o Order) AppliedTaxes() []AppliedTax {
	return o.ExtensionAttributes.AppliedTaxes
}

// OrderAddress is a billing or shipping address payload.
type OrderAddress struct {
	CustomerAddressID *int64   `json:"customer_address_id"`
	Firstname         string   `json:"firstname" validate:"required"`
	Lastname          string   `json:"lastname"`
	Street            []string `json:"street" validate:"min=1"`
	Postcode          string   `json:"postcode"`
	City              string   `json:"city"`
	CountryID         string   `json:"country_id"`
	Telephone         string   `json:"telephone"`
	AddressType       string   `json:"address_type"`
}

// Line1 returns the first street line, the natural-key component.
func (a OrderAddress) Line1() string {
	if len(a.Street) == 0 {
		return ""
	}
	return a.Street[0]
}

// Payment carries the method chosen at checkout.
type Payment struct {
	Method string `json:"method"`
}

// ProductTypeConfigurable marks parent rows that carry no price or qty
// of their own; only concrete variants are materialized.
const ProductTypeConfigurable = "configurable"

// OrderItem is one storefront order line.
type OrderItem struct {
	ItemID       int64   `json:"item_id" validate:"required"`
	ParentItemID *int64  `json:"parent_item_id"`
	ProductID    int64   `json:"product_id"`
	ProductType  string  `json:"product_type"`
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	QtyOrdered   float64 `json:"qty_ordered"`
}

// LineID returns the id the storefront expects back on shipment items:
// the configurable parent's id when the variant has one.
func (i OrderItem) LineID() int64 {
	if i.ParentItemID != nil && *i.ParentItemID != 0 {
		return *i.ParentItemID
	}
	return i.ItemID
}

// ExtensionAttributes nests the shipping assignments and applied taxes.
type ExtensionAttributes struct {
	ShippingAssignments []ShippingAssignment `json:"shipping_assignments"`
	AppliedTaxes        []AppliedTax         `json:"applied_taxes"`
}

// ShippingAssignment wraps one shipping address.
type ShippingAssignment struct {
	Shipping Shipping `json:"shipping"`
}

// Shipping holds the assignment's address.
type Shipping struct {
	Address *OrderAddress `json:"address"`
}

// AppliedTax is one order-level tax row.
type AppliedTax struct {
	Code    string  `json:"code"`
	Percent float64 `json:"percent"`
}

// InvoiceStatePaid is the storefront's terminal invoice state.
const InvoiceStatePaid = 2

// Invoice is one storefront invoice event for an order.
type Invoice struct {
	EntityID int64 `json:"entity_id"`
	OrderID  int64 `json:"order_id"`
	State    int   `json:"state"`
}

// Shipment is one storefront shipment for an order.
type Shipment struct {
	EntityID int64          `json:"entity_id"`
	OrderID  int64          `json:"order_id"`
	Items    []ShipmentItem `json:"items"`
}

// ShipmentItem carries the shipped qty per product.
type ShipmentItem struct {
	OrderItemID int64   `json:"order_item_id"`
	ProductID   int64   `json:"product_id"`
	Qty         float64 `json:"qty"`
}

// ShipmentRequest is the outbound ship-notification payload.
type ShipmentRequest struct {
	Items  []ShipmentRequestItem `json:"items"`
	Notify bool                  `json:"notify"`
}

// ShipmentRequestItem pairs a storefront order item id with a quantity.
type ShipmentRequestItem struct {
	OrderItemID int64   `json:"order_item_id"`
	Qty         float64 `json:"qty"`
}

type website struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type storeView struct {
	ID        int64 `json:"id"`
	WebsiteID int64 `json:"website_id"`
}

type searchResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
}
