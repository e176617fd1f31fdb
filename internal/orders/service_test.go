package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nasir97177/erpnext-magento/pkg/config"
	"github.com/nasir97177/erpnext-magento/pkg/db/models"
	"github.com/nasir97177/erpnext-magento/pkg/enums"
	pkgerrors "github.com/nasir97177/erpnext-magento/pkg/errors"
	"github.com/nasir97177/erpnext-magento/pkg/logger"
	"github.com/nasir97177/erpnext-magento/pkg/magento"
)

type fakeRepo struct {
	orders  map[int64]*models.SalesOrder
	items   map[int64]*models.Item
	created []*models.SalesOrder
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders: map[int64]*models.SalesOrder{},
		items:  map[int64]*models.Item{},
	}
}

func (f *fakeRepo) FindByMagentoOrderID(_ context.Context, id int64) (*models.SalesOrder, error) {
	return f.orders[id], nil
}

func (f *fakeRepo) Create(_ context.Context, order *models.SalesOrder) error {
	f.created = append(f.created, order)
	f.orders[order.MagentoOrderID] = order
	return nil
}

func (f *fakeRepo) FindItemByMagentoProductID(_ context.Context, id int64) (*models.Item, error) {
	return f.items[id], nil
}

type fakeResolver struct {
	resolved []string
}

func (f *fakeResolver) Resolve(_ context.Context, _ *models.Customer, addr *magento.OrderAddress, addressType string) (*models.Address, error) {
	if addr == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing address")
	}
	f.resolved = append(f.resolved, addressType)
	return &models.Address{ID: uuid.New(), AddressType: addressType}, nil
}

type fakeNamer struct {
	names map[int64]string
}

func (f *fakeNamer) WebsiteNameByStoreID(_ context.Context, storeID int64) (string, error) {
	name, ok := f.names[storeID]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "unknown store view")
	}
	return name, nil
}

func syncConfig() config.SyncConfig {
	return config.SyncConfig{
		Company:          "Acme GmbH",
		CostCenter:       "Main - A",
		SalesOrderSeries: "SO-MAGENTO-",
		PriceLists:       map[string]string{"Main Website": "Standard Selling"},
		TaxAccounts:      map[string]string{"US-CA-*-Rate 1": "VAT - A"},
	}
}

func int64Ptr(v int64) *int64 { return &v }

// storefront order 1001: a guest buys one configurable product, which the
// storefront reports as a configurable parent row plus a simple child row.
func order1001() magento.Order {
	return magento.Order{
		EntityID:        1001,
		CustomerIsGuest: 1,
		CustomerEmail:   "jane@example.com",
		StoreID:         1,
		DiscountAmount:  -5,
		BillingAddress:  &magento.OrderAddress{Firstname: "Jane", Street: []string{"1 Main St"}},
		Payment:         magento.Payment{Method: "checkmo"},
		Items: []magento.OrderItem{
			{ItemID: 11, ProductID: 201, ProductType: "configurable", SKU: "TS", Name: "T-Shirt", Price: 20, QtyOrdered: 2},
			{ItemID: 12, ParentItemID: int64Ptr(11), ProductID: 202, ProductType: "simple", SKU: "TS-M", Name: "T-Shirt M", Price: 20, QtyOrdered: 2},
		},
		ExtensionAttributes: magento.ExtensionAttributes{
			ShippingAssignments: []magento.ShippingAssignment{{
				Shipping: magento.Shipping{Address: &magento.OrderAddress{Firstname: "Jane", Street: []string{"1 Main St"}}},
			}},
			AppliedTaxes: []magento.AppliedTax{{Code: "US-CA-*-Rate 1", Percent: 8.25}},
		},
	}
}

func testService(t *testing.T, repo Repository, resolver AddressResolver, namer WebsiteNamer) *Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: &strings.Builder{}})
	svc, err := NewService(repo, resolver, namer, syncConfig(), logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestEnsureSkipsAlreadyMaterializedOrders(t *testing.T) {
	repo := newFakeRepo()
	existing := &models.SalesOrder{Name: "SO-MAGENTO-1001", MagentoOrderID: 1001}
	repo.orders[1001] = existing
	svc := testService(t, repo, &fakeResolver{}, &fakeNamer{names: map[int64]string{1: "Main Website"}})

	got, created, err := svc.Ensure(context.Background(), order1001(), &models.Customer{ID: uuid.New()})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if created {
		t.Fatal("must not re-create an existing order")
	}
	if got != existing {
		t.Fatal("expected the existing row back")
	}
}

func TestEnsureMaterializesSubmittedSalesOrder(t *testing.T) {
	repo := newFakeRepo()
	repo.items[202] = &models.Item{ItemCode: "TSHIRT-M", MagentoProductID: 202}
	resolver := &fakeResolver{}
	svc := testService(t, repo, resolver, &fakeNamer{names: map[int64]string{1: "Main Website"}})

	row, created, err := svc.Ensure(context.Background(), order1001(), &models.Customer{ID: uuid.New()})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !created {
		t.Fatal("expected a new sales order")
	}
	if row.Name != "SO-MAGENTO-1001" {
		t.Fatalf("name = %q", row.Name)
	}
	if row.DocStatus != enums.DocStatusSubmitted {
		t.Fatalf("doc status = %v", row.DocStatus)
	}
	if row.SellingPriceList != "Standard Selling" {
		t.Fatalf("price list = %q", row.SellingPriceList)
	}
	if row.MagentoPaymentMethod != "checkmo" {
		t.Fatalf("payment method = %q", row.MagentoPaymentMethod)
	}

	// Configurable parent skipped; child keeps the parent's line id.
	if len(row.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(row.Items))
	}
	item := row.Items[0]
	if item.ItemCode != "TSHIRT-M" {
		t.Fatalf("item code = %q", item.ItemCode)
	}
	if item.MagentoOrderItemID != 11 {
		t.Fatalf("order item id = %d, want parent id", item.MagentoOrderItemID)
	}
	if !item.Qty.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("qty = %s", item.Qty)
	}

	// Storefront reports the discount negative; the ledger stores it positive.
	if !row.DiscountAmount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("discount = %s", row.DiscountAmount)
	}

	if len(row.Taxes) != 1 {
		t.Fatalf("expected 1 tax line, got %d", len(row.Taxes))
	}
	tax := row.Taxes[0]
	if tax.AccountHead != "VAT - A" {
		t.Fatalf("account head = %q", tax.AccountHead)
	}
	if tax.Description != "US-CA-*-Rate 1 - 8.25%" {
		t.Fatalf("description = %q", tax.Description)
	}
	if !tax.IncludedInPrintRate || tax.CostCenter != "Main - A" {
		t.Fatalf("tax defaults wrong: %+v", tax)
	}

	if len(resolver.resolved) != 2 {
		t.Fatalf("expected billing and shipping resolution, got %v", resolver.resolved)
	}
}

func TestEnsureFailsWhenItemUnknown(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(t, repo, &fakeResolver{}, &fakeNamer{names: map[int64]string{1: "Main Website"}})

	_, _, err := svc.Ensure(context.Background(), order1001(), &models.Customer{ID: uuid.New()})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("nothing may be written on failure")
	}
}

func TestEnsureFailsWhenTaxAccountMissing(t *testing.T) {
	repo := newFakeRepo()
	repo.items[202] = &models.Item{ItemCode: "TSHIRT-M"}
	svc := testService(t, repo, &fakeResolver{}, &fakeNamer{names: map[int64]string{1: "Main Website"}})

	order := order1001()
	order.ExtensionAttributes.AppliedTaxes[0].Code = "UNMAPPED"

	_, _, err := svc.Ensure(context.Background(), order, &models.Customer{ID: uuid.New()})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestEnsureFailsWhenPriceListMissing(t *testing.T) {
	repo := newFakeRepo()
	repo.items[202] = &models.Item{ItemCode: "TSHIRT-M"}
	svc := testService(t, repo, &fakeResolver{}, &fakeNamer{names: map[int64]string{1: "Outlet"}})

	_, _, err := svc.Ensure(context.Background(), order1001(), &models.Customer{ID: uuid.New()})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestEnsureFailsWhenOnlyConfigurableLines(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(t, repo, &fakeResolver{}, &fakeNamer{names: map[int64]string{1: "Main Website"}})

	order := order1001()
	order.Items = order.Items[:1]

	_, _, err := svc.Ensure(context.Background(), order, &models.Customer{ID: uuid.New()})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEnsureAllowsVirtualOrdersWithoutShipping(t *testing.T) {
	repo := newFakeRepo()
	repo.items[202] = &models.Item{ItemCode: "TSHIRT-M"}
	svc := testService(t, repo, &fakeResolver{}, &fakeNamer{names: map[int64]string{1: "Main Website"}})

	order := order1001()
	order.ExtensionAttributes.ShippingAssignments = nil

	row, _, err := svc.Ensure(context.Background(), order, &models.Customer{ID: uuid.New()})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if row.ShippingAddressID != nil {
		t.Fatal("virtual order must not carry a shipping address")
	}
	if row.BillingAddressID == nil {
		t.Fatal("billing address required")
	}
}
