package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nasir97177/erpnext-magento/internal/addresses"
	"github.com/nasir97177/erpnext-magento/internal/identity"
	"github.com/nasir97177/erpnext-magento/pkg/config"
	"github.com/nasir97177/erpnext-magento/pkg/db/models"
	"github.com/nasir97177/erpnext-magento/pkg/enums"
	pkgerrors "github.com/nasir97177/erpnext-magento/pkg/errors"
	"github.com/nasir97177/erpnext-magento/pkg/logger"
	"github.com/nasir97177/erpnext-magento/pkg/magento"
)

// AddressResolver returns the ledger address for one order address.
type AddressResolver interface {
	Resolve(ctx context.Context, customer *models.Customer, addr *magento.OrderAddress, addressType string) (*models.Address, error)
}

// WebsiteNamer maps a storefront store view to its website name.
type WebsiteNamer interface {
	WebsiteNameByStoreID(ctx context.Context, storeID int64) (string, error)
}

// Repository is the persistence surface for sales order materialization.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	FindByMagentoOrderID(ctx context.Context, magentoOrderID int64) (*models.SalesOrder, error)
	Create(ctx context.Context, order *models.SalesOrder) error
	FindItemByMagentoProductID(ctx context.Context, magentoProductID int64) (*models.Item, error)
}

// Service materializes storefront orders as submitted ledger sales
// orders. Materialization is all or nothing: any unmappable line, tax
// code, or price list fails the whole order before anything is written.
type Service struct {
	repo     Repository
	addrs    AddressResolver
	websites WebsiteNamer
	cfg      config.SyncConfig
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, addrs AddressResolver, websites WebsiteNamer, cfg config.SyncConfig, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if addrs == nil {
		return nil, fmt.Errorf("address resolver required")
	}
	if websites == nil {
		return nil, fmt.Errorf("website namer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		repo:     repo,
		addrs:    addrs,
		websites: websites,
		cfg:      cfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Ensure materializes the order unless a sales order already carries its
// storefront id. The bool reports whether a row was created.
func (s *Service) Ensure(ctx context.Context, order magento.Order, customer *models.Customer) (*models.SalesOrder, bool, error) {
	existing, err := s.repo.FindByMagentoOrderID(ctx, order.EntityID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up sales order")
	}
	if existing != nil {
		return existing, false, nil
	}

	created, err := s.materialize(ctx, order, customer)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *Service) materialize(ctx context.Context, order magento.Order, customer *models.Customer) (*models.SalesOrder, error) {
	billing, err := s.addrs.Resolve(ctx, customer, order.BillingAddress, addresses.TypeBilling)
	if err != nil {
		return nil, err
	}

	// Virtual orders carry no shipping assignment; the sales order then
	// keeps only the billing side.
	var shipping *models.Address
	if shippingAddr := order.ShippingAddress(); shippingAddr != nil {
		shipping, err = s.addrs.Resolve(ctx, customer, shippingAddr, addresses.TypeShipping)
		if err != nil {
			return nil, err
		}
	}

	priceList, err := s.priceList(ctx, order)
	if err != nil {
		return nil, err
	}

	items, err := s.orderItems(ctx, order)
	if err != nil {
		return nil, err
	}

	taxes, err := s.orderTaxes(order)
	if err != nil {
		return nil, err
	}

	row := &models.SalesOrder{
		Name:                 identity.SalesOrderName(s.cfg.SalesOrderSeries, order.EntityID),
		NamingSeries:         s.cfg.SalesOrderSeries,
		MagentoOrderID:       order.EntityID,
		MagentoPaymentMethod: order.Payment.Method,
		CustomerID:           customer.ID,
		BillingAddressID:     &billing.ID,
		Company:              s.cfg.Company,
		SellingPriceList:     priceList,
		DeliveryDate:         s.now(),
		ApplyDiscountOn:      "Grand Total",
		DiscountAmount:       decimal.NewFromFloat(order.DiscountAmount).Neg(),
		DocStatus:            enums.DocStatusSubmitted,
		Items:                items,
		Taxes:                taxes,
	}
	if shipping != nil {
		row.ShippingAddressID = &shipping.ID
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating sales order")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"sales_order":      row.Name,
		"magento_order_id": order.EntityID,
	})
	s.logg.Info(logCtx, "materialized sales order")
	return row, nil
}

func (s *Service) priceList(ctx context.Context, order magento.Order) (string, error) {
	websiteName, err := s.websites.WebsiteNameByStoreID(ctx, order.StoreID)
	if err != nil {
		return "", err
	}
	priceList, ok := s.cfg.PriceLists[websiteName]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeConfig,
			fmt.Sprintf("no price list configured for website %q", websiteName))
	}
	return priceList, nil
}

func (s *Service) orderItems(ctx context.Context, order magento.Order) ([]models.SalesOrderItem, error) {
	var items []models.SalesOrderItem
	deliveryDate := s.now()

	for _, line := range order.Items {
		if line.ProductType == magento.ProductTypeConfigurable {
			continue
		}

		item, err := s.repo.FindItemByMagentoProductID(ctx, line.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up item")
		}
		if item == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("no ledger item for storefront product %d", line.ProductID)).
				WithDetails(map[string]any{"sku": line.SKU, "magento_order_id": order.EntityID})
		}

		items = append(items, models.SalesOrderItem{
			ItemCode:           item.ItemCode,
			ItemName:           line.Name,
			MagentoOrderItemID: line.LineID(),
			MagentoSKU:         line.SKU,
			Rate:               decimal.NewFromFloat(line.Price),
			Qty:                decimal.NewFromFloat(line.QtyOrdered),
			DeliveryDate:       deliveryDate,
		})
	}

	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no purchasable lines").
			WithDetails(map[string]any{"magento_order_id": order.EntityID})
	}
	return items, nil
}

func (s *Service) orderTaxes(order magento.Order) ([]models.SalesOrderTaxLine, error) {
	var taxes []models.SalesOrderTaxLine
	for _, tax := range order.AppliedTaxes() {
		account, ok := s.cfg.TaxAccounts[tax.Code]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeConfig,
				fmt.Sprintf("no tax account configured for storefront tax %q", tax.Code))
		}
		taxes = append(taxes, models.SalesOrderTaxLine{
			ChargeType:          "On Net Total",
			AccountHead:         account,
			Description:         fmt.Sprintf("%s - %v%%", tax.Code, tax.Percent),
			Rate:                decimal.NewFromFloat(tax.Percent),
			IncludedInPrintRate: true,
			CostCenter:          s.cfg.CostCenter,
		})
	}
	return taxes, nil
}
