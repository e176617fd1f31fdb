package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nasir97177/erpnext-magento/internal/identity"
	"github.com/nasir97177/erpnext-magento/pkg/config"
	"github.com/nasir97177/erpnext-magento/pkg/db/models"
	"github.com/nasir97177/erpnext-magento/pkg/enums"
	pkgerrors "github.com/nasir97177/erpnext-magento/pkg/errors"
	"github.com/nasir97177/erpnext-magento/pkg/logger"
	"github.com/nasir97177/erpnext-magento/pkg/magento"
)

// StorefrontInvoices lists the storefront's invoice events for an order.
type StorefrontInvoices interface {
	OrderInvoices(ctx context.Context, orderID int64) ([]magento.Invoice, error)
}

// Repository is the persistence surface for the invoice pipeline.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	FindByMagentoOrderID(ctx context.Context, magentoOrderID int64) (*models.SalesInvoice, error)
	Create(ctx context.Context, invoice *models.SalesInvoice) error
	Update(ctx context.Context, invoice *models.SalesInvoice) error
	CreatePaymentEntry(ctx context.Context, entry *models.PaymentEntry) error
}

// Service advances the invoice lifecycle behind a submitted sales order:
// a draft invoice is copied forward once, then submitted and settled
// when the storefront reports the invoice paid. Settling twice is
// impossible; the paid flag short-circuits the payment step.
type Service struct {
	repo       Repository
	storefront StorefrontInvoices
	cfg        config.SyncConfig
	logg       *logger.Logger
	now        func() time.Time
}

func NewService(repo Repository, storefront StorefrontInvoices, cfg config.SyncConfig, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoices repository required")
	}
	if storefront == nil {
		return nil, fmt.Errorf("storefront invoices source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		repo:       repo,
		storefront: storefront,
		cfg:        cfg,
		logg:       logg,
		now:        time.Now,
	}, nil
}

// Sync runs the pipeline for one order against current storefront state.
func (s *Service) Sync(ctx context.Context, order magento.Order, salesOrder *models.SalesOrder) error {
	storefrontInvoices, err := s.storefront.OrderInvoices(ctx, order.EntityID)
	if err != nil {
		return err
	}

	for _, storefrontInvoice := range storefrontInvoices {
		invoice, err := s.ensureDraft(ctx, order, salesOrder)
		if err != nil {
			return err
		}

		if storefrontInvoice.State == magento.InvoiceStatePaid {
			if err := s.settle(ctx, invoice); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) ensureDraft(ctx context.Context, order magento.Order, salesOrder *models.SalesOrder) (*models.SalesInvoice, error) {
	existing, err := s.repo.FindByMagentoOrderID(ctx, order.EntityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up sales invoice")
	}
	if existing != nil {
		return existing, nil
	}

	if !salesOrder.DocStatus.IsSubmitted() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("sales order %s is not submitted; cannot invoice", salesOrder.Name))
	}

	items := make([]models.SalesInvoiceItem, 0, len(salesOrder.Items))
	for _, line := range salesOrder.Items {
		items = append(items, models.SalesInvoiceItem{
			ItemCode:           line.ItemCode,
			ItemName:           line.ItemName,
			MagentoOrderItemID: line.MagentoOrderItemID,
			Rate:               line.Rate,
			Qty:                line.Qty,
			CostCenter:         s.cfg.CostCenter,
		})
	}

	invoice := &models.SalesInvoice{
		Name:           identity.SalesInvoiceName(s.cfg.SalesInvoiceSeries, order.EntityID),
		NamingSeries:   s.cfg.SalesInvoiceSeries,
		MagentoOrderID: order.EntityID,
		SalesOrderID:   salesOrder.ID,
		CustomerID:     salesOrder.CustomerID,
		Company:        salesOrder.Company,
		DiscountAmount: salesOrder.DiscountAmount,
		DocStatus:      enums.DocStatusDraft,
		PaymentStatus:  enums.PaymentStatusUnpaid,
		Items:          items,
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating sales invoice")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"sales_invoice":    invoice.Name,
		"magento_order_id": order.EntityID,
	})
	s.logg.Info(logCtx, "created draft sales invoice")
	return invoice, nil
}

// settle submits the invoice and records one payment entry against the
// configured cash/bank account.
func (s *Service) settle(ctx context.Context, invoice *models.SalesInvoice) error {
	if !invoice.DocStatus.IsSubmitted() {
		invoice.DocStatus = enums.DocStatusSubmitted
		if err := s.repo.Update(ctx, invoice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submitting sales invoice")
		}
	}

	if invoice.PaymentStatus == enums.PaymentStatusPaid {
		return nil
	}

	entry := &models.PaymentEntry{
		Name:           identity.PaymentEntryName(invoice.Name),
		SalesInvoiceID: invoice.ID,
		BankAccount:    s.cfg.CashBankAccount,
		Amount:         invoiceTotal(invoice),
		ReferenceNo:    invoice.Name,
		ReferenceDate:  s.now(),
		DocStatus:      enums.DocStatusSubmitted,
	}
	if err := s.repo.CreatePaymentEntry(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating payment entry")
	}

	invoice.PaymentStatus = enums.PaymentStatusPaid
	if err := s.repo.Update(ctx, invoice); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking invoice paid")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"sales_invoice": invoice.Name,
		"payment_entry": entry.Name,
	})
	s.logg.Info(logCtx, "settled sales invoice")
	return nil
}

// invoiceTotal is the outstanding amount: line amounts (taxes included
// in rates) less the grand-total discount copied from the sales order.
func invoiceTotal(invoice *models.SalesInvoice) decimal.Decimal {
	total := decimal.Zero
	for _, line := range invoice.Items {
		total = total.Add(line.Rate.Mul(line.Qty))
	}
	return total.Sub(invoice.DiscountAmount)
}
