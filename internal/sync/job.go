package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/nasir97177/erpnext-magento/internal/shipments"
	"github.com/nasir97177/erpnext-magento/pkg/config"
	"github.com/nasir97177/erpnext-magento/pkg/db/models"
	pkgerrors "github.com/nasir97177/erpnext-magento/pkg/errors"
	"github.com/nasir97177/erpnext-magento/pkg/logger"
	"github.com/nasir97177/erpnext-magento/pkg/magento"
	"github.com/nasir97177/erpnext-magento/pkg/metrics"
)

const (
	methodInbound  = "sync_storefront_orders"
	methodOutbound = "sync_ledger_shipments"

	directionInbound  = "inbound"
	directionOutbound = "outbound"
)

// Summary counts what one pass touched.
type Summary struct {
	StorefrontOrders int
	LedgerShipments  int
	Failures         int
}

// StorefrontOrders feeds the inbound pass.
type StorefrontOrders interface {
	Orders(ctx context.Context, modifiedAfter time.Time) ([]magento.Order, error)
	ValidateOrder(order magento.Order) error
}

// CustomerProvisioner resolves or creates the ledger customer for an order.
type CustomerProvisioner interface {
	Ensure(ctx context.Context, order magento.Order) (*models.Customer, error)
}

// AddressSyncer refreshes ledger copies of an account shopper's addresses.
type AddressSyncer interface {
	SyncOrderAddresses(ctx context.Context, customer *models.Customer, addrs []*magento.OrderAddress) error
}

// OrderMaterializer turns a storefront order into a submitted sales order.
type OrderMaterializer interface {
	Ensure(ctx context.Context, order magento.Order, customer *models.Customer) (*models.SalesOrder, bool, error)
}

// InvoicePipeline advances the invoice lifecycle behind one sales order.
type InvoicePipeline interface {
	Sync(ctx context.Context, order magento.Order, salesOrder *models.SalesOrder) error
}

// ShipmentSyncer mirrors fulfillments in both directions.
type ShipmentSyncer interface {
	SyncInbound(ctx context.Context, order magento.Order, salesOrder *models.SalesOrder) error
	PendingOutbound(ctx context.Context, since *time.Time) ([]shipments.OutboundNote, error)
	Push(ctx context.Context, pending shipments.OutboundNote) error
}

// StateRepository persists the pass cursors.
type StateRepository interface {
	Get(ctx context.Context) (*models.SyncState, error)
	Update(ctx context.Context, state *models.SyncState) error
}

// FailureRecorder writes the operator-facing sync log.
type FailureRecorder interface {
	Failure(ctx context.Context, method, title string, cause error, payload any)
	Success(ctx context.Context, method, title string)
}

// Job runs one full synchronization pass: inbound storefront orders
// first, then the outbound shipment push. Every record is its own error
// boundary; only the reserved payment-required signal aborts a pass.
type Job struct {
	storefront StorefrontOrders
	customers  CustomerProvisioner
	addrs      AddressSyncer
	orders     OrderMaterializer
	invoices   InvoicePipeline
	shipments  ShipmentSyncer
	state      StateRepository
	recorder   FailureRecorder
	cfg        config.SyncConfig
	metrics    *metrics.SyncMetrics
	logg       *logger.Logger
	now        func() time.Time
}

// JobParams carries the orchestrator's dependencies.
type JobParams struct {
	Storefront StorefrontOrders
	Customers  CustomerProvisioner
	Addresses  AddressSyncer
	Orders     OrderMaterializer
	Invoices   InvoicePipeline
	Shipments  ShipmentSyncer
	State      StateRepository
	Recorder   FailureRecorder
	Config     config.SyncConfig
	Metrics    *metrics.SyncMetrics
	Logger     *logger.Logger
}

func NewJob(p JobParams) (*Job, error) {
	if p.Storefront == nil {
		return nil, fmt.Errorf("storefront orders source required")
	}
	if p.Customers == nil {
		return nil, fmt.Errorf("customer provisioner required")
	}
	if p.Addresses == nil {
		return nil, fmt.Errorf("address syncer required")
	}
	if p.Orders == nil {
		return nil, fmt.Errorf("order materializer required")
	}
	if p.Invoices == nil {
		return nil, fmt.Errorf("invoice pipeline required")
	}
	if p.Shipments == nil {
		return nil, fmt.Errorf("shipment syncer required")
	}
	if p.State == nil {
		return nil, fmt.Errorf("state repository required")
	}
	if p.Recorder == nil {
		return nil, fmt.Errorf("failure recorder required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Job{
		storefront: p.Storefront,
		customers:  p.Customers,
		addrs:      p.Addresses,
		orders:     p.Orders,
		invoices:   p.Invoices,
		shipments:  p.Shipments,
		state:      p.State,
		recorder:   p.Recorder,
		cfg:        p.Config,
		metrics:    p.Metrics,
		logg:       p.Logger,
		now:        time.Now,
	}, nil
}

// Name identifies the job on the worker registry.
func (j *Job) Name() string { return "order-sync" }

// Run executes one pass and satisfies the worker job contract.
func (j *Job) Run(ctx context.Context) error {
	_, err := j.RunPass(ctx)
	return err
}

// RunPass executes the inbound and outbound passes and reports counts.
func (j *Job) RunPass(ctx context.Context) (Summary, error) {
	var summary Summary

	state, err := j.state.Get(ctx)
	if err != nil {
		return summary, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading sync state")
	}

	if err := j.runInbound(ctx, state, &summary); err != nil {
		return summary, err
	}
	if err := j.runOutbound(ctx, state, &summary); err != nil {
		return summary, err
	}

	j.recorder.Success(ctx, j.Name(), fmt.Sprintf(
		"synced %d storefront orders, pushed %d shipments, %d failures",
		summary.StorefrontOrders, summary.LedgerShipments, summary.Failures))
	return summary, nil
}

func (j *Job) runInbound(ctx context.Context, state *models.SyncState, summary *Summary) error {
	start := j.now()
	defer func() { j.metrics.ObservePass(directionInbound, j.now().Sub(start)) }()

	var modifiedAfter time.Time
	if state.LastInboundSyncAt != nil {
		modifiedAfter = *state.LastInboundSyncAt
	}

	orders, err := j.storefront.Orders(ctx, modifiedAfter)
	if err != nil {
		if pkgerrors.AbortsPass(err) {
			j.abort(ctx, methodInbound, err, nil)
			return err
		}
		return err
	}

	failures := 0
	for _, order := range orders {
		orderCtx := j.logg.WithOrderID(ctx, fmt.Sprintf("%d", order.EntityID))

		if err := j.syncOrder(orderCtx, order); err != nil {
			if pkgerrors.AbortsPass(err) {
				j.abort(orderCtx, methodInbound, err, order)
				return err
			}
			failures++
			j.metrics.IncFailure(directionInbound)
			j.recorder.Failure(orderCtx, methodInbound,
				fmt.Sprintf("storefront order %d failed", order.EntityID), err, order)
			continue
		}
		summary.StorefrontOrders++
	}
	summary.Failures += failures
	j.metrics.AddRecords(directionInbound, summary.StorefrontOrders)

	// The cursor only advances after a clean sweep so failed orders are
	// picked up again on the next pass.
	if failures == 0 {
		state.LastInboundSyncAt = &start
		if err := j.state.Update(ctx, state); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advancing inbound cursor")
		}
	}
	return nil
}

// syncOrder runs the whole per-order chain: validation, customer,
// addresses, sales order, then the dependent document flows.
func (j *Job) syncOrder(ctx context.Context, order magento.Order) error {
	if err := j.storefront.ValidateOrder(order); err != nil {
		return err
	}

	customer, err := j.customers.Ensure(ctx, order)
	if err != nil {
		return err
	}

	if !order.IsGuest() {
		orderAddrs := []*magento.OrderAddress{order.BillingAddress}
		if shipping := order.ShippingAddress(); shipping != nil {
			shipping.AddressType = "shipping"
			orderAddrs = append(orderAddrs, shipping)
		}
		if err := j.addrs.SyncOrderAddresses(ctx, customer, orderAddrs); err != nil {
			return err
		}
	}

	salesOrder, _, err := j.orders.Ensure(ctx, order, customer)
	if err != nil {
		return err
	}

	if j.cfg.SyncDeliveryNote {
		if err := j.shipments.SyncInbound(ctx, order, salesOrder); err != nil {
			return err
		}
	}

	if j.cfg.SyncSalesInvoice {
		if err := j.invoices.Sync(ctx, order, salesOrder); err != nil {
			return err
		}
	}
	return nil
}

func (j *Job) runOutbound(ctx context.Context, state *models.SyncState, summary *Summary) error {
	start := j.now()
	defer func() { j.metrics.ObservePass(directionOutbound, j.now().Sub(start)) }()

	pending, err := j.shipments.PendingOutbound(ctx, state.LastOutboundSyncAt)
	if err != nil {
		return err
	}

	failures := 0
	for _, note := range pending {
		if err := j.shipments.Push(ctx, note); err != nil {
			if pkgerrors.AbortsPass(err) {
				j.abort(ctx, methodOutbound, err, note.Note.Name)
				return err
			}
			failures++
			j.metrics.IncFailure(directionOutbound)
			j.recorder.Failure(ctx, methodOutbound,
				fmt.Sprintf("delivery note %s failed to push", note.Note.Name), err, note.Note)
			continue
		}
		summary.LedgerShipments++
	}
	summary.Failures += failures
	j.metrics.AddRecords(directionOutbound, summary.LedgerShipments)

	if failures == 0 {
		state.LastOutboundSyncAt = &start
		if err := j.state.Update(ctx, state); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advancing outbound cursor")
		}
	}
	return nil
}

func (j *Job) abort(ctx context.Context, method string, err error, payload any) {
	j.metrics.IncPassAbort()
	j.recorder.Failure(ctx, method, "sync pass aborted", err, payload)
	j.logg.Error(ctx, "sync pass aborted", err)
}
