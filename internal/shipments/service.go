package shipments

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

// StorefrontShipments is the storefront surface the shipment flows use.
type StorefrontShipments interface {
	OrderShipments(ctx context.Context, orderID int64) ([]magento.Shipment, error)
	Ship(ctx context.Context, orderID int64, req magento.ShipmentRequest) (int64, error)
	MarkOrderComplete(ctx context.Context, orderID int64) error
}

// OutboundNote is a locally created delivery note eligible for the push,
// joined with its sales order's storefront linkage.
type OutboundNote struct {
	Note           models.DeliveryNote
	MagentoOrderID int64
	SalesOrderName string
}

// Repository is the persistence surface for shipment syncing. Lookups
// return (nil, nil) when no row matches.
type Repository interface {
	FindByMagentoShipmentID(ctx context.Context, magentoShipmentID int64) (*models.DeliveryNote, error)
	Create(ctx context.Context, note *models.DeliveryNote) error
	Update(ctx context.Context, note *models.DeliveryNote) error
	FindItemByMagentoProductID(ctx context.Context, magentoProductID int64) (*models.Item, error)
	PendingOutbound(ctx context.Context, since *time.Time) ([]OutboundNote, error)
}

// Service mirrors fulfillments in both directions. Inbound shipments
// become submitted delivery notes keyed by the storefront shipment id;
// outbound notes are pushed at most once, guarded by a nil shipment id.
type Service struct {
	repo       Repository
	storefront StorefrontShipments
	cfg        config.SyncConfig
	logg       *logger.Logger
}

func NewService(repo Repository, storefront StorefrontShipments, cfg config.SyncConfig, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipments repository required")
	}
	if storefront == nil {
		return nil, fmt.Errorf("storefront shipments source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{repo: repo, storefront: storefront, cfg: cfg, logg: logg}, nil
}

// SyncInbound materializes the storefront's shipments for one order as
// delivery notes. Shipments already mirrored, or orders whose sales
// order is not submitted, are skipped.
func (s *Service) SyncInbound(ctx context.Context, order magento.Order, salesOrder *models.SalesOrder) error {
	storefrontShipments, err := s.storefront.OrderShipments(ctx, order.EntityID)
	if err != nil {
		return err
	}

	for _, shipment := range storefrontShipments {
		existing, err := s.repo.FindByMagentoShipmentID(ctx, shipment.EntityID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up delivery note")
		}
		if existing != nil || !salesOrder.DocStatus.IsSubmitted() {
			continue
		}

		items, err := s.inboundItems(ctx, shipment)
		if err != nil {
			return err
		}

		shipmentID := shipment.EntityID
		orderID := shipment.OrderID
		note := &models.DeliveryNote{
			Name:              identity.DeliveryNoteName(s.cfg.DeliveryNoteSeries, shipment.EntityID),
			NamingSeries:      s.cfg.DeliveryNoteSeries,
			SalesOrderID:      salesOrder.ID,
			MagentoOrderID:    &orderID,
			MagentoShipmentID: &shipmentID,
			DocStatus:         enums.DocStatusSubmitted,
			Items:             items,
		}
		if err := s.repo.Create(ctx, note); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating delivery note")
		}

		logCtx := s.logg.WithFields(ctx, map[string]any{
			"delivery_note":       note.Name,
			"magento_shipment_id": shipment.EntityID,
		})
		s.logg.Info(logCtx, "mirrored storefront shipment")
	}
	return nil
}

func (s *Service) inboundItems(ctx context.Context, shipment magento.Shipment) ([]models.DeliveryNoteItem, error) {
	var items []models.DeliveryNoteItem
	for _, line := range shipment.Items {
		item, err := s.repo.FindItemByMagentoProductID(ctx, line.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up item")
		}
		if item == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("no ledger item for storefront product %d", line.ProductID)).
				WithDetails(map[string]any{"magento_shipment_id": shipment.EntityID})
		}
		items = append(items, models.DeliveryNoteItem{
			ItemCode:           item.ItemCode,
			MagentoOrderItemID: line.OrderItemID,
			Qty:                decimal.NewFromFloat(line.Qty),
		})
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storefront shipment has no lines").
			WithDetails(map[string]any{"magento_shipment_id": shipment.EntityID})
	}
	return items, nil
}

// PendingOutbound lists locally created delivery notes that have never
// been pushed, optionally restricted to notes modified since the cursor.
func (s *Service) PendingOutbound(ctx context.Context, since *time.Time) ([]OutboundNote, error) {
	notes, err := s.repo.PendingOutbound(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing pending delivery notes")
	}
	return notes, nil
}

// Push notifies the storefront of one fulfillment and records the
// assigned shipment id, which permanently removes the note from the
// pending set.
func (s *Service) Push(ctx context.Context, pending OutboundNote) error {
	req := magento.ShipmentRequest{Notify: true}
	for _, line := range pending.Note.Items {
		qty, _ := line.Qty.Float64()
		req.Items = append(req.Items, magento.ShipmentRequestItem{
			OrderItemID: line.MagentoOrderItemID,
			Qty:         qty,
		})
	}
	if len(req.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("delivery note %s has no lines to ship", pending.Note.Name))
	}

	shipmentID, err := s.storefront.Ship(ctx, pending.MagentoOrderID, req)
	if err != nil {
		return err
	}

	note := pending.Note
	orderID := pending.MagentoOrderID
	note.MagentoShipmentID = &shipmentID
	note.MagentoOrderID = &orderID
	if err := s.repo.Update(ctx, &note); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording pushed shipment id")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"delivery_note":       note.Name,
		"magento_order_id":    pending.MagentoOrderID,
		"magento_shipment_id": shipmentID,
	})
	s.logg.Info(logCtx, "pushed shipment to storefront")

	if s.cfg.MarkOrdersComplete {
		if err := s.storefront.MarkOrderComplete(ctx, pending.MagentoOrderID); err != nil {
			return err
		}
	}
	return nil
}
