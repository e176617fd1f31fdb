package shipments

import (
	"context"
	"strings"
	"testing"
	"time"

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
	byShipmentID map[int64]*models.DeliveryNote
	items        map[int64]*models.Item
	pending      []OutboundNote
	created      []*models.DeliveryNote
	updated      []*models.DeliveryNote
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byShipmentID: map[int64]*models.DeliveryNote{},
		items:        map[int64]*models.Item{},
	}
}

func (f *fakeRepo) FindByMagentoShipmentID(_ context.Context, id int64) (*models.DeliveryNote, error) {
	return f.byShipmentID[id], nil
}

func (f *fakeRepo) Create(_ context.Context, note *models.DeliveryNote) error {
	f.created = append(f.created, note)
	if note.MagentoShipmentID != nil {
		f.byShipmentID[*note.MagentoShipmentID] = note
	}
	return nil
}

func (f *fakeRepo) Update(_ context.Context, note *models.DeliveryNote) error {
	f.updated = append(f.updated, note)
	return nil
}

func (f *fakeRepo) FindItemByMagentoProductID(_ context.Context, id int64) (*models.Item, error) {
	return f.items[id], nil
}

func (f *fakeRepo) PendingOutbound(_ context.Context, _ *time.Time) ([]OutboundNote, error) {
	return f.pending, nil
}

type fakeStorefront struct {
	shipments      map[int64][]magento.Shipment
	shipCalls      []magento.ShipmentRequest
	shipOrderIDs   []int64
	nextShipmentID int64
	shipErr        error
	completed      []int64
}

func (f *fakeStorefront) OrderShipments(_ context.Context, orderID int64) ([]magento.Shipment, error) {
	return f.shipments[orderID], nil
}

func (f *fakeStorefront) Ship(_ context.Context, orderID int64, req magento.ShipmentRequest) (int64, error) {
	if f.shipErr != nil {
		return 0, f.shipErr
	}
	f.shipCalls = append(f.shipCalls, req)
	f.shipOrderIDs = append(f.shipOrderIDs, orderID)
	return f.nextShipmentID, nil
}

func (f *fakeStorefront) MarkOrderComplete(_ context.Context, orderID int64) error {
	f.completed = append(f.completed, orderID)
	return nil
}

func testService(t *testing.T, repo Repository, storefront StorefrontShipments, cfg config.SyncConfig) *Service {
	t.Helper()
	if cfg.DeliveryNoteSeries == "" {
		cfg.DeliveryNoteSeries = "DN-MAGENTO-"
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: &strings.Builder{}})
	svc, err := NewService(repo, storefront, cfg, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func submittedSalesOrder() *models.SalesOrder {
	return &models.SalesOrder{ID: uuid.New(), Name: "SO-MAGENTO-1001", DocStatus: enums.DocStatusSubmitted}
}

func TestSyncInboundMirrorsShipment(t *testing.T) {
	repo := newFakeRepo()
	repo.items[202] = &models.Item{ItemCode: "TSHIRT-M"}
	storefront := &fakeStorefront{shipments: map[int64][]magento.Shipment{
		1001: {{EntityID: 55, OrderID: 1001, Items: []magento.ShipmentItem{
			{OrderItemID: 11, ProductID: 202, Qty: 2},
		}}},
	}}
	svc := testService(t, repo, storefront, config.SyncConfig{})

	err := svc.SyncInbound(context.Background(), magento.Order{EntityID: 1001}, submittedSalesOrder())
	if err != nil {
		t.Fatalf("SyncInbound: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 delivery note, got %d", len(repo.created))
	}
	note := repo.created[0]
	if note.Name != "DN-MAGENTO-55" {
		t.Fatalf("name = %q", note.Name)
	}
	if note.MagentoShipmentID == nil || *note.MagentoShipmentID != 55 {
		t.Fatalf("shipment id = %+v", note.MagentoShipmentID)
	}
	if note.DocStatus != enums.DocStatusSubmitted {
		t.Fatalf("doc status = %v", note.DocStatus)
	}
	if len(note.Items) != 1 || note.Items[0].ItemCode != "TSHIRT-M" {
		t.Fatalf("items = %+v", note.Items)
	}
	if !note.Items[0].Qty.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("qty = %s", note.Items[0].Qty)
	}
}

func TestSyncInboundSkipsMirroredAndUnsubmitted(t *testing.T) {
	repo := newFakeRepo()
	repo.byShipmentID[55] = &models.DeliveryNote{Name: "DN-MAGENTO-55"}
	storefront := &fakeStorefront{shipments: map[int64][]magento.Shipment{
		1001: {{EntityID: 55, OrderID: 1001}},
		1002: {{EntityID: 56, OrderID: 1002}},
	}}
	svc := testService(t, repo, storefront, config.SyncConfig{})

	if err := svc.SyncInbound(context.Background(), magento.Order{EntityID: 1001}, submittedSalesOrder()); err != nil {
		t.Fatalf("SyncInbound mirrored: %v", err)
	}

	draft := submittedSalesOrder()
	draft.DocStatus = enums.DocStatusDraft
	if err := svc.SyncInbound(context.Background(), magento.Order{EntityID: 1002}, draft); err != nil {
		t.Fatalf("SyncInbound draft: %v", err)
	}

	if len(repo.created) != 0 {
		t.Fatalf("expected no creates, got %d", len(repo.created))
	}
}

func outboundNote() OutboundNote {
	return OutboundNote{
		Note: models.DeliveryNote{
			ID:   uuid.New(),
			Name: "DN-00001",
			Items: []models.DeliveryNoteItem{
				{ItemCode: "TSHIRT-M", MagentoOrderItemID: 11, Qty: decimal.NewFromInt(2)},
			},
		},
		MagentoOrderID: 1001,
		SalesOrderName: "SO-MAGENTO-1001",
	}
}

func TestPushRecordsAssignedShipmentID(t *testing.T) {
	repo := newFakeRepo()
	storefront := &fakeStorefront{nextShipmentID: 4711}
	svc := testService(t, repo, storefront, config.SyncConfig{})

	if err := svc.Push(context.Background(), outboundNote()); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if len(storefront.shipCalls) != 1 {
		t.Fatalf("expected 1 ship call, got %d", len(storefront.shipCalls))
	}
	req := storefront.shipCalls[0]
	if !req.Notify {
		t.Fatal("ship request must notify the shopper")
	}
	if len(req.Items) != 1 || req.Items[0].OrderItemID != 11 || req.Items[0].Qty != 2 {
		t.Fatalf("ship items = %+v", req.Items)
	}
	if storefront.shipOrderIDs[0] != 1001 {
		t.Fatalf("shipped order id = %d", storefront.shipOrderIDs[0])
	}

	if len(repo.updated) != 1 {
		t.Fatalf("expected the note to be updated, got %d updates", len(repo.updated))
	}
	updated := repo.updated[0]
	if updated.MagentoShipmentID == nil || *updated.MagentoShipmentID != 4711 {
		t.Fatalf("shipment id not recorded: %+v", updated.MagentoShipmentID)
	}
	if updated.MagentoOrderID == nil || *updated.MagentoOrderID != 1001 {
		t.Fatalf("order id not recorded: %+v", updated.MagentoOrderID)
	}
	if len(storefront.completed) != 0 {
		t.Fatal("mark-complete is off by default")
	}
}

func TestPushLeavesNotePendingOnFailure(t *testing.T) {
	repo := newFakeRepo()
	storefront := &fakeStorefront{shipErr: pkgerrors.New(pkgerrors.CodeIntegration, "boom")}
	svc := testService(t, repo, storefront, config.SyncConfig{})

	err := svc.Push(context.Background(), outboundNote())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeIntegration {
		t.Fatalf("expected integration error, got %v", err)
	}
	if len(repo.updated) != 0 {
		t.Fatal("failed push must not record a shipment id")
	}
}

func TestPushMarksOrderCompleteWhenEnabled(t *testing.T) {
	repo := newFakeRepo()
	storefront := &fakeStorefront{nextShipmentID: 4711}
	svc := testService(t, repo, storefront, config.SyncConfig{MarkOrdersComplete: true})

	if err := svc.Push(context.Background(), outboundNote()); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if len(storefront.completed) != 1 || storefront.completed[0] != 1001 {
		t.Fatalf("completed = %v", storefront.completed)
	}
}

func TestPushRejectsEmptyNotes(t *testing.T) {
	svc := testService(t, newFakeRepo(), &fakeStorefront{}, config.SyncConfig{})

	empty := outboundNote()
	empty.Note.Items = nil

	err := svc.Push(context.Background(), empty)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
