package magento

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nasir97177/erpnext-magento/pkg/config"
	pkgerrors "github.com/nasir97177/erpnext-magento/pkg/errors"
	"github.com/nasir97177/erpnext-magento/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logg := logger.New(logger.Options{ServiceName: "test", Output: &strings.Builder{}})
	client, err := NewClient(config.MagentoConfig{
		BaseURL:     srv.URL,
		AccessToken: "token-1",
		PageSize:    2,
	}, logg, srv.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestNewClientRequiresBaseURLAndToken(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: &strings.Builder{}})
	if _, err := NewClient(config.MagentoConfig{AccessToken: "t"}, logg, nil); err == nil {
		t.Fatal("expected error for missing base url")
	}
	if _, err := NewClient(config.MagentoConfig{BaseURL: "http://x"}, logg, nil); err == nil {
		t.Fatal("expected error for missing access token")
	}
}

func TestOrdersPaginatesAndSendsBearerToken(t *testing.T) {
	var pagesSeen []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("authorization header = %q", got)
		}
		page := r.URL.Query().Get("searchCriteria[currentPage]")
		pagesSeen = append(pagesSeen, page)

		res := searchResult[Order]{TotalCount: 3}
		switch page {
		case "1":
			res.Items = []Order{{EntityID: 1}, {EntityID: 2}}
		case "2":
			res.Items = []Order{{EntityID: 3}}
		}
		json.NewEncoder(w).Encode(res)
	}))

	orders, err := client.Orders(context.Background(), time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	if len(pagesSeen) != 2 {
		t.Fatalf("expected 2 pages requested, got %v", pagesSeen)
	}
}

func TestOrdersFiltersByModifiedCursor(t *testing.T) {
	var gotValue, gotCondition string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotValue = r.URL.Query().Get("searchCriteria[filter_groups][0][filters][0][value]")
		gotCondition = r.URL.Query().Get("searchCriteria[filter_groups][0][filters][0][condition_type]")
		json.NewEncoder(w).Encode(searchResult[Order]{})
	}))

	cursor := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	if _, err := client.Orders(context.Background(), cursor); err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if gotValue != "2024-05-06 07:08:09" {
		t.Fatalf("cursor value = %q", gotValue)
	}
	if gotCondition != "gteq" {
		t.Fatalf("condition = %q", gotCondition)
	}
}

func TestPaymentRequiredAbortsAndOtherStatusesDoNot(t *testing.T) {
	status := http.StatusPaymentRequired
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, `{"message":"account suspended"}`)
	}))

	_, err := client.Orders(context.Background(), time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	if pkgerrors.CodeOf(err) != pkgerrors.CodePaymentRequired {
		t.Fatalf("code = %v, want payment required", pkgerrors.CodeOf(err))
	}
	if !pkgerrors.AbortsPass(err) {
		t.Fatal("payment required must abort the pass")
	}

	status = http.StatusInternalServerError
	_, err = client.Orders(context.Background(), time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	if pkgerrors.CodeOf(err) != pkgerrors.CodeIntegration {
		t.Fatalf("code = %v, want integration", pkgerrors.CodeOf(err))
	}
	if pkgerrors.AbortsPass(err) {
		t.Fatal("ordinary failures must not abort the pass")
	}
}

func TestShipParsesStringAndNumberResponses(t *testing.T) {
	body := `"4711"`
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/rest/V1/order/42/ship" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req ShipmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Items) != 1 || req.Items[0].OrderItemID != 9 {
			t.Errorf("unexpected request items: %+v", req.Items)
		}
		fmt.Fprint(w, body)
	}))

	req := ShipmentRequest{Items: []ShipmentRequestItem{{OrderItemID: 9, Qty: 2}}}
	id, err := client.Ship(context.Background(), 42, req)
	if err != nil {
		t.Fatalf("Ship: %v", err)
	}
	if id != 4711 {
		t.Fatalf("shipment id = %d", id)
	}

	body = `4712`
	id, err = client.Ship(context.Background(), 42, req)
	if err != nil {
		t.Fatalf("Ship with numeric body: %v", err)
	}
	if id != 4712 {
		t.Fatalf("shipment id = %d", id)
	}
}

func TestWebsiteNameByStoreIDCachesLookups(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/rest/V1/store/storeViews":
			json.NewEncoder(w).Encode([]storeView{{ID: 1, WebsiteID: 10}, {ID: 2, WebsiteID: 20}})
		case "/rest/V1/store/websites":
			json.NewEncoder(w).Encode([]website{{ID: 10, Name: "Main Website"}, {ID: 20, Name: "Outlet"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	name, err := client.WebsiteNameByStoreID(context.Background(), 2)
	if err != nil {
		t.Fatalf("WebsiteNameByStoreID: %v", err)
	}
	if name != "Outlet" {
		t.Fatalf("name = %q", name)
	}

	if _, err := client.WebsiteNameByStoreID(context.Background(), 1); err != nil {
		t.Fatalf("cached lookup: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", calls)
	}

	_, err = client.WebsiteNameByStoreID(context.Background(), 99)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("unknown store view: code = %v", pkgerrors.CodeOf(err))
	}
}

func TestValidateOrderRejectsMissingBillingAddress(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	order := Order{EntityID: 1, Items: []OrderItem{{ItemID: 5}}}
	err := client.ValidateOrder(order)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	order.BillingAddress = &OrderAddress{Firstname: "Jane", Street: []string{"1 Main St"}}
	if err := client.ValidateOrder(order); err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}
}
