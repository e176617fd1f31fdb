package magento

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	pkgerrors "github.com/nasir97177/erpnext-magento/pkg/errors"
)

// timeFormat is the storefront's search-criteria timestamp layout (UTC).
const timeFormat = "2006-01-02 15:04:05"

// Orders lists orders modified at or after the given cursor, paging
// through the search endpoint until the result set is exhausted.
func (c *Client) Orders(ctx context.Context, modifiedAfter time.Time) ([]Order, error) {
	var out []Order
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("searchCriteria[filter_groups][0][filters][0][field]", "updated_at")
		q.Set("searchCriteria[filter_groups][0][filters][0][value]", modifiedAfter.UTC().Format(timeFormat))
		q.Set("searchCriteria[filter_groups][0][filters][0][condition_type]", "gteq")
		q.Set("searchCriteria[sortOrders][0][field]", "entity_id")
		q.Set("searchCriteria[sortOrders][0][direction]", "ASC")
		q.Set("searchCriteria[pageSize]", strconv.Itoa(c.pageSize))
		q.Set("searchCriteria[currentPage]", strconv.Itoa(page))

		var res searchResult[Order]
		if err := c.get(ctx, "/rest/V1/orders?"+q.Encode(), &res); err != nil {
			return nil, err
		}
		out = append(out, res.Items...)
		if len(res.Items) < c.pageSize || len(out) >= res.TotalCount {
			break
		}
	}
	return out, nil
}

// OrderInvoices lists the storefront invoices created for one order.
func (c *Client) OrderInvoices(ctx context.Context, orderID int64) ([]Invoice, error) {
	q := url.Values{}
	q.Set("searchCriteria[filter_groups][0][filters][0][field]", "order_id")
	q.Set("searchCriteria[filter_groups][0][filters][0][value]", strconv.FormatInt(orderID, 10))
	q.Set("searchCriteria[filter_groups][0][filters][0][condition_type]", "eq")

	var res searchResult[Invoice]
	if err := c.get(ctx, "/rest/V1/invoices?"+q.Encode(), &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// OrderShipments lists the storefront shipments recorded for one order.
func (c *Client) OrderShipments(ctx context.Context, orderID int64) ([]Shipment, error) {
	q := url.Values{}
	q.Set("searchCriteria[filter_groups][0][filters][0][field]", "order_id")
	q.Set("searchCriteria[filter_groups][0][filters][0][value]", strconv.FormatInt(orderID, 10))
	q.Set("searchCriteria[filter_groups][0][filters][0][condition_type]", "eq")

	var res searchResult[Shipment]
	if err := c.get(ctx, "/rest/V1/shipments?"+q.Encode(), &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// WebsiteNameByStoreID resolves a store view to its website name, the key
// for per-website price list selection. The full store/website tables are
// small and fetched once per client lifetime.
func (c *Client) WebsiteNameByStoreID(ctx context.Context, storeID int64) (string, error) {
	if c.websiteNames == nil {
		if err := c.loadWebsiteNames(ctx); err != nil {
			return "", err
		}
	}
	name, ok := c.websiteNames[storeID]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("no website found for store view %d", storeID))
	}
	return name, nil
}

func (c *Client) loadWebsiteNames(ctx context.Context) error {
	var views []storeView
	if err := c.get(ctx, "/rest/V1/store/storeViews", &views); err != nil {
		return err
	}
	var sites []website
	if err := c.get(ctx, "/rest/V1/store/websites", &sites); err != nil {
		return err
	}

	byWebsite := make(map[int64]string, len(sites))
	for _, w := range sites {
		byWebsite[w.ID] = w.Name
	}
	names := make(map[int64]string, len(views))
	for _, v := range views {
		if name, ok := byWebsite[v.WebsiteID]; ok {
			names[v.ID] = name
		}
	}
	c.websiteNames = names
	return nil
}

// Ship notifies the storefront that an order has shipped and returns the
// shipment id it assigned. The endpoint answers with a bare JSON string
// or number depending on version, so both are accepted.
func (c *Client) Ship(ctx context.Context, orderID int64, req ShipmentRequest) (int64, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/rest/V1/order/%d/ship", orderID)
	if err := c.post(ctx, path, req, &raw); err != nil {
		return 0, err
	}
	return parseShipmentID(raw, path)
}

func parseShipmentID(raw json.RawMessage, path string) (int64, error) {
	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber, nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		id, convErr := strconv.ParseInt(asString, 10, 64)
		if convErr == nil {
			return id, nil
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeValidation, "unparseable shipment id in storefront response").
		WithDetails(map[string]any{"path": path, "body": truncate(string(raw), 256)})
}

// MarkOrderComplete moves a fully shipped and invoiced order to the
// storefront's complete status.
func (c *Client) MarkOrderComplete(ctx context.Context, orderID int64) error {
	body := map[string]any{
		"entity": map[string]any{
			"entity_id": orderID,
			"state":     "complete",
			"status":    "complete",
		},
	}
	return c.post(ctx, "/rest/V1/orders", body, nil)
}
