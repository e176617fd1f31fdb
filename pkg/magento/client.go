package magento

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nasir97177/erpnext-magento/pkg/config"
	pkgerrors "github.com/nasir97177/erpnext-magento/pkg/errors"
	"github.com/nasir97177/erpnext-magento/pkg/logger"
)

// Client calls the storefront REST API with centralized auth, logging,
// and error mapping. It applies no retries; one failure per call is the
// caller's per-record problem.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
	logger     *logger.Logger
	validate   *validator.Validate

	// store-view -> website-name cache, loaded lazily once.
	websiteNames map[int64]string
}

// NewClient builds the storefront client and validates its configuration.
func NewClient(cfg config.MagentoConfig, logg *logger.Logger, httpClient *http.Client) (*Client, error) {
	if logg == nil {
		return nil, fmt.Errorf("magento logger is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("magento base url is required")
	}
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, fmt.Errorf("magento access token is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		pageSize:   pageSize,
		httpClient: httpClient,
		logger:     logg,
		validate:   validator.New(),
	}, nil
}

// ValidateOrder checks a parsed order against the boundary constraints.
func (c *Client) ValidateOrder(order Order) error {
	if err := c.validate.Struct(order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "storefront order payload invalid").
			WithDetails(map[string]any{"entity_id": order.EntityID})
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal storefront request")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create storefront request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storefront request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read storefront response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapStatusError(ctx, method, path, resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unmarshal storefront response").
			WithDetails(map[string]any{"path": path})
	}
	return nil
}

func (c *Client) mapStatusError(ctx context.Context, method, path string, status int, body []byte) error {
	logCtx := c.logger.WithFields(ctx, map[string]any{
		"method": method,
		"path":   path,
		"status": status,
	})
	c.logger.Warn(logCtx, "storefront returned error status")

	message := fmt.Sprintf("%s %s returned %d", method, path, status)
	details := map[string]any{"status": status, "body": truncate(string(body), 2048)}

	// 402 is the reserved systemic signal; everything else non-2xx is a
	// per-record integration failure.
	if status == http.StatusPaymentRequired {
		return pkgerrors.New(pkgerrors.CodePaymentRequired, message).WithDetails(details)
	}
	return pkgerrors.New(pkgerrors.CodeIntegration, message).WithDetails(details)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
