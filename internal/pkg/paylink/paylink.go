// Package paylink integrates the hosted checkout-link provider. Every call
// is best effort: failures are logged and reported as a status, never as an
// error, so callers cannot accidentally treat the provider as fatal.
package paylink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

type Status string

const (
	// StatusOK means the provider accepted the request.
	StatusOK Status = "ok"
	// StatusSkipped means the client has no credentials configured.
	StatusSkipped Status = "skipped"
	// StatusFailed means the provider call failed; details were logged.
	StatusFailed Status = "failed"
)

// Result carries the provider identifiers of a created checkout link.
type Result struct {
	Status    Status `json:"status"`
	URL       string `json:"url,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	PriceID   string `json:"price_id,omitempty"`
	LinkID    string `json:"link_id,omitempty"`
}

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	loggerf func(format string, args ...interface{})
}

// NewFromEnv builds a client from PAYLINK_BASE_URL / PAYLINK_API_KEY.
// Missing credentials are fine; the client then reports StatusSkipped.
func NewFromEnv(loggerf func(format string, args ...interface{})) *Client {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Client{
		baseURL: os.Getenv("PAYLINK_BASE_URL"),
		apiKey:  os.Getenv("PAYLINK_API_KEY"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		loggerf: loggerf,
	}
}

func (c *Client) configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type createLinkRequest struct {
	AmountMinor int64  `json:"amount_minor"`
	Label       string `json:"label"`
	RedirectURL string `json:"redirect_url"`
	Recurring   bool   `json:"recurring"`
}

type createLinkResponse struct {
	URL       string `json:"url"`
	ProductID string `json:"product_id"`
	PriceID   string `json:"price_id"`
	LinkID    string `json:"link_id"`
}

// CreateLink requests a hosted checkout link for an amount in minor
// currency units (cents).
func (c *Client) CreateLink(ctx context.Context, amountMinor int64, label, redirectURL string, recurring bool) Result {
	if !c.configured() {
		c.loggerf("level=warn msg=paylink not configured, skipping link creation label=%q", label)
		return Result{Status: StatusSkipped}
	}

	body, _ := json.Marshal(createLinkRequest{
		AmountMinor: amountMinor,
		Label:       label,
		RedirectURL: redirectURL,
		Recurring:   recurring,
	})

	var out createLinkResponse
	if err := c.post(ctx, "/v1/payment_links", body, &out); err != nil {
		c.loggerf("level=error msg=paylink create failed label=%q err=%v", label, err)
		return Result{Status: StatusFailed}
	}

	return Result{
		Status:    StatusOK,
		URL:       out.URL,
		ProductID: out.ProductID,
		PriceID:   out.PriceID,
		LinkID:    out.LinkID,
	}
}

type deactivateRequest struct {
	ProductID string `json:"product_id,omitempty"`
	PriceID   string `json:"price_id,omitempty"`
	LinkID    string `json:"link_id,omitempty"`
}

// Deactivate disables a previously created link by its identifiers.
func (c *Client) Deactivate(ctx context.Context, productID, priceID, linkID string) Status {
	if !c.configured() {
		return StatusSkipped
	}
	if productID == "" && priceID == "" && linkID == "" {
		return StatusSkipped
	}

	body, _ := json.Marshal(deactivateRequest{
		ProductID: productID,
		PriceID:   priceID,
		LinkID:    linkID,
	})
	if err := c.post(ctx, "/v1/payment_links/deactivate", body, nil); err != nil {
		c.loggerf("level=error msg=paylink deactivate failed link_id=%q err=%v", linkID, err)
		return StatusFailed
	}
	return StatusOK
}

func (c *Client) post(ctx context.Context, path string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
