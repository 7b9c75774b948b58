package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/config"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
)

// ErrNoCheckoutURL is returned when the gateway order carries no checkout URL
var ErrNoCheckoutURL = errors.New("gateway order has no checkout url")

// maxResponseBytes bounds how much of a gateway response is read
const maxResponseBytes = 4 << 20

// Client talks JSON over HTTP to the Tapsilat payment gateway
// Calls are synchronous and never retried
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a gateway client from configuration
func NewClient(cfg config.GatewayConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithHTTPClient replaces the underlying HTTP client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// CreateOrder submits a canonical order
func (c *Client) CreateOrder(ctx context.Context, order *models.OrderRequest) (*OrderCreated, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/order/create", nil, newOrderPayload(order), &raw); err != nil {
		return nil, err
	}

	created := &OrderCreated{Raw: raw}
	if err := json.Unmarshal(raw, created); err != nil {
		return nil, fmt.Errorf("failed to decode create order response: %w", err)
	}
	return created, nil
}

// GetCheckoutURL looks up the hosted checkout page for an order
func (c *Client) GetCheckoutURL(ctx context.Context, referenceID string) (string, error) {
	var details struct {
		CheckoutURL *string `json:"checkout_url"`
	}
	if err := c.do(ctx, http.MethodGet, "/order/"+url.PathEscape(referenceID), nil, nil, &details); err != nil {
		return "", err
	}
	if details.CheckoutURL == nil || *details.CheckoutURL == "" {
		return "", ErrNoCheckoutURL
	}
	return *details.CheckoutURL, nil
}

// GetOrder returns the gateway's order record verbatim
func (c *Client) GetOrder(ctx context.Context, referenceID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/order/"+url.PathEscape(referenceID), nil, nil)
}

// GetOrderByConversationID returns the order matching a conversation ID
func (c *Client) GetOrderByConversationID(ctx context.Context, conversationID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/order/conversation/"+url.PathEscape(conversationID), nil, nil)
}

// GetOrderStatus returns the payment status of an order
func (c *Client) GetOrderStatus(ctx context.Context, referenceID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/order/"+url.PathEscape(referenceID)+"/status", nil, nil)
}

// GetOrderTransactions returns the transactions recorded against an order
func (c *Client) GetOrderTransactions(ctx context.Context, referenceID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/order/"+url.PathEscape(referenceID)+"/transactions", nil, nil)
}

// ListOrders returns a page of orders
func (c *Client) ListOrders(ctx context.Context, q models.OrderListQuery) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("per_page", strconv.Itoa(q.PerPage))
	setIfNotEmpty(query, "start_date", q.StartDate)
	setIfNotEmpty(query, "end_date", q.EndDate)
	setIfNotEmpty(query, "organization_id", q.OrganizationID)
	setIfNotEmpty(query, "related_reference_id", q.RelatedReferenceID)

	return c.raw(ctx, http.MethodGet, "/order/list", query, nil)
}

// CancelOrder cancels an order
func (c *Client) CancelOrder(ctx context.Context, referenceID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/order/cancel", nil, referencePayload{ReferenceID: referenceID})
}

// RefundOrder refunds amount against an order
func (c *Client) RefundOrder(ctx context.Context, refund Refund) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/order/refund", nil, refundPayload{
		ReferenceID: refund.ReferenceID,
		Amount:      refund.Amount.InexactFloat64(),
	})
}

// TerminateOrder terminates an order
func (c *Client) TerminateOrder(ctx context.Context, referenceID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/order/terminate", nil, referencePayload{ReferenceID: referenceID})
}

// ManualCallback asks the gateway to re-deliver an order callback
func (c *Client) ManualCallback(ctx context.Context, referenceID, conversationID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/order/callback", nil, referencePayload{
		ReferenceID:    referenceID,
		ConversationID: conversationID,
	})
}

// CreateSubscription creates a recurring subscription
func (c *Client) CreateSubscription(ctx context.Context, sub *Subscription) (*SubscriptionCreated, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/subscription/create", nil, newSubscriptionPayload(sub), &raw); err != nil {
		return nil, err
	}

	created := &SubscriptionCreated{Raw: raw}
	if err := json.Unmarshal(raw, created); err != nil {
		return nil, fmt.Errorf("failed to decode create subscription response: %w", err)
	}
	return created, nil
}

// ListSubscriptions returns a page of subscriptions
func (c *Client) ListSubscriptions(ctx context.Context, page, perPage int) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	return c.raw(ctx, http.MethodGet, "/subscription/list", query, nil)
}

// CancelSubscription cancels a subscription
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return c.do(ctx, http.MethodPost, "/subscription/cancel", nil, subscriptionCancelPayload{
		ReferenceID:    subscriptionID,
		SubscriptionID: subscriptionID,
	}, nil)
}

// GetOrderSubmerchants returns a page of the sub-merchants orders were split across
func (c *Client) GetOrderSubmerchants(ctx context.Context, page, perPage int) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	return c.raw(ctx, http.MethodGet, "/order/submerchants", query, nil)
}

// CreateOrderTerm adds a payment term to an order
func (c *Client) CreateOrderTerm(ctx context.Context, term *Term) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/order/term", nil, termPayload{
		OrderID:         term.OrderID,
		TermReferenceID: term.TermReferenceID,
		Amount:          term.Amount.InexactFloat64(),
		DueDate:         term.DueDate,
		TermSequence:    term.Sequence,
		Required:        term.Required,
		Status:          term.Status,
	})
}

// GetOrderTerm returns a payment term
func (c *Client) GetOrderTerm(ctx context.Context, termReferenceID string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("term_reference_id", termReferenceID)

	return c.raw(ctx, http.MethodGet, "/order/term", query, nil)
}

// UpdateOrderTerm changes a payment term
func (c *Client) UpdateOrderTerm(ctx context.Context, update TermUpdate) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPatch, "/order/term", nil, termUpdatePayload{
		TermReferenceID: update.TermReferenceID,
		Amount:          optionalFloat(update.Amount),
		DueDate:         update.DueDate,
		Required:        update.Required,
		Status:          update.Status,
	})
}

// DeleteOrderTerm removes a payment term
func (c *Client) DeleteOrderTerm(ctx context.Context, orderID, termReferenceID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodDelete, "/order/term", nil, termDeletePayload{
		OrderID:         orderID,
		TermReferenceID: termReferenceID,
	})
}

// RefundOrderTerm refunds a paid payment term
func (c *Client) RefundOrderTerm(ctx context.Context, refund TermRefund) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/order/term/refund", nil, termRefundPayload{
		TermID:      refund.TermReferenceID,
		ReferenceID: refund.TermReferenceID,
		Amount:      optionalFloat(refund.Amount),
	})
}

// GetOrganizationSettings returns the merchant organization settings
func (c *Client) GetOrganizationSettings(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/organization/settings", nil, nil)
}

func (c *Client) raw(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, method, path, query, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do performs one request; out may be nil when the body is not needed
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}
	if raw, ok := out.(*json.RawMessage); ok {
		if !json.Valid(data) {
			return fmt.Errorf("gateway returned invalid JSON")
		}
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
