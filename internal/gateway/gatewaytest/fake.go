// Package gatewaytest provides an in-memory stand-in for the payment gateway client.
package gatewaytest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/gateway"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
)

// Fake implements the gateway operations with overridable funcs.
// Unset funcs return an empty JSON object. Submitted orders are recorded.
type Fake struct {
	CreateOrderFunc        func(ctx context.Context, order *models.OrderRequest) (*gateway.OrderCreated, error)
	GetCheckoutURLFunc     func(ctx context.Context, referenceID string) (string, error)
	RawFunc                func(ctx context.Context, op string, args ...any) (json.RawMessage, error)
	CreateSubscriptionFunc func(ctx context.Context, sub *gateway.Subscription) (*gateway.SubscriptionCreated, error)
	CancelSubscriptionFunc func(ctx context.Context, subscriptionID string) error

	mu            sync.Mutex
	orders        []*models.OrderRequest
	subscriptions []*gateway.Subscription
	calls         []Call
}

// Call records one pass-through invocation
type Call struct {
	Op   string
	Args []any
}

// Orders returns the orders submitted so far
func (f *Fake) Orders() []*models.OrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.OrderRequest(nil), f.orders...)
}

// Subscriptions returns the subscriptions submitted so far
func (f *Fake) Subscriptions() []*gateway.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*gateway.Subscription(nil), f.subscriptions...)
}

// Calls returns the pass-through invocations so far
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Fake) CreateOrder(ctx context.Context, order *models.OrderRequest) (*gateway.OrderCreated, error) {
	f.mu.Lock()
	f.orders = append(f.orders, order)
	f.mu.Unlock()

	if f.CreateOrderFunc != nil {
		return f.CreateOrderFunc(ctx, order)
	}
	ref := "gw-" + order.ExternalReferenceID
	return &gateway.OrderCreated{ReferenceID: &ref, Raw: json.RawMessage(`{"reference_id":"` + ref + `"}`)}, nil
}

func (f *Fake) GetCheckoutURL(ctx context.Context, referenceID string) (string, error) {
	if f.GetCheckoutURLFunc != nil {
		return f.GetCheckoutURLFunc(ctx, referenceID)
	}
	return "https://checkout.example/" + referenceID, nil
}

func (f *Fake) GetOrder(ctx context.Context, referenceID string) (json.RawMessage, error) {
	return f.raw(ctx, "GetOrder", referenceID)
}

func (f *Fake) GetOrderByConversationID(ctx context.Context, conversationID string) (json.RawMessage, error) {
	return f.raw(ctx, "GetOrderByConversationID", conversationID)
}

func (f *Fake) GetOrderStatus(ctx context.Context, referenceID string) (json.RawMessage, error) {
	return f.raw(ctx, "GetOrderStatus", referenceID)
}

func (f *Fake) GetOrderTransactions(ctx context.Context, referenceID string) (json.RawMessage, error) {
	return f.raw(ctx, "GetOrderTransactions", referenceID)
}

func (f *Fake) ListOrders(ctx context.Context, q models.OrderListQuery) (json.RawMessage, error) {
	return f.raw(ctx, "ListOrders", q)
}

func (f *Fake) CancelOrder(ctx context.Context, referenceID string) (json.RawMessage, error) {
	return f.raw(ctx, "CancelOrder", referenceID)
}

func (f *Fake) RefundOrder(ctx context.Context, refund gateway.Refund) (json.RawMessage, error) {
	return f.raw(ctx, "RefundOrder", refund)
}

func (f *Fake) TerminateOrder(ctx context.Context, referenceID string) (json.RawMessage, error) {
	return f.raw(ctx, "TerminateOrder", referenceID)
}

func (f *Fake) ManualCallback(ctx context.Context, referenceID, conversationID string) (json.RawMessage, error) {
	return f.raw(ctx, "ManualCallback", referenceID, conversationID)
}

func (f *Fake) GetOrderSubmerchants(ctx context.Context, page, perPage int) (json.RawMessage, error) {
	return f.raw(ctx, "GetOrderSubmerchants", page, perPage)
}

func (f *Fake) CreateOrderTerm(ctx context.Context, term *gateway.Term) (json.RawMessage, error) {
	return f.raw(ctx, "CreateOrderTerm", *term)
}

func (f *Fake) GetOrderTerm(ctx context.Context, termReferenceID string) (json.RawMessage, error) {
	return f.raw(ctx, "GetOrderTerm", termReferenceID)
}

func (f *Fake) UpdateOrderTerm(ctx context.Context, update gateway.TermUpdate) (json.RawMessage, error) {
	return f.raw(ctx, "UpdateOrderTerm", update)
}

func (f *Fake) DeleteOrderTerm(ctx context.Context, orderID, termReferenceID string) (json.RawMessage, error) {
	return f.raw(ctx, "DeleteOrderTerm", orderID, termReferenceID)
}

func (f *Fake) RefundOrderTerm(ctx context.Context, refund gateway.TermRefund) (json.RawMessage, error) {
	return f.raw(ctx, "RefundOrderTerm", refund)
}

func (f *Fake) GetOrganizationSettings(ctx context.Context) (json.RawMessage, error) {
	return f.raw(ctx, "GetOrganizationSettings")
}

func (f *Fake) CreateSubscription(ctx context.Context, sub *gateway.Subscription) (*gateway.SubscriptionCreated, error) {
	f.mu.Lock()
	f.subscriptions = append(f.subscriptions, sub)
	f.mu.Unlock()

	if f.CreateSubscriptionFunc != nil {
		return f.CreateSubscriptionFunc(ctx, sub)
	}
	ref := "sub-1"
	return &gateway.SubscriptionCreated{ReferenceID: &ref, Raw: json.RawMessage(`{"reference_id":"sub-1"}`)}, nil
}

func (f *Fake) ListSubscriptions(ctx context.Context, page, perPage int) (json.RawMessage, error) {
	return f.raw(ctx, "ListSubscriptions", page, perPage)
}

func (f *Fake) CancelSubscription(ctx context.Context, subscriptionID string) error {
	f.record("CancelSubscription", subscriptionID)
	if f.CancelSubscriptionFunc != nil {
		return f.CancelSubscriptionFunc(ctx, subscriptionID)
	}
	return nil
}

func (f *Fake) raw(ctx context.Context, op string, args ...any) (json.RawMessage, error) {
	f.record(op, args...)
	if f.RawFunc != nil {
		return f.RawFunc(ctx, op, args...)
	}
	return json.RawMessage(`{}`), nil
}

func (f *Fake) record(op string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: op, Args: args})
}
