package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/checkout"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/gateway"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
)

const (
	defaultSubscriptionCycle = 12
	defaultSubscriberCity    = "Istanbul"
	defaultSubscriberZip     = "34000"
)

// SubscriptionGateway is the subset of the payment gateway client used for subscriptions
type SubscriptionGateway interface {
	CreateSubscription(ctx context.Context, sub *gateway.Subscription) (*gateway.SubscriptionCreated, error)
	ListSubscriptions(ctx context.Context, page, perPage int) (json.RawMessage, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	GetCheckoutURL(ctx context.Context, referenceID string) (string, error)
}

// SubscriptionService handles recurring payment subscriptions
type SubscriptionService struct {
	gateway SubscriptionGateway
	log     *slog.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(gw SubscriptionGateway, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{gateway: gw, log: log}
}

// SubscriptionResult is the outcome of a subscription creation
type SubscriptionResult struct {
	ReferenceID *string
	CheckoutURL *string
}

// Create validates req, applies defaults and creates the subscription
func (s *SubscriptionService) Create(ctx context.Context, req models.SubscriptionRequest, baseURL string) (*SubscriptionResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, checkout.MissingField("name", "name field is required")
	}
	if strings.TrimSpace(req.SubscriberEmail) == "" {
		return nil, checkout.MissingField("subscriber_email", "subscriber_email field is required")
	}
	if !req.Amount.IsPositive() {
		return nil, checkout.InvalidAmount("amount", "Subscription amount must be positive")
	}

	sub := newSubscription(req, baseURL)

	created, err := s.gateway.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}

	result := &SubscriptionResult{ReferenceID: created.ReferenceID}
	if created.OrderReferenceID != nil && *created.OrderReferenceID != "" {
		url, err := s.gateway.GetCheckoutURL(ctx, *created.OrderReferenceID)
		if err != nil {
			s.log.Warn("failed to get subscription checkout url", "order_reference_id", *created.OrderReferenceID, "error", err)
		} else {
			result.CheckoutURL = &url
		}
	}

	return result, nil
}

// List returns a page of subscriptions
func (s *SubscriptionService) List(ctx context.Context, page, perPage int) (json.RawMessage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return s.gateway.ListSubscriptions(ctx, page, perPage)
}

// Cancel cancels a subscription
func (s *SubscriptionService) Cancel(ctx context.Context, req models.SubscriptionCancelRequest) error {
	if strings.TrimSpace(req.SubscriptionID) == "" {
		return checkout.MissingField("subscription_id", "Subscription ID is required")
	}
	return s.gateway.CancelSubscription(ctx, req.SubscriptionID)
}

func newSubscription(req models.SubscriptionRequest, baseURL string) *gateway.Subscription {
	name := strings.TrimSpace(req.SubscriberName)
	if name == "" {
		name = req.SubscriberEmail
	}
	first, last := checkout.SplitName(name)

	period := req.Period
	if period < 1 {
		period = 1
	}
	paymentDate := req.PaymentDate
	if paymentDate < 1 {
		paymentDate = 1
	}
	cycle := req.Cycle
	if cycle < 1 {
		cycle = defaultSubscriptionCycle
	}
	city := orDefault(req.City, defaultSubscriberCity)
	zip := orDefault(req.ZipCode, defaultSubscriberZip)

	sub := &gateway.Subscription{
		Title:       req.Name,
		Amount:      req.Amount.Round(2),
		Currency:    checkout.DefaultCurrency,
		Period:      period,
		PaymentDate: paymentDate,
		Cycle:       cycle,
		CardID:      req.CardID,
		User: gateway.SubscriptionUser{
			FirstName:      first,
			LastName:       last,
			Email:          req.SubscriberEmail,
			Phone:          req.SubscriberPhone,
			Address:        req.Address,
			City:           city,
			Country:        models.Country,
			ZipCode:        zip,
			IdentityNumber: req.IdentityNumber,
		},
		Billing: models.Address{
			ContactName: name,
			City:        city,
			Country:     models.Country,
			Address:     req.Address,
			ZipCode:     zip,
		},
	}

	if base := strings.TrimRight(baseURL, "/"); base != "" {
		sub.SuccessURL = base + "/payment/success"
		sub.FailureURL = base + "/payment/failure"
	}
	return sub
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
