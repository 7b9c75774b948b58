package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/config"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/handlers"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/middleware"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/service"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/webhook"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// dependencies are the services the router serves
type dependencies struct {
	orders        *service.OrderService
	subscriptions *service.SubscriptionService
	terms         *service.TermService
	webhooks      *webhook.Store
}

func newRouter(cfg *config.Config, deps dependencies, log *slog.Logger) http.Handler {
	healthHandler := handlers.NewHealthHandler(log, map[string]handlers.Checker{"webhooks": deps.webhooks})
	orderHandler := handlers.NewOrderHandler(deps.orders, log)
	subscriptionHandler := handlers.NewSubscriptionHandler(deps.subscriptions, log)
	termHandler := handlers.NewTermHandler(deps.terms, log)
	webhookHandler := handlers.NewWebhookHandler(deps.webhooks, log)
	paymentHandler := handlers.NewPaymentHandler(log)

	webhookLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  cfg.Webhook.RateLimit,
		Burst: cfg.Webhook.RateBurst,
	})

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)

	// Buyer redirects from the hosted checkout page
	r.Get("/payment/success", paymentHandler.Success)
	r.Post("/payment/success", paymentHandler.Success)
	r.Get("/payment/failure", paymentHandler.Failure)
	r.Post("/payment/failure", paymentHandler.Failure)

	r.With(webhookLimiter.Handler).Post("/webhook", webhookHandler.Receive(webhook.KindGeneric))

	r.Route("/api", func(r chi.Router) {
		r.Post("/", orderHandler.CreateOrder)

		r.Route("/order", func(r chi.Router) {
			r.Post("/create", orderHandler.CreateOrder)
			r.Get("/list", orderHandler.ListOrders)
			r.Post("/cancel", orderHandler.CancelOrder)
			r.Post("/refund", orderHandler.RefundOrder)
			r.Post("/terminate", orderHandler.TerminateOrder)
			r.Post("/manual-callback", orderHandler.ManualCallback)
			r.Get("/submerchants", orderHandler.Submerchants)
			r.Get("/conversation/{conversationId}", orderHandler.GetOrderByConversation)
			r.Get("/{referenceId}", orderHandler.GetOrder)
			r.Get("/{referenceId}/status", orderHandler.GetOrderStatus)
			r.Get("/{referenceId}/transactions", orderHandler.GetOrderTransactions)
		})

		r.Route("/subscription", func(r chi.Router) {
			r.Post("/create", subscriptionHandler.Create)
			r.Get("/list", subscriptionHandler.List)
			r.Post("/cancel", subscriptionHandler.Cancel)
		})

		r.Route("/term", func(r chi.Router) {
			r.Post("/create", termHandler.Create)
			r.Post("/update", termHandler.Update)
			r.Post("/delete", termHandler.Delete)
			r.Post("/refund", termHandler.Refund)
			r.Get("/{referenceId}", termHandler.Get)
		})

		r.Get("/organization/settings", orderHandler.OrganizationSettings)

		r.Group(func(r chi.Router) {
			r.Use(webhookLimiter.Handler)
			r.Post("/callback", webhookHandler.Receive(webhook.KindSuccess))
			r.Post("/fail_callback", webhookHandler.Receive(webhook.KindFail))
			r.Post("/refund_callback", webhookHandler.Receive(webhook.KindRefund))
			r.Post("/cancel_callback", webhookHandler.Receive(webhook.KindCancel))
		})

		r.With(middleware.APIKeyAuth(cfg.Auth)).Get("/webhooks", webhookHandler.List)
	})

	return r
}
