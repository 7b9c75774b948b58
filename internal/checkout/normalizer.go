package checkout

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
)

const (
	DefaultCurrency = "TRY"
	DefaultLocale   = "tr"

	ConversationPrefix = "CONV"
	BuyerPrefix        = "BUYER"
)

// Supported payment options
const (
	PaymentOptionCard         = "card"
	PaymentOptionBankTransfer = "bank_transfer"
)

var supportedPaymentOptions = []string{PaymentOptionCard, PaymentOptionBankTransfer}

// RequestMeta carries request-scoped facts the normalizer cannot read from the body
type RequestMeta struct {
	SourceIP string
	BaseURL  string
}

// Normalizer turns checkout submissions into canonical gateway orders
type Normalizer struct {
	ids             IDGenerator
	applicationName string
}

// NewNormalizer creates a normalizer; applicationName is recorded in order metadata
func NewNormalizer(applicationName string) *Normalizer {
	return &Normalizer{applicationName: applicationName}
}

// WithIDGenerator replaces the identifier source
func (n *Normalizer) WithIDGenerator(g IDGenerator) *Normalizer {
	n.ids = g
	return n
}

// Normalize validates req and builds the canonical order.
// The amount is always computed from the basket; clients cannot set it.
func (n *Normalizer) Normalize(req *models.CheckoutRequest, meta RequestMeta) (*models.OrderRequest, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	basket, err := BuildBasket(req.Cart)
	if err != nil {
		return nil, err
	}

	shipping, err := ResolveShippingAddress(req)
	if err != nil {
		return nil, err
	}

	installment := 1
	if req.Installment != nil {
		// already validated
		installment, _ = ParseInstallment(req.Installment.String())
	}

	enabled, err := enabledInstallments(req.EnabledInstallments)
	if err != nil {
		return nil, err
	}

	options, err := paymentOptions(req.PaymentOptions)
	if err != nil {
		return nil, err
	}

	metadata, err := n.metadata(req, installment)
	if err != nil {
		return nil, err
	}

	buyer := BuildBuyer(req.Billing, meta.SourceIP)
	buyer.ID = n.ids.Reference(BuyerPrefix)

	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = n.ids.Reference(ConversationPrefix)
	}

	order := &models.OrderRequest{
		Amount:              ComputeOrderTotal(basket),
		Currency:            orDefault(strings.ToUpper(strings.TrimSpace(req.Currency)), DefaultCurrency),
		Locale:              orDefault(strings.TrimSpace(req.Locale), DefaultLocale),
		Buyer:               buyer,
		Basket:              basket,
		Billing:             BillingAddress(req.Billing),
		Shipping:            shipping,
		ExternalReferenceID: n.ids.Reference(DefaultReferencePrefix),
		ConversationID:      conversationID,
		Description:         req.Description,
		EnabledInstallments: enabled,
		PaymentOptions:      options,
		ThreeDForce:         req.ThreeDForce == nil || *req.ThreeDForce,
		Metadata:            metadata,
	}

	if base := strings.TrimRight(meta.BaseURL, "/"); base != "" {
		order.SuccessURL = base + "/payment/success"
		order.FailureURL = base + "/payment/failure"
	}

	return order, nil
}

func enabledInstallments(requested []int) ([]int, error) {
	if len(requested) == 0 {
		return slices.Clone(AllowedInstallments), nil
	}

	out := make([]int, 0, len(requested))
	for _, v := range requested {
		if !slices.Contains(AllowedInstallments, v) {
			return nil, invalidInstallment("enabled_installments")
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out, nil
}

func paymentOptions(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return nil, nil
	}

	out := make([]string, 0, len(requested))
	for _, opt := range requested {
		opt = strings.ToLower(strings.TrimSpace(opt))
		if !slices.Contains(supportedPaymentOptions, opt) {
			return nil, &ValidationError{
				Kind:    ErrInvalidOption,
				Field:   "payment_options",
				Message: fmt.Sprintf("Unsupported payment option %q", opt),
			}
		}
		if !slices.Contains(out, opt) {
			out = append(out, opt)
		}
	}
	return out, nil
}

// metadata returns the system entries followed by caller entries.
// A caller entry replaces a system entry with the same key.
func (n *Normalizer) metadata(req *models.CheckoutRequest, installment int) ([]models.MetadataEntry, error) {
	entries := []models.MetadataEntry{
		{Key: "cart_items_count", Value: strconv.Itoa(len(req.Cart))},
		{Key: "selected_installment", Value: strconv.Itoa(installment)},
		{Key: "same_billing_shipping", Value: strconv.FormatBool(SameAddress(req))},
		{Key: "customer_city", Value: req.Billing.City},
	}
	if n.applicationName != "" {
		entries = append(entries, models.MetadataEntry{Key: "application_name", Value: n.applicationName})
	}

	for i, m := range req.Metadata {
		key := strings.TrimSpace(m.Key)
		if key == "" {
			return nil, missingField(fmt.Sprintf("metadata[%d].key", i), "metadata key is required")
		}

		idx := slices.IndexFunc(entries, func(e models.MetadataEntry) bool { return e.Key == key })
		if idx >= 0 {
			entries[idx].Value = m.Value
			continue
		}
		entries = append(entries, models.MetadataEntry{Key: key, Value: m.Value})
	}

	return entries, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
