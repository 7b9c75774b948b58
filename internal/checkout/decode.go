package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
)

// DecodeRequest parses a checkout body.
// Type mismatches on known fields are reported as validation errors.
// A body cut off by http.MaxBytesReader returns its *http.MaxBytesError.
func DecodeRequest(r io.Reader) (*models.CheckoutRequest, error) {
	var req models.CheckoutRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, missingField("body", "JSON data required")
		}

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}

		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return nil, fromTypeError(te)
		}

		return nil, missingField("body", "Invalid request data: "+err.Error())
	}
	return &req, nil
}

func fromTypeError(te *json.UnmarshalTypeError) error {
	field := te.Field

	switch {
	case field == "cart":
		return missingField(field, "Cart information is required")
	case strings.HasPrefix(field, "cart."):
		return invalidCartLine(field, fmt.Sprintf("Invalid value for %s", field))
	case field == "billing":
		return missingField(field, "Billing address information is required")
	case field == "shipping":
		return missingField(field, "Shipping address information is required")
	case field == "installment":
		return invalidInstallment(field)
	case strings.HasPrefix(field, "enabled_installments"):
		return invalidInstallment(field)
	default:
		return &ValidationError{
			Kind:    ErrMissingField,
			Field:   field,
			Message: fmt.Sprintf("Invalid value for %s", field),
		}
	}
}
