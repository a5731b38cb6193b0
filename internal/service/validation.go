package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"storefront/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Business thresholds applied when a product is created
const (
	MinStock = 1
	MaxStock = 100
	// MinPriceExclusive is in whole currency units; a price must exceed it.
	MinPriceExclusive = 100
)

// AddProductInput is a product submission. Price and Stock are nil when the
// field was not supplied at all, or when it could not be parsed; Malformed
// names the fields in the second case.
type AddProductInput struct {
	Name     string `validate:"required,notblank,max=255"`
	Price    *int64 `validate:"required"`
	Stock    *int   `validate:"required"`
	Image    string `validate:"omitempty,max=500"`
	Category string `validate:"required,notblank,max=100"`

	Malformed []string `validate:"-"`
}

// Malformed field names
const (
	FieldPrice = "Price"
	FieldStock = "Stock"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// validateProduct runs the creation rules in order. The range checks fail fast
// with the first violation; the field checks then report every bad field at once.
func validateProduct(in AddProductInput) error {
	if in.Stock != nil {
		if *in.Stock < MinStock {
			return newError(KindInvalidStock, MsgStockTooLow)
		}
		if *in.Stock > MaxStock {
			return newError(KindInvalidStock, MsgStockTooHigh)
		}
	}
	if in.Price != nil && *in.Price <= MinPriceExclusive {
		return newError(KindInvalidPrice, MsgPriceTooLow)
	}

	var fieldErrs validator.ValidationErrors
	if err := validate.Struct(in); err != nil && !errors.As(err, &fieldErrs) {
		return newError(KindValidation, err.Error())
	}
	if len(fieldErrs) == 0 {
		return nil
	}

	// validator stops at the first failing tag of a field, so each field
	// contributes at most one message. A malformed number replaces the
	// required message of its field.
	messages := make([]string, 0, len(fieldErrs)+len(in.Malformed))
	for _, fe := range fieldErrs {
		if slices.Contains(in.Malformed, fe.Field()) {
			messages = append(messages, fieldLabel(fe.Field())+" must be a whole number")
			continue
		}
		messages = append(messages, fieldMessage(fe))
	}
	return newError(KindValidation, messages...)
}

func fieldLabel(field string) string {
	label := map[string]string{
		"Name":     "Product name",
		"Price":    "Product price",
		"Stock":    "Product stock",
		"Image":    "Product image",
		"Category": "Category",
	}[field]
	if label == "" {
		return field
	}
	return label
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())

	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	default:
		return label + " is invalid"
	}
}

// validatePurchase decides whether one unit of p may be bought. A nil product
// means the lookup found nothing.
func validatePurchase(p *domain.Product) error {
	if p == nil {
		return newError(KindNotFound, MsgNotFound)
	}
	if !p.InStock() {
		return newError(KindOutOfStock, MsgOutOfStock)
	}
	return nil
}
