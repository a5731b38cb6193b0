package service

import (
	"errors"
	"strings"
)

// Kind classifies a failed workflow so the transport can decide where to send the user
type Kind string

const (
	KindValidation   Kind = "ValidationError"
	KindInvalidStock Kind = "InvalidStock"
	KindInvalidPrice Kind = "InvalidPrice"
	KindNotFound     Kind = "NotFound"
	KindOutOfStock   Kind = "OutOfStock"
	KindDataStore    Kind = "DataStoreError"
)

// User-facing messages
const (
	MsgStockTooLow     = "Stock must be greater than 0"
	MsgStockTooHigh    = "Stock must be less than 100"
	MsgPriceTooLow     = "Price must be greater than 100"
	MsgNameRequired    = "Product name is required"
	MsgPriceRequired   = "Product price is required"
	MsgStockRequired   = "Product stock is required"
	MsgCategoryMissing = "Category is required"
	MsgPriceMalformed  = "Product price must be a whole number"
	MsgStockMalformed  = "Product stock must be a whole number"
	MsgNotFound        = "Product not found"
	MsgOutOfStock      = "Product is out of stock"

	MsgProductAdded  = "Product has been added"
	MsgProductBought = "Product has been bought"
)

// Error is the tagged result of a failed workflow. It carries one or more
// human-readable messages and, for store failures, the underlying error.
type Error struct {
	Kind     Kind
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, ", ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, messages ...string) *Error {
	return &Error{Kind: kind, Messages: messages}
}

// storeError passes the store's message through verbatim
func storeError(err error) *Error {
	return &Error{Kind: KindDataStore, Messages: []string{err.Error()}, Err: err}
}

// KindOf returns the kind of err. Errors that did not come from the workflows
// are treated as store failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDataStore
}

// Messages returns the user-facing messages carried by err
func Messages(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Messages
	}
	return []string{err.Error()}
}
