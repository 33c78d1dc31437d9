package catalog

import "errors"

var (
	ErrProductUnavailable   = errors.New("product is not available")
	ErrOutOfStock           = errors.New("product is out of stock")
	ErrQuantityOutOfRange   = errors.New("quantity out of range")
	ErrImageRequired        = errors.New("please upload an image")
	ErrNotOwner             = errors.New("product belongs to another seller")
	ErrConfirmationRequired = errors.New("delete must be confirmed")
)
