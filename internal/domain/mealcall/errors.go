package mealcall

import "errors"

var (
	ErrCallNotFound        = errors.New("meal call not found")
	ErrCallClosed          = errors.New("meal call already closed")
	ErrInvalidResponseType = errors.New("invalid response type")
	ErrUnknownCategory     = errors.New("unknown menu category")
	ErrMenuNotFound        = errors.New("menu item not found")
)
