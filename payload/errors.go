package payload

import "errors"

var (
	ErrInvalidType       = errors.New("invalid webhook type")
	ErrInvalidCustomerID = errors.New("invalid customer id")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrUnsupportedFormat = errors.New("content type not accepted for customer")
	ErrEmptyBody         = errors.New("empty request body")
	ErrInvalidID         = errors.New("invalid webhook id")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrNotFound is returned by repositories when no object matches
	ErrNotFound = errors.New("webhook not found")
)
