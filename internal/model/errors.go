package model

import "errors"

var (
	// ErrDuplicateCustomer indicates a create with an already-taken name.
	ErrDuplicateCustomer = errors.New("customer already exists")
	// ErrNoSuchCustomer indicates an unresolvable customer name.
	ErrNoSuchCustomer = errors.New("no such customer")
	// ErrNoSuchInvoice indicates an unknown invoice number.
	ErrNoSuchInvoice = errors.New("no such invoice")
	// ErrAlreadyPaid indicates a second payment against the same invoice.
	ErrAlreadyPaid = errors.New("invoice already paid")
	// ErrBadRecord marks a single line that could not be decoded.
	ErrBadRecord = errors.New("bad record")
)
