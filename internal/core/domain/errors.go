package domain

import "errors"

var (
	// ErrDuplicateReference is returned by stores when an entry reference is taken.
	ErrDuplicateReference = errors.New("wallet entry reference already exists")

	// ErrStaleState is returned when a conditional update matched no row
	// because another writer moved the record first.
	ErrStaleState = errors.New("record state changed concurrently")

	// ErrTransferNotFound is returned by transfer clients when the provider
	// has no record of a transfer.
	ErrTransferNotFound = errors.New("provider has no record of transfer")

	// ErrMandateNotApproved signals a debit-ready event that arrived before
	// approval. It is retryable.
	ErrMandateNotApproved = errors.New("mandate not yet approved")
)
