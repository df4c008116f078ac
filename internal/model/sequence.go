package model

import "context"

// SequenceStore allocates strictly increasing integers per named counter.
//
// Next must be atomic: no two calls for the same name may observe the same
// value, regardless of how many processes share the underlying store. Gaps
// are permitted; a caller that fails after allocating simply leaks the
// value. Uniqueness and monotonicity are the guaranteed properties, density
// is not.
type SequenceStore interface {
	Next(ctx context.Context, name string) (int64, error)
}

// UHIDSequence is the counter name backing user UHID allocation.
const UHIDSequence = "uhid"
