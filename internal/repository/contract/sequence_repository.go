package contract

import "context"

// SequenceRepository implements billing/sequence.Store on top of the
// sequence_counters table.
type SequenceRepository interface {
	Next(ctx context.Context, prefix, period string) (int64, error)
}
