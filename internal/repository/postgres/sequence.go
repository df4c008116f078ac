package postgres

import (
	"context"
	"fmt"

	"github.com/streamtube/streamtube-server/internal/model"
)

var _ model.SequenceStore = (*SequenceRepository)(nil)

type SequenceRepository struct {
	db *Connection
}

func NewSequenceRepository(db *Connection) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next allocates the next value of a named counter. The upsert-increment is
// a single statement, so concurrent callers always observe distinct values;
// a read-then-write version would race. The counter row is created on first
// use and the first allocation returns 1.
func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	const query = `
		INSERT INTO sequence_counters (name, seq) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET seq = sequence_counters.seq + 1
		RETURNING seq
	`

	var seq int64
	if err := r.db.QueryRow(ctx, query, name).Scan(&seq); err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrSequenceAllocation, err)
	}

	return seq, nil
}
