package ingestion

import (
	"context"

	"github.com/poiesic/itempipe/core"
)

// Stage is one step of the item pipeline.
//
// Open is called once before the first record and Close once after the
// last. Process may be called concurrently and either returns the record
// to hand to the next stage or an error. Errors wrapping core.ErrDropItem
// drop the record.
type Stage interface {
	Name() string
	Open(ctx context.Context) error
	Process(ctx context.Context, record *core.Record) (*core.Record, error)
	Close(ctx context.Context) error
}
