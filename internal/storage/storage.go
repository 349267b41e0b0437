package storage

import "futarchyscope/internal/model"

// EventSink is a write target for decoded swap events.
type EventSink interface {
	PutEventBatch(events []model.SwapEvent) error
}
