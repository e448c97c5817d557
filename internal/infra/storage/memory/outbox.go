package memory

import (
	"context"
	"sync"

	appoutbox "github.com/Mihail0123/hausrunde/internal/app/outbox"
)

// Outbox keeps staged event records in memory until flushed. Flush hands
// them to an optional sink; without one they are dropped.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
	sink    func(ctx context.Context, records []appoutbox.EventRecord) error
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

// NewOutboxWithSink flushes staged records through sink.
func NewOutboxWithSink(sink func(ctx context.Context, records []appoutbox.EventRecord) error) *Outbox {
	return &Outbox{sink: sink}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	staged := o.records
	o.records = nil
	o.mu.Unlock()
	if o.sink == nil || len(staged) == 0 {
		return nil
	}
	return o.sink(ctx, staged)
}

// Pending returns a snapshot of staged records, for inspection in tests.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]appoutbox.EventRecord, len(o.records))
	copy(out, o.records)
	return out
}

var _ appoutbox.Outbox = (*Outbox)(nil)
