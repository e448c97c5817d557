package support

import (
	"context"

	"github.com/Mihail0123/hausrunde/internal/app/outbox"
	"github.com/Mihail0123/hausrunde/internal/app/uow"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/events"
)

// Txn tracks whether a handler owns the unit of work it runs in. When
// the transaction middleware already opened one, Commit and Rollback are
// no-ops here and the middleware keeps the boundary.
type Txn struct {
	unit      uow.UnitOfWork
	managed   bool
	committed bool
}

func BeginUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, *Txn, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, &Txn{unit: unit}, nil
	}
	if factory == nil {
		return nil, ctx, nil, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, ctx, nil, err
	}
	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, unit)
	return unit, execCtx, &Txn{unit: unit, managed: true}, nil
}

func (t *Txn) Rollback(ctx context.Context) {
	if t == nil || !t.managed || t.committed {
		return
	}
	_ = t.unit.Rollback(ctx)
}

func (t *Txn) Commit(ctx context.Context) error {
	if !t.managed {
		return nil
	}
	if err := t.unit.Commit(ctx); err != nil {
		return err
	}
	t.committed = true
	return nil
}

// EventSource is satisfied by aggregates embedding events.EventRecorder.
type EventSource interface {
	PendingEvents() []events.DomainEvent
	ClearEvents()
}

// DrainEvents moves pending aggregate events into the outbox. With no
// outbox configured the events are dropped after clearing.
func DrainEvents(ctx context.Context, box outbox.Outbox, encoder outbox.EventEncoder, sources ...EventSource) error {
	if box == nil {
		for _, src := range sources {
			src.ClearEvents()
		}
		return nil
	}
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	for _, src := range sources {
		evs := src.PendingEvents()
		src.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, box, encoder, evs); err != nil {
			return err
		}
	}
	return nil
}
