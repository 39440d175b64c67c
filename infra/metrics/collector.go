package metrics

import (
	"context"

	"github.com/avallet/chronoplan/core/events"
	coremetrics "github.com/avallet/chronoplan/core/metrics"
	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards shortfall
// events to sinks that support them. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.ShortfallRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, open := <-sub:
				if !open {
					return
				}
				if e, ok := ev.(events.ShortfallEvent); ok {
					_ = rec.RecordShortfalls([]model.ShortfallRecord{e.Record})
				}
			}
		}
	}()
}
