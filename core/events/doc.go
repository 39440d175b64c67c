// Package events defines the planning related events emitted on the event bus.
//
// Available event types:
//   - RunEvent: a planning run completed
//   - ShortfallEvent: a task could not be fully placed before its deadline
//   - LargeTaskEvent: a task exceeds the breakdown threshold
package events
