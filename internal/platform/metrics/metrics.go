package metrics

// Sink records matching workflow events. Services call it on every state
// transition; implementations must be safe for concurrent use.
type Sink interface {
	RecordRelease(outcome string)
	RecordIntentTransition(status string)
	RecordPickup()
	RecordSweep(closed int)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordRelease(string)          {}
func (NopSink) RecordIntentTransition(string) {}
func (NopSink) RecordPickup()                 {}
func (NopSink) RecordSweep(int)               {}
