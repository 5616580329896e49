package events

// EventCollector accumulates domain events while a use case runs.
// It is not safe for concurrent use.
type EventCollector struct {
	events []DomainEvent
}

// Record appends a domain event to the collector.
func (c *EventCollector) Record(event DomainEvent) {
	c.events = append(c.events, event)
}

// Events returns the collected domain events without clearing them.
func (c *EventCollector) Events() []DomainEvent {
	return c.events
}

// Len returns the number of collected events.
func (c *EventCollector) Len() int {
	return len(c.events)
}

// ClearEvents returns the collected domain events and clears the internal slice.
func (c *EventCollector) ClearEvents() []DomainEvent {
	collected := c.events
	c.events = nil
	return collected
}
