package activity

// Event is one detected occurrence of an activity on a given day.
type Event struct {
	Kind Kind
	On   Date
}

// Events tags every date in dates with kind.
func Events(kind Kind, dates []Date) []Event {
	out := make([]Event, len(dates))
	for i, d := range dates {
		out[i] = Event{Kind: kind, On: d}
	}
	return out
}
