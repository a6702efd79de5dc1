package extract

import (
	"errors"
	"strings"
	"time"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/archive"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
)

// ErrNoMessages means a file under a message root held no message list.
var ErrNoMessages = errors.New("no messages list")

// Attributor tags each message as sent or received by comparing its sender
// with the configured user name.
type Attributor struct {
	user string
}

func NewAttributor(user string) *Attributor {
	return &Attributor{user: NormalizeName(user)}
}

// NormalizeName drops all whitespace and lowercases, so "Jane Doe" and
// "janedoe" compare equal.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// Attribute returns one MessageSent or MessageReceived event per timestamped
// message in a conversation file, reading message times as d describes.
// A file whose messages carry no time is ErrNoTimestamps.
func (a *Attributor) Attribute(content any, d archive.Dialect, loc *time.Location) ([]activity.Event, error) {
	if d.Field == "" {
		d = archive.MessageDialect
	}
	top, ok := content.(map[string]any)
	if !ok {
		return nil, ErrNoMessages
	}
	msgs, ok := top["messages"].([]any)
	if !ok {
		return nil, ErrNoMessages
	}

	events := make([]activity.Event, 0, len(msgs))
	for _, it := range msgs {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		day, ok := epochDate(m[d.Field], d.Millis, loc)
		if !ok {
			continue
		}
		kind := activity.MessageReceived
		if a.IsUser(m["sender_name"]) {
			kind = activity.MessageSent
		}
		events = append(events, activity.Event{Kind: kind, On: day})
	}
	if len(events) == 0 {
		return nil, ErrNoTimestamps
	}
	return events, nil
}

// IsUser reports whether sender names the configured user.
func (a *Attributor) IsUser(sender any) bool {
	s, ok := sender.(string)
	if !ok || a.user == "" {
		return false
	}
	return NormalizeName(s) == a.user
}

// ResolveAttribution runs once all message files are counted. If no message
// was attributed to the user, received messages are relabelled as
// MessageSentOrReceived and it returns true.
func ResolveAttribution(t *tally.Table) bool {
	if t.Has(activity.MessageSent) || !t.Has(activity.MessageReceived) {
		return false
	}
	t.Rename(activity.MessageReceived, activity.MessageSentOrReceived)
	return true
}
