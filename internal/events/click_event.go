package events

import (
	"strconv"
	"time"
)

// ClickEvent is the record published per redirect. Timestamp is unix seconds
// so stream entries stay flat strings.
type ClickEvent struct {
	ShortCode string
	Timestamp int64
	IP        string
	UserAgent string
	Referer   string
}

func (e *ClickEvent) ClickedAt() time.Time {
	return time.Unix(e.Timestamp, 0)
}

// EventFromValues rebuilds a ClickEvent from the field map a stream entry
// carries. Missing optional fields come back empty.
func EventFromValues(values map[string]interface{}) *ClickEvent {
	event := &ClickEvent{
		ShortCode: stringField(values, "short_code"),
		IP:        stringField(values, "ip"),
		UserAgent: stringField(values, "user_agent"),
		Referer:   stringField(values, "referer"),
	}

	if raw := stringField(values, "timestamp"); raw != "" {
		if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
			event.Timestamp = ts
		}
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	return event
}

func stringField(values map[string]interface{}, key string) string {
	if v, ok := values[key].(string); ok {
		return v
	}
	return ""
}
