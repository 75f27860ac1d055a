package storage

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts covers the text encodings written by the collector and by
// SQLite's own datetime functions.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// observedAt scans the timestamp column regardless of how the driver hands it over:
// time.Time from postgres, TEXT or unix seconds from SQLite.
type observedAt struct {
	time.Time
}

func (o *observedAt) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		o.Time = v
		return nil
	case int64:
		o.Time = time.Unix(v, 0).UTC()
		return nil
	case float64:
		o.Time = time.Unix(0, int64(v*float64(time.Second))).UTC()
		return nil
	case []byte:
		return o.parse(string(v))
	case string:
		return o.parse(v)
	case nil:
		return fmt.Errorf("timestamp is NULL")
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (o *observedAt) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			o.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
