package emma

import (
	"fmt"
	"strings"
	"time"
)

// The platform serializes timestamps as "@D:2012-04-13T18:06:24".
const (
	timestampPrefix string = "@D:"
	timestampLayout string = "2006-01-02T15:04:05"
)

func ParseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(timestampLayout, strings.TrimPrefix(value, timestampPrefix))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}

	return ts, nil
}

func FormatTimestamp(ts time.Time) string {
	return timestampPrefix + ts.Format(timestampLayout)
}

// coerceTimestamps replaces the named raw string fields with parsed time
// values. Fields that are absent or null are left alone.
func coerceTimestamps(raw map[string]any, names ...string) error {
	for _, name := range names {
		value, ok := raw[name]
		if !ok || value == nil {
			continue
		}

		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s is not a timestamp string", name)
		}

		ts, err := ParseTimestamp(str)
		if err != nil {
			return err
		}

		raw[name] = ts
	}

	return nil
}
