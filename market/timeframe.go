package market

import (
	"fmt"
	"strings"
	"time"
)

// BucketStart returns floor(t / tf) * tf measured from the Unix epoch, in UTC.
func BucketStart(t time.Time, tf time.Duration) time.Time {
	if tf <= 0 {
		return t.UTC()
	}
	ns := t.UnixNano()
	step := int64(tf)
	rem := ns % step
	if rem < 0 {
		rem += step
	}
	return time.Unix(0, ns-rem).UTC()
}

// ParseTimeFrame accepts Go durations ("15m", "1h") and the usual chart codes
// (M1, M5, M15, M30, H1, H4, D1, W1).
func ParseTimeFrame(s string) (time.Duration, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	switch code {
	case "M1":
		return time.Minute, nil
	case "M5":
		return 5 * time.Minute, nil
	case "M15":
		return 15 * time.Minute, nil
	case "M30":
		return 30 * time.Minute, nil
	case "H1":
		return time.Hour, nil
	case "H4":
		return 4 * time.Hour, nil
	case "D1":
		return 24 * time.Hour, nil
	case "W1":
		return 7 * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("unsupported timeframe %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeframe %q: must be positive", s)
	}
	return d, nil
}

// TimeFrameString maps a duration back to its chart code when one exists.
func TimeFrameString(tf time.Duration) string {
	switch tf {
	case time.Minute:
		return "M1"
	case 5 * time.Minute:
		return "M5"
	case 15 * time.Minute:
		return "M15"
	case 30 * time.Minute:
		return "M30"
	case time.Hour:
		return "H1"
	case 4 * time.Hour:
		return "H4"
	case 24 * time.Hour:
		return "D1"
	case 7 * 24 * time.Hour:
		return "W1"
	}
	return tf.String()
}
