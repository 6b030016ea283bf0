package ass

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp converts H:MM:SS.cc into milliseconds.
func ParseTimestamp(v string) (int, error) {
	s := strings.TrimSpace(v)
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", v)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", v)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", v)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", v)
	}
	ms := (hours*3600+minutes*60)*1000 + int(seconds*1000+0.5)
	if ms < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", v)
	}
	return ms, nil
}

// FormatTimestamp renders milliseconds the way ASS scripts store them.
func FormatTimestamp(ms int) string {
	if ms < 0 {
		ms = 0
	}
	cs := (ms + 5) / 10
	return fmt.Sprintf("%d:%02d:%02d.%02d", cs/360000, cs/6000%60, cs/100%60, cs%100)
}
