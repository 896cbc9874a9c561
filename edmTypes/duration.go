package edmTypes

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration is an Edm.Duration, written as an ISO 8601 day-time duration such as P1DT2H30M.
type Duration time.Duration

var durationPattern = regexp.MustCompile(`^(-)?P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)(?:\.(\d+))?S)?)?$`)

const day = 24 * time.Hour

func (d Duration) String() string {
	duration := time.Duration(d)
	var text strings.Builder
	if duration < 0 {
		text.WriteString("-")
		duration = -duration
	}
	text.WriteString("P")

	days := duration / day
	duration -= days * day
	hours := duration / time.Hour
	duration -= hours * time.Hour
	minutes := duration / time.Minute
	duration -= minutes * time.Minute

	if days > 0 {
		fmt.Fprintf(&text, "%dD", days)
	}
	if days > 0 && hours == 0 && minutes == 0 && duration == 0 {
		return text.String()
	}
	text.WriteString("T")
	if hours > 0 {
		fmt.Fprintf(&text, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&text, "%dM", minutes)
	}
	if duration > 0 || (days == 0 && hours == 0 && minutes == 0) {
		text.WriteString(strconv.FormatFloat(duration.Seconds(), 'f', -1, 64) + "S")
	}
	return text.String()
}

// KeyLiteral returns the duration as duration'P...'.
func (d Duration) KeyLiteral() string {
	return "duration'" + d.String() + "'"
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// ParseDuration parses an ISO 8601 day-time duration.
func ParseDuration(text string) (Duration, error) {
	match := durationPattern.FindStringSubmatch(text)
	if match == nil || strings.HasSuffix(text, "T") || text == "P" || text == "-P" {
		return 0, fmt.Errorf("edmTypes: invalid duration %q", text)
	}

	var duration time.Duration
	units := []time.Duration{day, time.Hour, time.Minute, time.Second}
	for i, unit := range units {
		if match[i+2] == "" {
			continue
		}
		n, err := strconv.ParseInt(match[i+2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("edmTypes: invalid duration %q: %w", text, err)
		}
		duration += time.Duration(n) * unit
	}
	if match[6] != "" {
		nanos, err := parseFraction(match[6])
		if err != nil {
			return 0, fmt.Errorf("edmTypes: invalid duration %q: %w", text, err)
		}
		duration += nanos
	}

	if match[1] == "-" {
		duration = -duration
	}
	return Duration(duration), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseDuration(text)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
