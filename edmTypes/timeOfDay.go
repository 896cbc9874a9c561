package edmTypes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is an Edm.TimeOfDay, held as the time elapsed since midnight.
type TimeOfDay time.Duration

// NewTimeOfDay returns the time of day h:m:s.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second)
}

// TimeOfDayOf returns the clock time of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()) + TimeOfDay(t.Nanosecond())
}

// String returns hh:mm:ss, with milliseconds when there are any.
func (tod TimeOfDay) String() string {
	duration := time.Duration(tod)
	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60
	milliseconds := int(duration.Milliseconds()) % 1000

	text := fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	if milliseconds > 0 {
		text += fmt.Sprintf(".%03d", milliseconds)
	}
	return text
}

// KeyLiteral returns the time of day as hh:mm:ss.
func (tod TimeOfDay) KeyLiteral() string {
	return tod.String()
}

func (tod TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(tod.String())
}

// ParseTimeOfDay parses hh:mm, hh:mm:ss or hh:mm:ss.fraction.
func ParseTimeOfDay(text string) (TimeOfDay, error) {
	elements := strings.SplitN(text, ".", 2)
	hhmmss := strings.Split(elements[0], ":")
	if len(hhmmss) < 2 || len(hhmmss) > 3 {
		return 0, fmt.Errorf("edmTypes: invalid time of day %q", text)
	}

	limits := []int{24, 60, 60}
	parts := []int{0, 0, 0}
	for i, element := range hhmmss {
		n, err := strconv.Atoi(element)
		if err != nil || len(element) != 2 || n >= limits[i] {
			return 0, fmt.Errorf("edmTypes: invalid time of day %q", text)
		}
		parts[i] = n
	}
	result := NewTimeOfDay(parts[0], parts[1], parts[2])

	if len(elements) == 2 {
		if len(hhmmss) != 3 {
			return 0, fmt.Errorf("edmTypes: invalid time of day %q", text)
		}
		nanos, err := parseFraction(elements[1])
		if err != nil {
			return 0, fmt.Errorf("edmTypes: invalid time of day %q", text)
		}
		result += TimeOfDay(nanos)
	}
	return result, nil
}

// parseFraction reads up to nanosecond precision out of the digits after a decimal point.
func parseFraction(digits string) (time.Duration, error) {
	if digits == "" {
		return 0, fmt.Errorf("empty fraction")
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid fraction %q", digits)
		}
	}
	if len(digits) > 9 {
		digits = digits[:9]
	}
	digits += strings.Repeat("0", 9-len(digits))
	nanos, err := strconv.Atoi(digits)
	return time.Duration(nanos), err
}

func (tod *TimeOfDay) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(text)
	if err != nil {
		return err
	}
	*tod = parsed
	return nil
}
