package timefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// TimestampLayout is the local, zone-less timestamp format used by the
// flight-offers API for departure and arrival times.
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout is the calendar date format used in search requests.
const DateLayout = "2006-01-02"

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

type ParseError struct {
	Kind  string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Kind, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Kind: "timestamp", Value: s, Err: err}
	}
	return t, nil
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Kind: "date", Value: s, Err: err}
	}
	return t, nil
}

// Clock renders t as a lower-case 12-hour clock time, e.g. "02:15 pm".
func Clock(t time.Time) string {
	if t.Hour() < 12 {
		return t.Format("03:04") + " am"
	}
	return t.Format("03:04") + " pm"
}

func FormatClockTime(timestamp string) (string, error) {
	t, err := ParseTimestamp(timestamp)
	if err != nil {
		return "", err
	}
	return Clock(t), nil
}

// Duration is an ISO-8601 PT[nH][nM] duration.
type Duration struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func ParseDuration(s string) (Duration, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return Duration{}, &ParseError{Kind: "duration", Value: s}
	}

	var d Duration
	if m[1] != "" {
		h, err := strconv.Atoi(m[1])
		if err != nil {
			return Duration{}, &ParseError{Kind: "duration", Value: s, Err: err}
		}
		d.Hours = h
	}
	if m[2] != "" {
		mins, err := strconv.Atoi(m[2])
		if err != nil {
			return Duration{}, &ParseError{Kind: "duration", Value: s, Err: err}
		}
		d.Minutes = mins
	}
	return d, nil
}

func (d Duration) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

// ISO renders the duration back into its PT form.
func (d Duration) ISO() string {
	switch {
	case d.Hours > 0 && d.Minutes > 0:
		return fmt.Sprintf("PT%dH%dM", d.Hours, d.Minutes)
	case d.Hours > 0:
		return fmt.Sprintf("PT%dH", d.Hours)
	default:
		return fmt.Sprintf("PT%dM", d.Minutes)
	}
}

// String renders "{h}h {mm}m" with zero-padded minutes.
func (d Duration) String() string {
	return fmt.Sprintf("%dh %02dm", d.Hours, d.Minutes)
}

func FormatDuration(isoDuration string) (string, error) {
	d, err := ParseDuration(isoDuration)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

// Delta formats end-start in whole minutes. Callers are expected to pass
// end >= start; a negative difference is rendered without its sign.
func Delta(start, end time.Time) string {
	total := int(end.Sub(start) / time.Minute)
	if total < 0 {
		total = -total
	}

	hours := total / 60
	minutes := total % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func TimeDelta(startTimestamp, endTimestamp string) (string, error) {
	start, err := ParseTimestamp(startTimestamp)
	if err != nil {
		return "", err
	}
	end, err := ParseTimestamp(endTimestamp)
	if err != nil {
		return "", err
	}
	return Delta(start, end), nil
}

// Overnight returns "+n" when arrival falls n calendar days after departure.
func Overnight(departure, arrival time.Time) string {
	depDay := time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, time.UTC)
	arrDay := time.Date(arrival.Year(), arrival.Month(), arrival.Day(), 0, 0, 0, 0, time.UTC)

	days := int(arrDay.Sub(depDay).Hours() / 24)
	if days <= 0 {
		return ""
	}
	return "+" + strconv.Itoa(days)
}

func OvernightMarker(departureTimestamp, arrivalTimestamp string) (string, error) {
	dep, err := ParseTimestamp(departureTimestamp)
	if err != nil {
		return "", err
	}
	arr, err := ParseTimestamp(arrivalTimestamp)
	if err != nil {
		return "", err
	}
	return Overnight(dep, arr), nil
}
