package period

import (
	"fmt"
	"regexp"
	"time"
)

const (
	// DefaultSentinel marks an argument that should fall back to its default bound.
	DefaultSentinel = "default"
	// DefaultSpanDays is how far back the start bound reaches when omitted.
	DefaultSpanDays = 91

	isoLayout     = "2006-01-02"
	compactLayout = "20060102"
)

var (
	isoDatePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	compactDatePattern = regexp.MustCompile(`^\d{8}$`)
)

// Interval is an inclusive, whole-day date range together with the labels
// used when rendering report headings.
type Interval struct {
	From     time.Time
	To       time.Time
	Label    string
	SubLabel string
}

// DateFormatError reports an explicit date argument that could not be used.
type DateFormatError struct {
	Value  string
	Reason string
}

func (e *DateFormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid date %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD or YYYYMMDD", e.Value)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or YYYYMMDD and nothing else.
func ParseDate(value string) (time.Time, error) {
	var layout string
	switch {
	case isoDatePattern.MatchString(value):
		layout = isoLayout
	case compactDatePattern.MatchString(value):
		layout = compactLayout
	default:
		return time.Time{}, &DateFormatError{Value: value}
	}

	parsed, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, &DateFormatError{Value: value, Reason: "not a calendar date"}
	}
	return parsed, nil
}

// Resolve builds the interval for an argument-driven run. Empty strings and
// the "default" sentinel select today for the end bound and 91 days earlier
// for the start bound.
func Resolve(fromArg, toArg string, now time.Time) (Interval, error) {
	today := Day(now)

	to := today
	if !isDefault(toArg) {
		parsed, err := ParseDate(toArg)
		if err != nil {
			return Interval{}, err
		}
		to = parsed
	}

	from := today.AddDate(0, 0, -DefaultSpanDays)
	if !isDefault(fromArg) {
		parsed, err := ParseDate(fromArg)
		if err != nil {
			return Interval{}, err
		}
		from = parsed
	}

	if from.After(to) {
		return Interval{}, &DateFormatError{
			Value:  fromArg,
			Reason: fmt.Sprintf("start date is after end date %s", to.Format(isoLayout)),
		}
	}

	return Interval{
		From:  from,
		To:    to,
		Label: fmt.Sprintf("%s - %s", from.Format(isoLayout), to.Format(isoLayout)),
	}, nil
}

func isDefault(value string) bool {
	return value == "" || value == DefaultSentinel
}

// Contains reports whether day falls within the interval, inclusive.
func (iv Interval) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(iv.From) && !d.After(iv.To)
}

// Days returns the number of calendar days covered by the interval.
func (iv Interval) Days() int {
	return int(iv.To.Sub(iv.From).Hours()/24) + 1
}

// FromString returns the start bound as YYYYMMDD.
func (iv Interval) FromString() string {
	return iv.From.Format(compactLayout)
}

// ToString returns the end bound as YYYYMMDD.
func (iv Interval) ToString() string {
	return iv.To.Format(compactLayout)
}

// Describe renders the label with the sub-label appended when present.
func (iv Interval) Describe() string {
	if iv.SubLabel == "" {
		return iv.Label
	}
	return fmt.Sprintf("%s (at %s)", iv.Label, iv.SubLabel)
}
