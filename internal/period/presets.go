package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// PresetOption describes an entry in the interactive period chooser.
type PresetOption struct {
	Code  string
	Label string
}

const CustomCode = "custom"

var presetOptions = []PresetOption{
	{Code: "l3m", Label: "Last 3 months"},
	{Code: "lm", Label: "Last month"},
	{Code: "mtd", Label: "Month to date"},
	{Code: "lq", Label: "Last quarter"},
	{Code: "qtd", Label: "Quarter to date"},
	{Code: "ly", Label: "Last year"},
	{Code: "ytd", Label: "Year to date"},
	{Code: CustomCode, Label: "Enter start and end dates"},
}

// Presets lists the chooser entries in display order.
func Presets() []PresetOption {
	return append([]PresetOption(nil), presetOptions...)
}

// Preset resolves one of the named periods relative to now. The custom code
// is not handled here; use Custom once the user has supplied both bounds.
func Preset(code string, now time.Time) (Interval, error) {
	today := Day(now)
	year, month, day := today.Date()
	quarterStart := time.Date(year, month-(month-1)%3, 1, 0, 0, 0, 0, time.UTC)

	switch strings.ToLower(strings.TrimSpace(code)) {
	case "l3m":
		from := today.AddDate(0, 0, -DefaultSpanDays)
		return Interval{
			From:  from,
			To:    today,
			Label: fmt.Sprintf("%s - %s", from.Format(isoLayout), today.Format(isoLayout)),
		}, nil
	case "lm":
		start := time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, month, 0, 0, 0, 0, 0, time.UTC)
		return Interval{From: start, To: end, Label: start.Format("Jan 2006")}, nil
	case "mtd":
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return Interval{
			From:     start,
			To:       today,
			Label:    start.Format("Jan 2006"),
			SubLabel: fmt.Sprintf("day %d", day),
		}, nil
	case "lq":
		start := quarterStart.AddDate(0, -3, 0)
		end := quarterStart.AddDate(0, 0, -1)
		return Interval{From: start, To: end, Label: quarterLabel(start)}, nil
	case "qtd":
		monthOfQuarter := int(month-quarterStart.Month()) + 1
		return Interval{
			From:     quarterStart,
			To:       today,
			Label:    quarterLabel(quarterStart),
			SubLabel: fmt.Sprintf("day %d of month %d", day, monthOfQuarter),
		}, nil
	case "ly":
		start := time.Date(year-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year-1, time.December, 31, 0, 0, 0, 0, time.UTC)
		return Interval{From: start, To: end, Label: fmt.Sprintf("%d", year-1)}, nil
	case "ytd":
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Interval{
			From:     start,
			To:       today,
			Label:    fmt.Sprintf("%d", year),
			SubLabel: fmt.Sprintf("day %d", today.YearDay()),
		}, nil
	default:
		return Interval{}, fmt.Errorf("unknown period code %q", code)
	}
}

// Custom builds an interval from free-form user input. Unlike command-line
// arguments, interactive bounds accept any layout dateparse understands.
func Custom(fromInput, toInput string) (Interval, error) {
	from, err := parseLenient(fromInput)
	if err != nil {
		return Interval{}, err
	}
	to, err := parseLenient(toInput)
	if err != nil {
		return Interval{}, err
	}
	if from.After(to) {
		return Interval{}, &DateFormatError{
			Value:  fromInput,
			Reason: fmt.Sprintf("start date is after end date %s", to.Format(isoLayout)),
		}
	}
	return Interval{
		From:  from,
		To:    to,
		Label: fmt.Sprintf("%s - %s", from.Format(isoLayout), to.Format(isoLayout)),
	}, nil
}

func parseLenient(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if parsed, err := ParseDate(trimmed); err == nil {
		return parsed, nil
	}
	parsed, err := dateparse.ParseIn(trimmed, time.UTC)
	if err != nil {
		return time.Time{}, &DateFormatError{Value: value, Reason: "unrecognised date"}
	}
	return Day(parsed), nil
}

func quarterLabel(start time.Time) string {
	return fmt.Sprintf("Q%d %d", (int(start.Month())-1)/3+1, start.Year())
}
