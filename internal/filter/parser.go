package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/pfrederiksen/canal-matches/internal/schedule"
)

var (
	isoRangePattern  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*\.\.\s*(\d{4}-\d{2}-\d{2})$`)
	dayRangePattern  = regexp.MustCompile(`(?i)^(\d{1,2})\s*-\s*(\d{1,2})\s+(?:de\s+)?(\p{L}+)$`)
	singleDayPattern = regexp.MustCompile(`(?i)^(\d{1,2})\s+(?:de\s+)?(\p{L}+)$`)
	monthOnlyPattern = regexp.MustCompile(`^(\p{L}+)$`)
)

// ParseDateRange parses a date range string into inclusive start and end dates.
//
// Supported formats:
//   - "2025-10-18" - A single day
//   - "2025-10-18..2025-10-26" - An ISO range
//   - "18-26 octubre" or "18-26 de octubre" - Same month, different days
//   - "18 de octubre" - A single day of a month
//   - "octubre" - Entire month
//
// For month names the year is inferred from today: a month already past this
// year is taken to be next year's.
func ParseDateRange(input string, today civil.Date) (*civil.Date, *civil.Date, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if d, err := civil.ParseDate(input); err == nil {
		return &d, &d, nil
	}

	if m := isoRangePattern.FindStringSubmatch(input); m != nil {
		from, err := civil.ParseDate(m[1])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", m[1])
		}
		to, err := civil.ParseDate(m[2])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", m[2])
		}
		return ordered(from, to)
	}

	if m := dayRangePattern.FindStringSubmatch(input); m != nil {
		month, ok := schedule.MonthNumber(m[3])
		if !ok {
			return nil, nil, fmt.Errorf("invalid month: %s", m[3])
		}
		year := yearForMonth(month, today)
		from, err := day(year, month, m[1])
		if err != nil {
			return nil, nil, err
		}
		to, err := day(year, month, m[2])
		if err != nil {
			return nil, nil, err
		}
		return ordered(from, to)
	}

	if m := singleDayPattern.FindStringSubmatch(input); m != nil {
		month, ok := schedule.MonthNumber(m[2])
		if !ok {
			return nil, nil, fmt.Errorf("invalid month: %s", m[2])
		}
		d, err := day(yearForMonth(month, today), month, m[1])
		if err != nil {
			return nil, nil, err
		}
		return &d, &d, nil
	}

	if m := monthOnlyPattern.FindStringSubmatch(input); m != nil {
		month, ok := schedule.MonthNumber(m[1])
		if !ok {
			return nil, nil, fmt.Errorf("invalid month: %s", m[1])
		}
		year := yearForMonth(month, today)
		from := civil.Date{Year: year, Month: month, Day: 1}
		// Last day of month
		to := civil.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
		return &from, &to, nil
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use '2025-10-18..2025-10-26', '18-26 octubre', '18 de octubre' or 'octubre'")
}

func day(year int, month time.Month, text string) (civil.Date, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid day: %s", text)
	}
	d := civil.Date{Year: year, Month: month, Day: n}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("invalid day: %s", text)
	}
	return d, nil
}

func ordered(from, to civil.Date) (*civil.Date, *civil.Date, error) {
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

// yearForMonth returns today's year, or the next one when month has already passed
func yearForMonth(month time.Month, today civil.Date) int {
	if month < today.Month {
		return today.Year + 1
	}
	return today.Year
}
