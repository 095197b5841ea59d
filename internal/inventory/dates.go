package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const dayMonthYear = "2/1/2006"

// fallbackLayouts are tried when a value is not dd/mm/yyyy. "01-02-06" is the
// format excelize renders for cells using the built-in short date style.
var fallbackLayouts = []string{
	time.RFC3339,
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2-1-2006",
	"01-02-06",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}

// Excel serial numbers from 1900-01-01 to 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseDayFirstDate parses dd/mm/yyyy first, then falls back to common
// layouts and Excel serial day numbers. The result is a UTC date.
func ParseDayFirstDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dayMonthYear, value); err == nil {
		return dateOnly(t), nil
	}
	return ParseDate(value)
}

// ParseDate accepts the fallback layouts and Excel serial numbers.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return dateOnly(t), nil
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return dateOnly(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
