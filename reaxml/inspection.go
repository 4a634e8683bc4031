package reaxml

import (
	"regexp"
	"strconv"
	"time"
)

// Inspection descriptions follow "21-Jun-2025 11:00am to 11:45am". Anything
// else is kept as free text with no parsed instants.
var inspectionPattern = regexp.MustCompile(
	`^(\d{1,2})-([A-Za-z]{3})-(\d{4})\s+(\d{1,2}):(\d{2})\s*(am|pm)\s+to\s+(\d{1,2}):(\d{2})\s*(am|pm)$`)

// ParseInspectionRange derives start/end instants from an inspection
// description. Both instants fall on the stated day; the end time is not
// rolled over past midnight.
func ParseInspectionRange(s string) (time.Time, time.Time, bool) {
	m := inspectionPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, err := time.Parse("Jan", m[2])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	year, _ := strconv.Atoi(m[3])

	startHour := clockHour(m[4], m[6])
	startMin, _ := strconv.Atoi(m[5])
	endHour := clockHour(m[7], m[9])
	endMin, _ := strconv.Atoi(m[8])

	start := time.Date(year, month.Month(), day, startHour, startMin, 0, 0, time.UTC)
	end := time.Date(year, month.Month(), day, endHour, endMin, 0, 0, time.UTC)
	return start, end, true
}

// clockHour converts 12-hour time: 12am is midnight, 12pm is midday.
func clockHour(hour, meridiem string) int {
	h, _ := strconv.Atoi(hour)
	if h == 12 {
		h = 0
	}
	if meridiem == "pm" {
		h += 12
	}
	return h
}
